package staffapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bistrokit/bistrokit/internal/domain"
	"github.com/bistrokit/bistrokit/internal/ordering"
)

// listActiveOrders returns every order still moving through the lifecycle,
// for the waiter dashboard poll.
func listActiveOrders(c echo.Context) error {
	orders, err := orderSvc.ActiveOrders(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load orders", err.Error())
	}
	return ok(c, orders)
}

// listAcceptedOrders returns the kitchen view set.
func listAcceptedOrders(c echo.Context) error {
	orders, err := orderSvc.AcceptedOrders(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load orders", err.Error())
	}
	return ok(c, orders)
}

// callEntry is one row on the waiter-call board. An order with both signals
// raised produces two entries.
type callEntry struct {
	OrderID       int64      `json:"order_id"`
	OrderNumber   int        `json:"order_number"`
	TableID       *int64     `json:"table_id"`
	Type          string     `json:"type"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Tip           float64    `json:"tip,omitempty"`
	Time          *time.Time `json:"time,omitempty"`
}

func listCalls(c echo.Context) error {
	orders, err := orderSvc.WaiterCalls(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load calls", err.Error())
	}
	entries := make([]callEntry, 0, len(orders))
	for _, o := range orders {
		if o.CallWaiter {
			entries = append(entries, callEntry{
				OrderID:     o.ID,
				OrderNumber: o.OrderNumber,
				TableID:     o.TableID,
				Type:        "waiter",
				Time:        o.LastCallTime,
			})
		}
		if o.RequestBill {
			entries = append(entries, callEntry{
				OrderID:       o.ID,
				OrderNumber:   o.OrderNumber,
				TableID:       o.TableID,
				Type:          "bill",
				PaymentMethod: o.BillPaymentMethod,
				Tip:           o.Tip,
				Time:          o.LastCallTime,
			})
		}
	}
	return ok(c, entries)
}

type acceptPayload struct {
	RealizationTime int `json:"realization_time" form:"realization_time"`
}

func acceptOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload acceptPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse accept parameters", nil)
	}
	err = orderSvc.Accept(c.Request().Context(), id, payload.RealizationTime)
	switch {
	case errors.Is(err, ordering.ErrNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case errors.Is(err, ordering.ErrInvalidRealizationTime):
		return fail(c, http.StatusBadRequest, "INVALID_REALIZATION_TIME", "Realization time must be positive", nil)
	case errors.Is(err, ordering.ErrInvalidTransition):
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Order is not pending", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to accept order", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id, "status": domain.OrderStatusAccepted})
}

func startPreparation(c echo.Context) error {
	return transitionHandler(c, orderSvc.StartPreparation, domain.OrderStatusInPreparation)
}

func markReady(c echo.Context) error {
	return transitionHandler(c, orderSvc.MarkReady, domain.OrderStatusReady)
}

func completeOrder(c echo.Context) error {
	return transitionHandler(c, orderSvc.Complete, domain.OrderStatusCompleted)
}

func transitionHandler(c echo.Context, fn func(ctx context.Context, id int64) error, target string) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	err = fn(c.Request().Context(), id)
	switch {
	case errors.Is(err, ordering.ErrNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case errors.Is(err, ordering.ErrInvalidTransition):
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Order is not in an eligible status", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id, "status": target})
}

func dismissCall(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	err = orderSvc.DismissCall(c.Request().Context(), id)
	if errors.Is(err, ordering.ErrNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to dismiss call", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

func dismissBill(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	err = orderSvc.DismissBill(c.Request().Context(), id)
	if errors.Is(err, ordering.ErrNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to dismiss bill", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
