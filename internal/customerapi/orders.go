package customerapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bistrokit/bistrokit/internal/ordering"
)

// placeOrder creates a new order from the customer's cart.
func placeOrder(c echo.Context) error {
	var input ordering.PlaceInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}
	if len(input.Items) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_ORDER", "Order has no items", nil)
	}

	order, err := orderSvc.Place(c.Request().Context(), input)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "ORDER_FAILED", "Failed to place order", err.Error())
	}
	return ok(c, order)
}

// getOrder returns one order with its lines for the customer's status page.
func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := orderSvc.Get(c.Request().Context(), id)
	if errors.Is(err, ordering.ErrNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load order", err.Error())
	}
	return ok(c, order)
}

// getOrderStatus returns the lightweight polling view of one order.
func getOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := orderSvc.Get(c.Request().Context(), id)
	if errors.Is(err, ordering.ErrNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load order", err.Error())
	}
	return ok(c, map[string]interface{}{
		"id":                        order.ID,
		"order_number":              order.OrderNumber,
		"status":                    order.Status,
		"estimated_completion_time": order.EstimatedCompletionTime,
	})
}

// callWaiter raises the waiter signal for the order's table.
func callWaiter(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	err = orderSvc.CallWaiter(c.Request().Context(), id)
	switch {
	case errors.Is(err, ordering.ErrNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case errors.Is(err, ordering.ErrCallTooSoon):
		return fail(c, http.StatusTooManyRequests, "CALL_TOO_SOON", "Waiter already called, please wait", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to call waiter", err.Error())
	}
	return ok(c, map[string]interface{}{"called": true})
}

// requestBill raises the bill signal with payment preferences.
func requestBill(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var req ordering.BillRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse bill request", nil)
	}
	err = orderSvc.RequestBill(c.Request().Context(), id, req)
	if errors.Is(err, ordering.ErrNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to request bill", err.Error())
	}
	return ok(c, map[string]interface{}{"requested": true})
}
