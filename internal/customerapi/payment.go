package customerapi

import (
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bistrokit/bistrokit/internal/app"
	"github.com/bistrokit/bistrokit/internal/ordering"
	"github.com/bistrokit/bistrokit/internal/payment"
)

// createCheckoutSession prices the cart and opens a hosted checkout session.
// The cart travels in session metadata; the order row is only created once
// the provider reports the session paid.
func createCheckoutSession(c echo.Context) error {
	var input ordering.PlaceInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", nil)
	}
	if len(input.Items) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_ORDER", "Order has no items", nil)
	}

	ctx := c.Request().Context()
	total, err := orderSvc.Quote(ctx, input)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to price order", err.Error())
	}
	if total <= 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_ORDER", "No purchasable items in order", nil)
	}

	metadata, err := payment.EncodeOrderMetadata(input, total)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "PAYMENT_ERROR", "Failed to prepare checkout", err.Error())
	}

	a := GetApp(c)
	publicURL := a.Config().Web.PublicURL
	currency := a.GetSettingsStringValue(app.ConfigRestaurant, app.ConfigCurrency)
	if currency == "" {
		currency = a.Config().Payment.Currency
	}

	sess, err := checkout.CreateSession(ctx, payment.CheckoutRequest{
		AmountCents: int64(math.Round(total * 100)),
		Currency:    currency,
		ProductName: "Restaurant order",
		SuccessURL:  fmt.Sprintf("%s/api/payment/success?session_id={CHECKOUT_SESSION_ID}", publicURL),
		CancelURL:   fmt.Sprintf("%s/api/payment/cancel", publicURL),
		Metadata:    metadata,
	})
	if errors.Is(err, payment.ErrNotConfigured) {
		return fail(c, http.StatusServiceUnavailable, "PAYMENT_UNAVAILABLE", "Online payment is not configured", nil)
	} else if err != nil {
		zap.L().Error("checkout session create failed", zap.Error(err))
		return fail(c, http.StatusBadGateway, "PAYMENT_ERROR", "Payment provider rejected the request", nil)
	}
	return ok(c, map[string]interface{}{
		"id":  sess.ID,
		"url": sess.URL,
	})
}

// paymentSuccess verifies the session with the provider and creates the
// pending order from the session metadata.
func paymentSuccess(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing session_id", nil)
	}

	ctx := c.Request().Context()
	sess, err := checkout.RetrieveSession(ctx, sessionID)
	if err != nil {
		zap.L().Error("checkout session retrieve failed",
			zap.String("session_id", sessionID), zap.Error(err))
		return fail(c, http.StatusBadGateway, "PAYMENT_ERROR", "Failed to verify payment", nil)
	}
	if sess.PaymentStatus != payment.PaymentStatusPaid {
		return fail(c, http.StatusPaymentRequired, "PAYMENT_INCOMPLETE", "Payment was not completed", nil)
	}

	input, total, err := payment.DecodeOrderMetadata(sess.Metadata)
	if err != nil {
		return fail(c, http.StatusBadRequest, "PAYMENT_ERROR", "Checkout session carries no order", err.Error())
	}

	// The session's quoted total is what the customer was charged, so the
	// stored order carries it even if a menu price changed mid-checkout.
	order, err := orderSvc.PlaceWithTotal(ctx, input, total)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "ORDER_FAILED", "Failed to create paid order", err.Error())
	}
	zap.L().Info("paid order created",
		zap.Int64("order_id", order.ID),
		zap.String("session_id", sessionID))
	return ok(c, order)
}

// paymentCancel acknowledges an abandoned checkout; nothing was written.
func paymentCancel(c echo.Context) error {
	return ok(c, map[string]interface{}{"cancelled": true})
}
