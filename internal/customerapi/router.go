package customerapi

import (
	"github.com/bistrokit/bistrokit/internal/catalog"
	"github.com/bistrokit/bistrokit/internal/ordering"
	"github.com/bistrokit/bistrokit/internal/payment"
	"github.com/bistrokit/bistrokit/internal/webserver"
)

var (
	orderSvc   *ordering.Service
	menuReader *catalog.Reader
	checkout   payment.CheckoutProvider
)

// InitRouter wires the customer-facing routes. Must run before the web
// server starts.
func InitRouter(svc *ordering.Service, reader *catalog.Reader, provider payment.CheckoutProvider) {
	orderSvc = svc
	menuReader = reader
	checkout = provider

	webserver.PubGET("/menu", getMenu)
	webserver.PubGET("/menu/online", getMenu)
	webserver.PubGET("/menu/pages/:slug", getMenuPage)
	webserver.PubGET("/tables/:qr", resolveTable)
	webserver.PubGET("/events", listCurrentEvents)
	webserver.PubGET("/popup", getPopup)
	webserver.PubPOST("/location/check", checkLocation)

	webserver.PubPOST("/orders", placeOrder)
	webserver.PubGET("/orders/:id", getOrder)
	webserver.PubGET("/orders/:id/status", getOrderStatus)
	webserver.PubPOST("/orders/:id/call-waiter", callWaiter)
	webserver.PubPOST("/orders/:id/request-bill", requestBill)

	webserver.PubPOST("/payment/checkout-session", createCheckoutSession)
	webserver.PubGET("/payment/success", paymentSuccess)
	webserver.PubGET("/payment/cancel", paymentCancel)
}
