package staffapi

import (
	"github.com/bistrokit/bistrokit/internal/ordering"
	"github.com/bistrokit/bistrokit/internal/webserver"
)

var orderSvc *ordering.Service

// InitRouter wires the staff dashboard routes. Must run before the web
// server starts.
func InitRouter(svc *ordering.Service) {
	orderSvc = svc

	webserver.StaffGET("/orders/active", listActiveOrders)
	webserver.StaffGET("/orders/accepted", listAcceptedOrders)
	webserver.StaffGET("/orders/calls", listCalls)
	webserver.StaffGET("/orders/history", listHistory)
	webserver.StaffGET("/orders/history/export", exportHistory)

	webserver.StaffPOST("/orders/:id/accept", acceptOrder)
	webserver.StaffPOST("/orders/:id/prepare", startPreparation)
	webserver.StaffPOST("/orders/:id/ready", markReady)
	webserver.StaffPOST("/orders/:id/complete", completeOrder)
	webserver.StaffPOST("/orders/:id/dismiss-call", dismissCall)
	webserver.StaffPOST("/orders/:id/dismiss-bill", dismissBill)
}
