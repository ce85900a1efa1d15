package adminapi

import (
	"github.com/bistrokit/bistrokit/internal/webserver"
	"github.com/bistrokit/bistrokit/pkg/storage"
)

var images *storage.ImageStore

// InitRouter wires the admin panel routes. Must run before the web server
// starts.
func InitRouter(store *storage.ImageStore) {
	images = store

	webserver.ApiGET("/menu/items", listMenuItems)
	webserver.ApiGET("/menu/items/:id", getMenuItem)
	webserver.ApiPOST("/menu/items", createMenuItem)
	webserver.ApiPUT("/menu/items/:id", updateMenuItem)
	webserver.ApiDELETE("/menu/items/:id", deleteMenuItem)
	webserver.ApiPOST("/menu/items/:id/toggle", toggleMenuItem)
	webserver.ApiGET("/menu/categories", listCategories)

	webserver.ApiGET("/tables", listTables)
	webserver.ApiPUT("/tables", setTableCount)
	webserver.ApiPOST("/tables", createTable)
	webserver.ApiDELETE("/tables/:id", deleteTable)
	webserver.ApiGET("/tables/:id/qr", downloadTableQR)

	webserver.ApiGET("/events", listEvents)
	webserver.ApiGET("/events/:id", getEvent)
	webserver.ApiPOST("/events", createEvent)
	webserver.ApiPUT("/events/:id", updateEvent)
	webserver.ApiDELETE("/events/:id", deleteEvent)

	webserver.ApiGET("/popup", getPopup)
	webserver.ApiPOST("/popup", setPopup)
	webserver.ApiDELETE("/popup", clearPopup)

	webserver.ApiGET("/system/operators", listOperators)
	webserver.ApiPOST("/system/operators", createOperator)
	webserver.ApiPUT("/system/operators/:id", updateOperator)
	webserver.ApiDELETE("/system/operators/:id", deleteOperator)
	webserver.ApiGET("/system/oprlog", listOprLog)

	webserver.ApiGET("/system/settings", listSettings)
	webserver.ApiPUT("/system/settings", updateSettings)
}
