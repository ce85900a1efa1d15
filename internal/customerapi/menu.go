package customerapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bistrokit/bistrokit/internal/app"
	"github.com/bistrokit/bistrokit/internal/catalog"
	"github.com/bistrokit/bistrokit/internal/domain"
	"github.com/bistrokit/bistrokit/pkg/geo"
)

// getMenu returns every category with its available items.
func getMenu(c echo.Context) error {
	groups, err := menuReader.Grouped(c.Request().Context(), true)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load menu", err.Error())
	}
	return ok(c, groups)
}

// getMenuPage returns one public storefront page subset.
func getMenuPage(c echo.Context) error {
	groups, err := menuReader.Page(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, catalog.ErrUnknownPage) {
		return fail(c, http.StatusNotFound, "PAGE_NOT_FOUND", "Unknown menu page", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load menu page", err.Error())
	}
	return ok(c, groups)
}

// resolveTable maps a scanned QR token to its table.
func resolveTable(c echo.Context) error {
	var table domain.DiningTable
	err := GetDB(c).Where("qr_code = ?", c.Param("qr")).First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "TABLE_NOT_FOUND", "Unknown table code", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to resolve table", err.Error())
	}
	return ok(c, table)
}

// listCurrentEvents returns ongoing and upcoming events.
func listCurrentEvents(c echo.Context) error {
	now := time.Now().In(GetApp(c).Location())
	events, err := menuReader.VisibleEvents(c.Request().Context(), now)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load events", err.Error())
	}
	return ok(c, events)
}

// getPopup returns the active promotional popup, or null when none is set.
func getPopup(c echo.Context) error {
	var popup domain.Popup
	err := GetDB(c).Where("is_active = ?", true).First(&popup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ok(c, nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load popup", err.Error())
	}
	return ok(c, popup)
}

type locationPayload struct {
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

// checkLocation reports whether the customer's coordinates fall inside the
// restaurant geofence. With the geofence disabled everyone is allowed.
func checkLocation(c echo.Context) error {
	var payload locationPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse coordinates", nil)
	}

	a := GetApp(c)
	if !a.GetSettingsBoolValue(app.ConfigRestaurant, app.ConfigGeofenceEnabled) {
		return ok(c, map[string]interface{}{"allowed": true})
	}

	center := geo.Point{
		Lat: a.GetSettingsFloat64Value(app.ConfigRestaurant, app.ConfigGeofenceLatitude),
		Lon: a.GetSettingsFloat64Value(app.ConfigRestaurant, app.ConfigGeofenceLongitude),
	}
	radius := a.GetSettingsFloat64Value(app.ConfigRestaurant, app.ConfigGeofenceRadiusKm)
	user := geo.Point{Lat: payload.Latitude, Lon: payload.Longitude}
	return ok(c, map[string]interface{}{
		"allowed": geo.WithinRadius(center, user, radius),
	})
}
