package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bistrokit/bistrokit/internal/domain"
)

func listSettings(c echo.Context) error {
	var settings []domain.SysConfig
	if err := GetDB(c).Order("type ASC, sort ASC").Find(&settings).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, settings)
}

type settingPayload struct {
	Type  string `json:"type" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

type settingsUpdatePayload struct {
	Settings []settingPayload `json:"settings" validate:"required,min=1,dive"`
}

// updateSettings applies a batch of setting changes. Values take effect on
// the next read; no restart is needed.
func updateSettings(c echo.Context) error {
	var payload settingsUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	mgr := GetApp(c).ConfigMgr()
	for _, item := range payload.Settings {
		if err := mgr.Set(item.Type, item.Name, item.Value); err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR",
				fmt.Sprintf("Failed to update setting %s/%s", item.Type, item.Name), err.Error())
		}
	}
	auditLog(c, "settings_update", fmt.Sprintf("updated %d settings", len(payload.Settings)))
	return ok(c, map[string]interface{}{"updated": len(payload.Settings)})
}
