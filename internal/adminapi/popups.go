package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bistrokit/bistrokit/internal/domain"
)

func getPopup(c echo.Context) error {
	var popup domain.Popup
	err := GetDB(c).First(&popup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ok(c, nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query popup", err.Error())
	}
	return ok(c, popup)
}

// setPopup replaces the single promotional popup. A new image upload swaps
// the stored file; without one only the active flag changes.
func setPopup(c echo.Context) error {
	db := GetDB(c)
	var popup domain.Popup
	err := db.First(&popup).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query popup", err.Error())
	}

	oldImage := popup.ImageFilename
	if v := c.FormValue("is_active"); v != "" {
		popup.IsActive = cast.ToBool(v)
	}

	file, ferr := c.FormFile("image")
	if ferr == nil {
		src, err := file.Open()
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read uploaded image", nil)
		}
		defer src.Close()
		filename, err := images.Save(file.Filename, src)
		if err != nil {
			zap.L().Error("popup image upload failed", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store uploaded image", nil)
		}
		popup.ImageFilename = filename
	}
	if popup.ImageFilename == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Popup requires an image", nil)
	}

	if err := db.Save(&popup).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save popup", err.Error())
	}
	if oldImage != "" && oldImage != popup.ImageFilename {
		_ = images.Remove(oldImage)
	}
	auditLog(c, "popup_set", "updated promotional popup")
	return ok(c, popup)
}

func clearPopup(c echo.Context) error {
	db := GetDB(c)
	var popup domain.Popup
	err := db.First(&popup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ok(c, nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query popup", err.Error())
	}

	if err := db.Delete(&popup).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete popup", err.Error())
	}
	if popup.ImageFilename != "" {
		_ = images.Remove(popup.ImageFilename)
	}
	auditLog(c, "popup_clear", "removed promotional popup")
	return ok(c, map[string]interface{}{"deleted": true})
}
