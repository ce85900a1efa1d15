package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bistrokit/bistrokit/internal/catalog"
	"github.com/bistrokit/bistrokit/internal/domain"
)

const thumbnailWidth = 400

// listMenuItems returns the full catalog, unavailable items included, grouped
// by category for the admin panel.
func listMenuItems(c echo.Context) error {
	groups, err := catalog.NewReader(GetDB(c)).Grouped(c.Request().Context(), false)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query menu", err.Error())
	}
	return ok(c, groups)
}

func listCategories(c echo.Context) error {
	return ok(c, catalog.Categories)
}

func getMenuItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu item ID", nil)
	}
	var item domain.MenuItem
	if err := GetDB(c).First(&item, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Menu item not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query menu item", err.Error())
	}
	return ok(c, item)
}

func validCategory(category string) bool {
	for _, cat := range catalog.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

// bindMenuItemForm fills the item from multipart form fields and handles an
// optional image upload. Returns a user-facing error message or "".
func bindMenuItemForm(c echo.Context, item *domain.MenuItem) string {
	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		item.Name = name
	}
	if desc := c.FormValue("description"); desc != "" {
		item.Description = desc
	}
	if price := c.FormValue("price"); price != "" {
		item.Price = cast.ToFloat64(price)
	}
	if category := c.FormValue("category"); category != "" {
		if !validCategory(category) {
			return "Unknown category"
		}
		item.Category = category
	}
	if v := c.FormValue("customizable"); v != "" {
		item.Customizable = cast.ToBool(v)
	}
	if v := c.FormValue("contains_alcohol"); v != "" {
		item.ContainsAlcohol = cast.ToBool(v)
	}
	if v := c.FormValue("available"); v != "" {
		item.Available = cast.ToBool(v)
	}
	if v := c.FormValue("display_date"); v != "" {
		t, err := dateparse.ParseLocal(v)
		if err != nil {
			return "Unparseable display date"
		}
		item.DisplayDate = &t
	}

	file, err := c.FormFile("image")
	if err == nil {
		src, err := file.Open()
		if err != nil {
			return "Failed to read uploaded image"
		}
		defer src.Close()
		filename, err := images.Save(file.Filename, src)
		if err != nil {
			zap.L().Error("image upload failed", zap.Error(err))
			return "Failed to store uploaded image"
		}
		if _, err := images.Thumbnail(filename, thumbnailWidth); err != nil {
			zap.L().Warn("thumbnail generation failed",
				zap.String("filename", filename), zap.Error(err))
		}
		item.ImageFilename = filename
	}
	return ""
}

func createMenuItem(c echo.Context) error {
	item := domain.MenuItem{Available: true}
	if msg := bindMenuItemForm(c, &item); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}
	if item.Name == "" || item.Category == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name and category are required", nil)
	}
	if item.Price < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must not be negative", nil)
	}

	if err := GetDB(c).Create(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create menu item", err.Error())
	}
	auditLog(c, "menu_create", fmt.Sprintf("created menu item %s (#%d)", item.Name, item.ID))
	return ok(c, item)
}

func updateMenuItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu item ID", nil)
	}
	var item domain.MenuItem
	if err := GetDB(c).First(&item, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Menu item not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query menu item", err.Error())
	}

	oldImage := item.ImageFilename
	if msg := bindMenuItemForm(c, &item); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}
	if err := GetDB(c).Save(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update menu item", err.Error())
	}
	if oldImage != "" && oldImage != item.ImageFilename {
		_ = images.Remove(oldImage)
	}
	auditLog(c, "menu_update", fmt.Sprintf("updated menu item %s (#%d)", item.Name, item.ID))
	return ok(c, item)
}

// deleteMenuItem removes the item and every order line referencing it.
func deleteMenuItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu item ID", nil)
	}
	var item domain.MenuItem
	if err := GetDB(c).First(&item, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Menu item not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query menu item", err.Error())
	}

	if err := catalog.DeleteMenuItem(c.Request().Context(), GetDB(c), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete menu item", err.Error())
	}
	if item.ImageFilename != "" {
		_ = images.Remove(item.ImageFilename)
	}
	auditLog(c, "menu_delete", fmt.Sprintf("deleted menu item %s (#%d)", item.Name, id))
	return ok(c, map[string]interface{}{"id": id})
}

// toggleMenuItem flips availability without touching the rest of the item.
func toggleMenuItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu item ID", nil)
	}
	var item domain.MenuItem
	if err := GetDB(c).First(&item, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Menu item not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query menu item", err.Error())
	}

	item.Available = !item.Available
	if err := GetDB(c).Model(&item).Update("available", item.Available).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to toggle menu item", err.Error())
	}
	return ok(c, item)
}
