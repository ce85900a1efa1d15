package adminapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bistrokit/bistrokit/internal/domain"
	"github.com/bistrokit/bistrokit/pkg/common"
	"github.com/bistrokit/bistrokit/pkg/qrlink"
)

func listTables(c echo.Context) error {
	var tables []domain.DiningTable
	if err := GetDB(c).Order("id ASC").Find(&tables).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query tables", err.Error())
	}
	return ok(c, tables)
}

type tablePayload struct {
	ID int64 `json:"id" form:"id" validate:"required,min=1"`
}

// createTable registers a table under its printed number and assigns a fresh
// QR token.
func createTable(c echo.Context) error {
	var payload tablePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse table parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var exists int64
	GetDB(c).Model(&domain.DiningTable{}).Where("id = ?", payload.ID).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "TABLE_EXISTS", "Table number already exists", nil)
	}

	// Opaque token so table URLs cannot be guessed from the table number.
	table := domain.DiningTable{
		ID:     payload.ID,
		QrCode: common.Sha256HashWithSalt(common.UUID(), common.GetSecretSalt()),
	}
	if err := GetDB(c).Create(&table).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create table", err.Error())
	}
	auditLog(c, "table_create", fmt.Sprintf("created table #%d", table.ID))
	return ok(c, table)
}

type tableCountPayload struct {
	Count int `json:"count" form:"table_count" validate:"min=0"`
}

// setTableCount grows or shrinks the table set to the requested size. New
// tables get fresh QR tokens; shrinking removes the highest-numbered tables.
func setTableCount(c echo.Context) error {
	var payload tableCountPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse table count", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	db := GetDB(c)
	var current int64
	if err := db.Model(&domain.DiningTable{}).Count(&current).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count tables", err.Error())
	}

	switch {
	case int64(payload.Count) > current:
		for i := current + 1; i <= int64(payload.Count); i++ {
			table := domain.DiningTable{
				ID:     i,
				QrCode: common.Sha256HashWithSalt(common.UUID(), common.GetSecretSalt()),
			}
			if err := db.Create(&table).Error; err != nil {
				return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add tables", err.Error())
			}
		}
	case int64(payload.Count) < current:
		var active int64
		db.Model(&domain.Order{}).
			Where("table_id > ? AND status IN ?", payload.Count, domain.ActiveOrderStatuses).
			Count(&active)
		if active > 0 {
			return fail(c, http.StatusConflict, "TABLE_IN_USE", "Removed tables still have active orders",
				map[string]interface{}{"active_orders": active})
		}
		if err := db.Where("id > ?", payload.Count).Delete(&domain.DiningTable{}).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to remove tables", err.Error())
		}
	}

	auditLog(c, "table_count", fmt.Sprintf("set table count to %d", payload.Count))
	return ok(c, map[string]interface{}{"count": payload.Count})
}

func deleteTable(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid table ID", nil)
	}

	var table domain.DiningTable
	if err := GetDB(c).First(&table, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "TABLE_NOT_FOUND", "Table not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query table", err.Error())
	}

	var active int64
	GetDB(c).Model(&domain.Order{}).
		Where("table_id = ? AND status IN ?", id, domain.ActiveOrderStatuses).
		Count(&active)
	if active > 0 {
		return fail(c, http.StatusConflict, "TABLE_IN_USE", "Table has active orders and cannot be deleted",
			map[string]interface{}{"active_orders": active})
	}

	if err := GetDB(c).Delete(&table).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete table", err.Error())
	}
	auditLog(c, "table_delete", fmt.Sprintf("deleted table #%d", id))
	return ok(c, map[string]interface{}{"id": id})
}

// downloadTableQR renders the table's QR code PNG for printing.
func downloadTableQR(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid table ID", nil)
	}

	var table domain.DiningTable
	if err := GetDB(c).First(&table, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "TABLE_NOT_FOUND", "Table not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query table", err.Error())
	}

	link := qrlink.TableLink(GetApp(c).Config().Web.PublicURL, table.ID)
	png, err := qrlink.Generate(link, 512)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "QR_ERROR", "Failed to render QR code", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=table-%d.png", table.ID))
	return c.Blob(http.StatusOK, "image/png", png)
}
