package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bistrokit/bistrokit/internal/domain"
	"github.com/bistrokit/bistrokit/internal/webserver"
	"github.com/bistrokit/bistrokit/pkg/common"
)

type operatorPayload struct {
	Username   string `json:"username" validate:"required,min=2,max=50"`
	Password   string `json:"password" validate:"required,min=6"`
	Realname   string `json:"realname" validate:"omitempty,max=100"`
	Email      string `json:"email" validate:"omitempty,email"`
	Mobile     string `json:"mobile" validate:"omitempty,max=20"`
	IsAdmin    bool   `json:"is_admin"`
	IsEmployee bool   `json:"is_employee"`
	Remark     string `json:"remark" validate:"omitempty,max=500"`
}

type operatorUpdatePayload struct {
	Password   *string `json:"password" validate:"omitempty,min=6"`
	Realname   *string `json:"realname" validate:"omitempty,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Mobile     *string `json:"mobile" validate:"omitempty,max=20"`
	IsAdmin    *bool   `json:"is_admin"`
	IsEmployee *bool   `json:"is_employee"`
	Status     *string `json:"status" validate:"omitempty,oneof=enabled disabled"`
	Remark     *string `json:"remark" validate:"omitempty,max=500"`
}

func listOperators(c echo.Context) error {
	var oprs []domain.SysOpr
	if err := GetDB(c).Order("id ASC").Find(&oprs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operators", err.Error())
	}
	return ok(c, oprs)
}

func createOperator(c echo.Context) error {
	var payload operatorPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse operator parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	payload.Username = strings.TrimSpace(payload.Username)
	var exists int64
	GetDB(c).Model(&domain.SysOpr{}).Where("username = ?", payload.Username).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "OPERATOR_EXISTS", "Username already exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "HASH_ERROR", "Failed to hash password", nil)
	}

	opr := domain.SysOpr{
		ID:         common.UUIDint64(),
		Username:   payload.Username,
		Password:   string(hashed),
		Realname:   payload.Realname,
		Email:      payload.Email,
		Mobile:     payload.Mobile,
		IsAdmin:    payload.IsAdmin,
		IsEmployee: payload.IsEmployee,
		Status:     common.ENABLED,
		Remark:     payload.Remark,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := GetDB(c).Create(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create operator", err.Error())
	}
	auditLog(c, "operator_create", fmt.Sprintf("created operator %s", opr.Username))
	return ok(c, opr)
}

func updateOperator(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid operator ID", nil)
	}

	var payload operatorUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse operator parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var opr domain.SysOpr
	if err := GetDB(c).Where("id = ?", id).First(&opr).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "OPERATOR_NOT_FOUND", "Operator not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", err.Error())
	}

	if payload.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "HASH_ERROR", "Failed to hash password", nil)
		}
		opr.Password = string(hashed)
	}
	if payload.Realname != nil {
		opr.Realname = *payload.Realname
	}
	if payload.Email != nil {
		opr.Email = *payload.Email
	}
	if payload.Mobile != nil {
		opr.Mobile = *payload.Mobile
	}
	if payload.IsAdmin != nil {
		opr.IsAdmin = *payload.IsAdmin
	}
	if payload.IsEmployee != nil {
		opr.IsEmployee = *payload.IsEmployee
	}
	if payload.Status != nil {
		opr.Status = *payload.Status
	}
	if payload.Remark != nil {
		opr.Remark = *payload.Remark
	}
	opr.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update operator", err.Error())
	}
	auditLog(c, "operator_update", fmt.Sprintf("updated operator %s", opr.Username))
	return ok(c, opr)
}

func deleteOperator(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid operator ID", nil)
	}

	var opr domain.SysOpr
	if err := GetDB(c).Where("id = ?", id).First(&opr).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "OPERATOR_NOT_FOUND", "Operator not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", err.Error())
	}

	if opr.Username == webserver.CurrentOperator(c) {
		return fail(c, http.StatusConflict, "OPERATOR_SELF_DELETE", "Cannot delete the logged-in account", nil)
	}

	if err := GetDB(c).Delete(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete operator", err.Error())
	}
	auditLog(c, "operator_delete", fmt.Sprintf("deleted operator %s", opr.Username))
	return ok(c, map[string]interface{}{"id": id})
}

func listOprLog(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c).Model(&domain.SysOprLog{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator log", err.Error())
	}

	var logs []domain.SysOprLog
	if err := db.Order("opt_time DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&logs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator log", err.Error())
	}
	return paged(c, logs, total, page, pageSize)
}
