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

	"github.com/bistrokit/bistrokit/internal/domain"
)

func listEvents(c echo.Context) error {
	var events []domain.Event
	if err := GetDB(c).Order("start_date DESC").Find(&events).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query events", err.Error())
	}
	return ok(c, events)
}

func getEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid event ID", nil)
	}
	var event domain.Event
	if err := GetDB(c).First(&event, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "EVENT_NOT_FOUND", "Event not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query event", err.Error())
	}
	return ok(c, event)
}

// bindEventForm fills the event from multipart form fields and handles an
// optional image upload. Returns a user-facing error message or "".
func bindEventForm(c echo.Context, event *domain.Event) string {
	if title := strings.TrimSpace(c.FormValue("title")); title != "" {
		event.Title = title
	}
	if desc := c.FormValue("description"); desc != "" {
		event.Description = desc
	}
	if v := c.FormValue("start_date"); v != "" {
		t, err := dateparse.ParseLocal(v)
		if err != nil {
			return "Unparseable start date"
		}
		event.StartDate = t
	}
	if v := c.FormValue("end_date"); v != "" {
		t, err := dateparse.ParseLocal(v)
		if err != nil {
			return "Unparseable end date"
		}
		event.EndDate = t
	}
	if v := c.FormValue("display_title"); v != "" {
		event.DisplayTitle = cast.ToBool(v)
	}
	if v := c.FormValue("display_description"); v != "" {
		event.DisplayDescription = cast.ToBool(v)
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
			zap.L().Error("event image upload failed", zap.Error(err))
			return "Failed to store uploaded image"
		}
		event.Image = filename
	}
	return ""
}

func createEvent(c echo.Context) error {
	event := domain.Event{DisplayTitle: true, DisplayDescription: true}
	if msg := bindEventForm(c, &event); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}
	if event.Title == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Title is required", nil)
	}
	if event.EndDate.Before(event.StartDate) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "End date precedes start date", nil)
	}

	if err := GetDB(c).Create(&event).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create event", err.Error())
	}
	auditLog(c, "event_create", fmt.Sprintf("created event %s (#%d)", event.Title, event.ID))
	return ok(c, event)
}

func updateEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid event ID", nil)
	}
	var event domain.Event
	if err := GetDB(c).First(&event, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "EVENT_NOT_FOUND", "Event not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query event", err.Error())
	}

	oldImage := event.Image
	if msg := bindEventForm(c, &event); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}
	if event.EndDate.Before(event.StartDate) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "End date precedes start date", nil)
	}
	if err := GetDB(c).Save(&event).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update event", err.Error())
	}
	if oldImage != "" && oldImage != event.Image {
		_ = images.Remove(oldImage)
	}
	auditLog(c, "event_update", fmt.Sprintf("updated event %s (#%d)", event.Title, event.ID))
	return ok(c, event)
}

func deleteEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid event ID", nil)
	}
	var event domain.Event
	if err := GetDB(c).First(&event, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "EVENT_NOT_FOUND", "Event not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query event", err.Error())
	}

	if err := GetDB(c).Delete(&event).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete event", err.Error())
	}
	if event.Image != "" {
		_ = images.Remove(event.Image)
	}
	auditLog(c, "event_delete", fmt.Sprintf("deleted event %s (#%d)", event.Title, id))
	return ok(c, map[string]interface{}{"id": id})
}
