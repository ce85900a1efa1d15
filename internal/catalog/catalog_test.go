package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bistrokit/bistrokit/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(domain.Tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, name, category string, available bool) domain.MenuItem {
	t.Helper()
	item := domain.MenuItem{Name: name, Category: category, Price: 10, Available: available}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func TestGroupedKeepsCategoryOrder(t *testing.T) {
	db := newTestDB(t)
	seedItem(t, db, "Rosol", "Zupy", true)
	seedItem(t, db, "Pierogi", "Dania główne", true)

	groups, err := NewReader(db).Grouped(context.Background(), true)
	if err != nil {
		t.Fatalf("grouped: %v", err)
	}
	if len(groups) != len(Categories) {
		t.Fatalf("group count = %d, want %d", len(groups), len(Categories))
	}
	for i, group := range groups {
		if group.Category != Categories[i] {
			t.Errorf("group %d = %q, want %q", i, group.Category, Categories[i])
		}
	}
}

func TestGroupedAvailabilityFilter(t *testing.T) {
	db := newTestDB(t)
	seedItem(t, db, "Pierogi", "Dania główne", true)
	seedItem(t, db, "Wyprzedane", "Dania główne", false)

	countFor := func(availableOnly bool) int {
		groups, err := NewReader(db).Grouped(context.Background(), availableOnly)
		if err != nil {
			t.Fatalf("grouped: %v", err)
		}
		for _, g := range groups {
			if g.Category == "Dania główne" {
				return len(g.Items)
			}
		}
		return 0
	}

	if got := countFor(true); got != 1 {
		t.Errorf("customer view items = %d, want 1", got)
	}
	if got := countFor(false); got != 2 {
		t.Errorf("admin view items = %d, want 2", got)
	}
}

func TestPageSubsets(t *testing.T) {
	db := newTestDB(t)
	seedItem(t, db, "Rosol", "Zupy", true)
	seedItem(t, db, "Sernik", "Desery", true)
	seedItem(t, db, "Pierogi", "Dania główne", true)

	groups, err := NewReader(db).Page(context.Background(), "zupy-desery-przystawki")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("page group count = %d, want 3", len(groups))
	}
	for _, g := range groups {
		if g.Category == "Dania główne" {
			t.Error("page leaked a category outside its subset")
		}
	}

	if _, err := NewReader(db).Page(context.Background(), "nope"); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("unknown page = %v, want ErrUnknownPage", err)
	}
}

func TestVisibleEventsKeepsUpcoming(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	seedEvent := func(title string, start, end time.Time) {
		t.Helper()
		event := domain.Event{Title: title, StartDate: start, EndDate: end}
		if err := db.Create(&event).Error; err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}
	seedEvent("ongoing", now.AddDate(0, 0, -2), now.AddDate(0, 0, 2))
	seedEvent("upcoming", now.AddDate(0, 0, 5), now.AddDate(0, 0, 7))
	seedEvent("finished", now.AddDate(0, 0, -7), now.AddDate(0, 0, -5))

	events, err := NewReader(db).VisibleEvents(context.Background(), now)
	if err != nil {
		t.Fatalf("visible events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("visible events = %d, want 2", len(events))
	}
	if events[0].Title != "ongoing" || events[1].Title != "upcoming" {
		t.Errorf("events = %q, %q; want ongoing, upcoming", events[0].Title, events[1].Title)
	}
}

func TestDeleteMenuItemCascades(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "Pierogi", "Dania główne", true)
	keep := seedItem(t, db, "Rosol", "Zupy", true)

	order := domain.Order{Status: domain.OrderStatusCompleted, OrderDay: "2026-03-01", OrderNumber: 1}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	for _, id := range []int64{item.ID, keep.ID} {
		line := domain.OrderItem{OrderID: order.ID, MenuItemID: id, Quantity: 1}
		if err := db.Create(&line).Error; err != nil {
			t.Fatalf("seed line: %v", err)
		}
	}

	if err := DeleteMenuItem(context.Background(), db, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var items int64
	db.Model(&domain.MenuItem{}).Count(&items)
	if items != 1 {
		t.Errorf("menu items left = %d, want 1", items)
	}

	var lines int64
	db.Model(&domain.OrderItem{}).Count(&lines)
	if lines != 1 {
		t.Errorf("order lines left = %d, want 1", lines)
	}

	var orphaned int64
	db.Model(&domain.OrderItem{}).Where("menu_item_id = ?", item.ID).Count(&orphaned)
	if orphaned != 0 {
		t.Errorf("orphaned lines = %d, want 0", orphaned)
	}
}
