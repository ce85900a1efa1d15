package ordering

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

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := NewGormOrderRepository(db, time.UTC)
	return NewService(db, repo, nil), db
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price float64, available bool) domain.MenuItem {
	t.Helper()
	item := domain.MenuItem{
		Name:      name,
		Price:     price,
		Category:  "Dania główne",
		Available: available,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed menu item: %v", err)
	}
	return item
}

func TestPlaceAssignsSequentialNumbers(t *testing.T) {
	svc, db := newTestService(t)
	item := seedMenuItem(t, db, "Pierogi", 24.0, true)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		order, err := svc.Place(ctx, PlaceInput{
			Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("place order %d: %v", want, err)
		}
		if order.OrderNumber != want {
			t.Errorf("order number = %d, want %d", order.OrderNumber, want)
		}
		if order.OrderDay == "" {
			t.Error("order day not stamped")
		}
	}
}

func TestNumberingResetsEachDay(t *testing.T) {
	svc, db := newTestService(t)
	item := seedMenuItem(t, db, "Zurek", 18.0, true)
	repo := svc.repo.(*GormOrderRepository)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	repo.nowFn = func() time.Time { return day1 }
	first, err := svc.Place(ctx, PlaceInput{Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 1}}})
	if err != nil {
		t.Fatalf("place day1: %v", err)
	}

	repo.nowFn = func() time.Time { return day1.Add(24 * time.Hour) }
	second, err := svc.Place(ctx, PlaceInput{Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 1}}})
	if err != nil {
		t.Fatalf("place day2: %v", err)
	}

	if first.OrderNumber != 1 || second.OrderNumber != 1 {
		t.Errorf("numbers = %d, %d, want both 1", first.OrderNumber, second.OrderNumber)
	}
	if first.OrderDay == second.OrderDay {
		t.Errorf("order days should differ, both %q", first.OrderDay)
	}
}

func TestPlaceTotalsAndSkipsUnavailable(t *testing.T) {
	svc, db := newTestService(t)
	pierogi := seedMenuItem(t, db, "Pierogi", 24.0, true)
	zupa := seedMenuItem(t, db, "Zupa", 15.5, true)
	sold := seedMenuItem(t, db, "Wyprzedane", 99.0, false)

	order, err := svc.Place(context.Background(), PlaceInput{
		Items: []PlaceItem{
			{MenuItemID: pierogi.ID, Quantity: 2},
			{MenuItemID: zupa.ID, Quantity: 1},
			{MenuItemID: sold.ID, Quantity: 3},
			{MenuItemID: 99999, Quantity: 1},
			{MenuItemID: pierogi.ID, Quantity: 0},
		},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if got, want := order.TotalPrice, 2*24.0+15.5; got != want {
		t.Errorf("total = %v, want %v", got, want)
	}
	if len(order.OrderItems) != 2 {
		t.Errorf("line count = %d, want 2", len(order.OrderItems))
	}
}

func TestAcceptOnlyFromPending(t *testing.T) {
	svc, db := newTestService(t)
	item := seedMenuItem(t, db, "Pierogi", 24.0, true)
	ctx := context.Background()

	order, err := svc.Place(ctx, PlaceInput{Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 1}}})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if err := svc.Accept(ctx, order.ID, 0); !errors.Is(err, ErrInvalidRealizationTime) {
		t.Errorf("accept with zero minutes = %v, want ErrInvalidRealizationTime", err)
	}
	if err := svc.Accept(ctx, order.ID, 20); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got, err := svc.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.OrderStatusAccepted {
		t.Errorf("status = %q, want %q", got.Status, domain.OrderStatusAccepted)
	}
	if got.EstimatedCompletionTime == nil {
		t.Error("estimated completion time not stamped")
	}

	if err := svc.Accept(ctx, order.ID, 20); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second accept = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionChain(t *testing.T) {
	svc, db := newTestService(t)
	item := seedMenuItem(t, db, "Pierogi", 24.0, true)
	ctx := context.Background()

	order, err := svc.Place(ctx, PlaceInput{Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 1}}})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if err := svc.MarkReady(ctx, order.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ready from pending = %v, want ErrInvalidTransition", err)
	}

	steps := []struct {
		name string
		fn   func(context.Context, int64) error
		want string
	}{
		{"accept", func(ctx context.Context, id int64) error { return svc.Accept(ctx, id, 15) }, domain.OrderStatusAccepted},
		{"prepare", svc.StartPreparation, domain.OrderStatusInPreparation},
		{"ready", svc.MarkReady, domain.OrderStatusReady},
		{"complete", svc.Complete, domain.OrderStatusCompleted},
	}
	for _, step := range steps {
		if err := step.fn(ctx, order.ID); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		got, err := svc.Get(ctx, order.ID)
		if err != nil {
			t.Fatalf("get after %s: %v", step.name, err)
		}
		if got.Status != step.want {
			t.Errorf("after %s status = %q, want %q", step.name, got.Status, step.want)
		}
	}

	if err := svc.Complete(ctx, order.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("complete a completed order = %v, want ErrInvalidTransition", err)
	}
}

func TestCallWaiterCooldown(t *testing.T) {
	svc, db := newTestService(t)
	item := seedMenuItem(t, db, "Pierogi", 24.0, true)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	svc.nowFn = func() time.Time { return now }

	order, err := svc.Place(ctx, PlaceInput{Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 1}}})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if err := svc.CallWaiter(ctx, order.ID); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := svc.CallWaiter(ctx, order.ID); !errors.Is(err, ErrCallTooSoon) {
		t.Errorf("repeat call = %v, want ErrCallTooSoon", err)
	}

	now = now.Add(CallCooldown - time.Second)
	if err := svc.CallWaiter(ctx, order.ID); !errors.Is(err, ErrCallTooSoon) {
		t.Errorf("call inside window = %v, want ErrCallTooSoon", err)
	}

	now = now.Add(2 * time.Second)
	if err := svc.CallWaiter(ctx, order.ID); err != nil {
		t.Errorf("call after window = %v, want nil", err)
	}
}

func TestRequestBillAndDismiss(t *testing.T) {
	svc, db := newTestService(t)
	item := seedMenuItem(t, db, "Pierogi", 24.0, true)
	ctx := context.Background()

	order, err := svc.Place(ctx, PlaceInput{Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 1}}})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	err = svc.RequestBill(ctx, order.ID, BillRequest{
		PaymentMethod:   "card",
		InvoiceRequired: false,
		TaxID:           "5730000000",
		Tip:             5,
	})
	if err != nil {
		t.Fatalf("request bill: %v", err)
	}

	got, _ := svc.Get(ctx, order.ID)
	if !got.RequestBill || got.BillPaymentMethod != "card" || got.Tip != 5 {
		t.Errorf("bill fields not stored: %+v", got)
	}
	if got.TaxID != "" {
		t.Errorf("tax id stored without invoice request: %q", got.TaxID)
	}
	if got.LastCallTime == nil {
		t.Error("bill request should stamp last_call_time")
	}

	if err := svc.DismissBill(ctx, order.ID); err != nil {
		t.Fatalf("dismiss bill: %v", err)
	}
	got, _ = svc.Get(ctx, order.ID)
	if got.RequestBill || got.BillPaymentMethod != "" {
		t.Errorf("bill not cleared: %+v", got)
	}
}

func TestGetUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), 12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("get unknown = %v, want ErrNotFound", err)
	}
}

func TestQuoteDoesNotCreateOrder(t *testing.T) {
	svc, db := newTestService(t)
	item := seedMenuItem(t, db, "Pierogi", 24.0, true)

	total, err := svc.Quote(context.Background(), PlaceInput{
		Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if total != 72.0 {
		t.Errorf("total = %v, want 72", total)
	}

	var count int64
	db.Model(&domain.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("quote created %d orders", count)
	}
}

func TestPlaceWithTotalKeepsQuotedAmount(t *testing.T) {
	svc, db := newTestService(t)
	item := seedMenuItem(t, db, "Pierogi", 24.0, true)
	ctx := context.Background()
	input := PlaceInput{Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 2}}}

	quoted, err := svc.Quote(ctx, input)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	// Price change while the customer sits on the checkout page. The charged
	// amount was fixed at quote time, so the order keeps the quoted total.
	if err := db.Model(&domain.MenuItem{}).Where("id = ?", item.ID).Update("price", 30.0).Error; err != nil {
		t.Fatalf("reprice item: %v", err)
	}

	order, err := svc.PlaceWithTotal(ctx, input, quoted)
	if err != nil {
		t.Fatalf("place with total: %v", err)
	}
	if order.TotalPrice != quoted {
		t.Errorf("total = %v, want quoted %v", order.TotalPrice, quoted)
	}
	if quoted != 48.0 {
		t.Errorf("quoted = %v, want 48", quoted)
	}
}
