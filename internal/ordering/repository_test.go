package ordering

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bistrokit/bistrokit/internal/domain"
)

// newFileDB opens a file-backed database so multiple connections can race on
// the numbering transaction; the in-memory helper serializes on one
// connection and would hide contention.
func newFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "orders.db") + "?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(domain.Tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPlaceConcurrentNumbering(t *testing.T) {
	db := newFileDB(t)
	repo := NewGormOrderRepository(db, time.UTC)
	svc := NewService(db, repo, nil)
	item := seedMenuItem(t, db, "Pierogi", 24.0, true)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Place(context.Background(), PlaceInput{
				Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 1}},
			})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent place: %v", err)
	}

	var orders []domain.Order
	if err := db.Order("order_number ASC").Find(&orders).Error; err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != workers {
		t.Fatalf("orders = %d, want %d", len(orders), workers)
	}
	for i, order := range orders {
		if order.OrderNumber != i+1 {
			t.Errorf("order number at %d = %d, want %d", i, order.OrderNumber, i+1)
		}
		if order.OrderDay != orders[0].OrderDay {
			t.Errorf("order day = %q, want %q", order.OrderDay, orders[0].OrderDay)
		}
	}
}

// TestPlaceRetriesOnNumberCollision forces a lost race on the
// (order_day, order_number) index and checks the create loop picks the next
// free number instead of failing.
func TestPlaceRetriesOnNumberCollision(t *testing.T) {
	svc, db := newTestService(t)
	item := seedMenuItem(t, db, "Zurek", 18.0, true)
	ctx := context.Background()
	lines := PlaceInput{Items: []PlaceItem{{MenuItemID: item.ID, Quantity: 1}}}

	if _, err := svc.Place(ctx, lines); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	// The next insert grabs a number that is already taken, exactly what a
	// competing checkout does between the max query and the insert.
	stolen := false
	err := db.Callback().Create().Before("gorm:create").Register("number_collision", func(tx *gorm.DB) {
		order, ok := tx.Statement.Dest.(*domain.Order)
		if !ok || stolen {
			return
		}
		stolen = true
		order.OrderNumber = 1
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	order, err := svc.Place(ctx, lines)
	if err != nil {
		t.Fatalf("place after collision: %v", err)
	}
	if !stolen {
		t.Fatal("collision was never injected")
	}
	if order.OrderNumber != 2 {
		t.Errorf("order number = %d, want 2", order.OrderNumber)
	}
	if order.ID == 0 {
		t.Error("order id not assigned after retry")
	}
}
