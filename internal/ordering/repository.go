package ordering

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/bistrokit/bistrokit/internal/domain"
)

// OrderRepository handles database operations for orders and their lines.
type OrderRepository interface {
	// Create inserts an order and its items in one transaction, assigning the
	// per-day order number atomically with the insert.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with items and menu items preloaded.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// ListByStatuses retrieves orders whose status is in the given set.
	ListByStatuses(ctx context.Context, statuses []string) ([]*domain.Order, error)

	// ListSignalled retrieves orders with an active waiter call or bill request.
	ListSignalled(ctx context.Context) ([]*domain.Order, error)

	// ListCompleted retrieves completed orders, newest first, paginated.
	ListCompleted(ctx context.Context, page, pageSize int) ([]*domain.Order, int64, error)

	// Update applies column updates to one order.
	Update(ctx context.Context, id int64, updates map[string]interface{}) error

	// UpdateWhereStatus applies updates only when the order's current status is
	// in allowed, returning the number of affected rows.
	UpdateWhereStatus(ctx context.Context, id int64, allowed []string, updates map[string]interface{}) (int64, error)
}

// GormOrderRepository is the GORM implementation of OrderRepository.
type GormOrderRepository struct {
	db    *gorm.DB
	loc   *time.Location
	nowFn func() time.Time
}

func NewGormOrderRepository(db *gorm.DB, loc *time.Location) *GormOrderRepository {
	return &GormOrderRepository{db: db, loc: loc, nowFn: time.Now}
}

// numberAttempts bounds the retry loop on the (order_day, order_number)
// uniqueness constraint when two checkouts race on the same day.
const numberAttempts = 3

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	var lastErr error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			day := r.nowFn().In(r.loc).Format("2006-01-02")
			var maxNumber int
			row := tx.Model(&domain.Order{}).
				Where("order_day = ?", day).
				Select("COALESCE(MAX(order_number), 0)").
				Row()
			if err := row.Scan(&maxNumber); err != nil {
				return err
			}
			order.OrderDay = day
			order.OrderNumber = maxNumber + 1
			return tx.Create(order).Error
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if !isDuplicateNumber(err) {
			return err
		}
		// lost the race for this number, reset and retry
		order.ID = 0
		for i := range order.OrderItems {
			order.OrderItems[i].ID = 0
			order.OrderItems[i].OrderID = 0
		}
	}
	return errors.Wrap(lastErr, "order number contention")
}

func isDuplicateNumber(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.MenuItem").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) ListByStatuses(ctx context.Context, statuses []string) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.MenuItem").
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) ListSignalled(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.db.WithContext(ctx).
		Where("call_waiter = ? OR request_bill = ?", true, true).
		Order("last_call_time ASC").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) ListCompleted(ctx context.Context, page, pageSize int) ([]*domain.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusCompleted)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*domain.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.MenuItem").
		Where("status = ?", domain.OrderStatusCompleted).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *GormOrderRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *GormOrderRepository) UpdateWhereStatus(ctx context.Context, id int64, allowed []string, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(updates)
	return res.RowsAffected, res.Error
}
