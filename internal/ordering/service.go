package ordering

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bistrokit/bistrokit/internal/domain"
	"github.com/bistrokit/bistrokit/pkg/metrics"
)

// Event bus topics published by the lifecycle manager.
const (
	TopicOrderCreated = "order:created"
	TopicOrderStatus  = "order:status"
	TopicOrderCall    = "order:call"
)

// CallCooldown is the minimum gap between waiter calls on one order.
const CallCooldown = 3 * time.Minute

var (
	ErrNotFound               = errors.New("order not found")
	ErrInvalidTransition      = errors.New("order not in an eligible status")
	ErrInvalidRealizationTime = errors.New("realization time must be positive")
	ErrCallTooSoon            = errors.New("waiter already called recently")
)

// PlaceItem is one requested line of a new order.
type PlaceItem struct {
	MenuItemID    int64  `json:"id"`
	Quantity      int    `json:"quantity"`
	Customization string `json:"customization"`
	Takeaway      bool   `json:"takeaway"`
}

// DeliveryInfo carries the optional delivery/pickup contact fields.
type DeliveryInfo struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Postal   string `json:"postal"`
	Comments string `json:"comments"`
}

// PlaceInput is a new order request; TableID nil means delivery/pickup.
type PlaceInput struct {
	TableID  *int64       `json:"table_id"`
	Items    []PlaceItem  `json:"items"`
	Delivery DeliveryInfo `json:"delivery_info"`
}

// BillRequest carries the customer's bill parameters.
type BillRequest struct {
	PaymentMethod   string  `json:"payment_method"`
	InvoiceRequired bool    `json:"invoice_required"`
	TaxID           string  `json:"nip"`
	Tip             float64 `json:"tip"`
}

// Service is the order lifecycle manager: per-day numbering, the fixed status
// machine, and the waiter-call/bill-request signals layered on top of it.
type Service struct {
	db    *gorm.DB
	repo  OrderRepository
	bus   EventBus.Bus
	nowFn func() time.Time
}

func NewService(db *gorm.DB, repo OrderRepository, bus EventBus.Bus) *Service {
	return &Service{db: db, repo: repo, bus: bus, nowFn: time.Now}
}

// buildLines resolves the requested lines against available menu items and
// prices them. Unknown or unavailable menu items are skipped rather than
// failing the whole order.
func (s *Service) buildLines(ctx context.Context, items []PlaceItem) ([]domain.OrderItem, float64, error) {
	var lines []domain.OrderItem
	var total float64
	for _, line := range items {
		if line.Quantity <= 0 {
			continue
		}
		var item domain.MenuItem
		err := s.db.WithContext(ctx).First(&item, line.MenuItemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		} else if err != nil {
			return nil, 0, err
		}
		if !item.Available {
			continue
		}
		lines = append(lines, domain.OrderItem{
			MenuItemID:    item.ID,
			Quantity:      line.Quantity,
			Customization: line.Customization,
			Takeaway:      line.Takeaway,
		})
		total += item.Price * float64(line.Quantity)
	}
	return lines, total, nil
}

// Quote prices a cart without creating an order. Prepaid checkouts use this
// so the charged amount always comes from current menu prices.
func (s *Service) Quote(ctx context.Context, input PlaceInput) (float64, error) {
	_, total, err := s.buildLines(ctx, input.Items)
	return total, err
}

// Place validates the requested lines, computes the total and creates the
// order with its items.
func (s *Service) Place(ctx context.Context, input PlaceInput) (*domain.Order, error) {
	return s.place(ctx, input, nil)
}

// PlaceWithTotal creates the order with a pre-agreed total. Prepaid checkouts
// use this so the stored total always matches the amount actually charged,
// even when a menu price changed mid-checkout.
func (s *Service) PlaceWithTotal(ctx context.Context, input PlaceInput, total float64) (*domain.Order, error) {
	return s.place(ctx, input, &total)
}

func (s *Service) place(ctx context.Context, input PlaceInput, totalOverride *float64) (*domain.Order, error) {
	order := &domain.Order{
		TableID:          input.TableID,
		Status:           domain.OrderStatusPending,
		CreatedAt:        s.nowFn().UTC(),
		DeliveryName:     input.Delivery.Name,
		DeliveryPhone:    input.Delivery.Phone,
		DeliveryAddress:  input.Delivery.Address,
		DeliveryPostal:   input.Delivery.Postal,
		DeliveryComments: input.Delivery.Comments,
	}

	lines, total, err := s.buildLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	order.OrderItems = lines
	order.TotalPrice = total
	if totalOverride != nil {
		order.TotalPrice = *totalOverride
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	zap.L().Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int("order_number", order.OrderNumber),
		zap.Float64("total", order.TotalPrice))
	metrics.OrdersPlaced.Inc()
	s.publish(TopicOrderCreated, order)
	return order, nil
}

// Get retrieves one order with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return order, err
}

// Accept moves a pending order to Accepted and stamps the estimated
// completion time from the staff-supplied realization minutes.
func (s *Service) Accept(ctx context.Context, id int64, realizationMinutes int) error {
	if realizationMinutes <= 0 {
		return ErrInvalidRealizationTime
	}
	eta := s.nowFn().UTC().Add(time.Duration(realizationMinutes) * time.Minute)
	return s.transition(ctx, id,
		[]string{domain.OrderStatusPending},
		map[string]interface{}{
			"status":                    domain.OrderStatusAccepted,
			"estimated_completion_time": eta,
		})
}

// StartPreparation moves an accepted order to In Preparation.
func (s *Service) StartPreparation(ctx context.Context, id int64) error {
	return s.transition(ctx, id,
		[]string{domain.OrderStatusAccepted},
		map[string]interface{}{"status": domain.OrderStatusInPreparation})
}

// MarkReady moves an order in preparation to Ready.
func (s *Service) MarkReady(ctx context.Context, id int64) error {
	return s.transition(ctx, id,
		[]string{domain.OrderStatusInPreparation},
		map[string]interface{}{"status": domain.OrderStatusReady})
}

// Complete finishes an order from any non-terminal status.
func (s *Service) Complete(ctx context.Context, id int64) error {
	err := s.transition(ctx, id,
		domain.ActiveOrderStatuses,
		map[string]interface{}{"status": domain.OrderStatusCompleted})
	if err == nil {
		metrics.OrdersCompleted.Inc()
	}
	return err
}

func (s *Service) transition(ctx context.Context, id int64, allowed []string, updates map[string]interface{}) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	affected, err := s.repo.UpdateWhereStatus(ctx, id, allowed, updates)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	zap.L().Info("order status changed",
		zap.Int64("order_id", id),
		zap.Any("status", updates["status"]))
	s.publish(TopicOrderStatus, id)
	return nil
}

// CallWaiter raises the waiter-call flag, rejecting repeat calls inside the
// cooldown window measured against last_call_time.
func (s *Service) CallWaiter(ctx context.Context, id int64) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	now := s.nowFn().UTC()
	if order.LastCallTime != nil && now.Sub(*order.LastCallTime) < CallCooldown {
		return ErrCallTooSoon
	}
	err = s.repo.Update(ctx, id, map[string]interface{}{
		"call_waiter":    true,
		"last_call_time": now,
	})
	if err != nil {
		return err
	}
	metrics.WaiterCalls.Inc()
	s.publish(TopicOrderCall, id)
	return nil
}

// RequestBill raises the bill-request flag with payment method, tip and
// optional tax id. The call timestamp is stamped as well, exactly like a
// waiter call.
func (s *Service) RequestBill(ctx context.Context, id int64, req BillRequest) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	taxID := ""
	if req.InvoiceRequired {
		taxID = req.TaxID
	}
	err := s.repo.Update(ctx, id, map[string]interface{}{
		"request_bill":        true,
		"bill_payment_method": req.PaymentMethod,
		"tip":                 req.Tip,
		"tax_id":              taxID,
		"last_call_time":      s.nowFn().UTC(),
	})
	if err != nil {
		return err
	}
	metrics.WaiterCalls.Inc()
	s.publish(TopicOrderCall, id)
	return nil
}

// DismissCall clears the waiter-call flag; the bill request stays untouched.
func (s *Service) DismissCall(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, map[string]interface{}{"call_waiter": false})
}

// DismissBill clears the bill-request flag and the stored payment method.
func (s *Service) DismissBill(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, map[string]interface{}{
		"request_bill":        false,
		"bill_payment_method": "",
	})
}

// ActiveOrders returns every order still moving through the lifecycle.
func (s *Service) ActiveOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListByStatuses(ctx, domain.ActiveOrderStatuses)
}

// AcceptedOrders returns the kitchen view set: Accepted and In Preparation.
func (s *Service) AcceptedOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListByStatuses(ctx, []string{
		domain.OrderStatusAccepted, domain.OrderStatusInPreparation,
	})
}

// WaiterCalls returns orders with an active waiter call or bill request.
func (s *Service) WaiterCalls(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListSignalled(ctx)
}

// History returns completed orders, newest first.
func (s *Service) History(ctx context.Context, page, pageSize int) ([]*domain.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	return s.repo.ListCompleted(ctx, page, pageSize)
}

func (s *Service) publish(topic string, arg interface{}) {
	if s.bus != nil {
		s.bus.Publish(topic, arg)
	}
}
