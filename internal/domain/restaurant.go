package domain

import "time"

// Order lifecycle states. Transitions only move forward; Completed is terminal.
const (
	OrderStatusPending       = "Pending"
	OrderStatusAccepted      = "Accepted"
	OrderStatusInPreparation = "In Preparation"
	OrderStatusReady         = "Ready"
	OrderStatusCompleted     = "Completed"
)

// ActiveOrderStatuses are the states shown on the waiter dashboard.
var ActiveOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusInPreparation,
	OrderStatusReady,
}

// DiningTable is a physical seating location addressed by a QR token.
type DiningTable struct {
	ID     int64  `gorm:"primaryKey" json:"id" form:"id"`
	QrCode string `gorm:"size:100;uniqueIndex" json:"qr_code" form:"qr_code"`
}

func (DiningTable) TableName() string {
	return "dining_table"
}

// MenuItem is a purchasable item. Soft-disabled via Available rather than
// deleted so historical orders keep their references.
type MenuItem struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id" form:"id"`
	Name            string     `gorm:"size:100;index" json:"name" form:"name"`
	Description     string     `gorm:"size:500" json:"description" form:"description"`
	Price           float64    `json:"price" form:"price"`
	Customizable    bool       `json:"customizable" form:"customizable"`
	ContainsAlcohol bool       `json:"contains_alcohol" form:"contains_alcohol"`
	Category        string     `gorm:"size:50;index" json:"category" form:"category"`
	ImageFilename   string     `gorm:"size:500" json:"image_filename"`
	DisplayDate     *time.Time `json:"display_date,omitempty" form:"display_date"`
	Available       bool       `gorm:"default:true" json:"available" form:"available"`
}

func (MenuItem) TableName() string {
	return "menu_item"
}

// Order is one customer transaction. OrderNumber restarts at 1 every calendar
// day in the restaurant timezone; OrderDay holds that date as YYYY-MM-DD so the
// pair can carry a uniqueness constraint.
type Order struct {
	ID                      int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TableID                 *int64     `gorm:"index" json:"table_id"`
	Status                  string     `gorm:"size:50;index;default:Pending" json:"status"`
	TotalPrice              float64    `json:"total_price"`
	CreatedAt               time.Time  `json:"created_at"`
	OrderNumber             int        `gorm:"uniqueIndex:idx_order_day_number" json:"order_number"`
	OrderDay                string     `gorm:"size:10;uniqueIndex:idx_order_day_number" json:"order_day"`
	CallWaiter              bool       `json:"call_waiter"`
	LastCallTime            *time.Time `json:"last_call_time,omitempty"`
	RequestBill             bool       `json:"request_bill"`
	BillPaymentMethod       string     `gorm:"size:50" json:"bill_payment_method,omitempty"`
	Tip                     float64    `json:"tip"`
	TaxID                   string     `gorm:"size:15" json:"tax_id,omitempty"`
	EstimatedCompletionTime *time.Time `json:"estimated_completion_time,omitempty"`

	DeliveryName     string `gorm:"size:100" json:"delivery_name,omitempty"`
	DeliveryPhone    string `gorm:"size:20" json:"delivery_phone,omitempty"`
	DeliveryAddress  string `gorm:"size:255" json:"delivery_address,omitempty"`
	DeliveryPostal   string `gorm:"size:20" json:"delivery_postal,omitempty"`
	DeliveryComments string `gorm:"type:text" json:"delivery_comments,omitempty"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line within an order, owned exclusively by its parent.
type OrderItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64     `gorm:"index" json:"order_id"`
	MenuItemID    int64     `gorm:"index" json:"menu_item_id"`
	Quantity      int       `json:"quantity"`
	Customization string    `gorm:"size:200" json:"customization"`
	Takeaway      bool      `json:"takeaway"`
	MenuItem      *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_item"
}

// Event is a promotional calendar entry with independent display flags for
// title and description.
type Event struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id" form:"id"`
	Title              string    `gorm:"size:200" json:"title" form:"title"`
	Description        string    `gorm:"size:500" json:"description" form:"description"`
	StartDate          time.Time `json:"start_date" form:"start_date"`
	EndDate            time.Time `json:"end_date" form:"end_date"`
	Image              string    `gorm:"size:200" json:"image,omitempty"`
	DisplayTitle       bool      `gorm:"default:true" json:"display_title" form:"display_title"`
	DisplayDescription bool      `gorm:"default:true" json:"display_description" form:"display_description"`
}

func (Event) TableName() string {
	return "event"
}

// Popup is the single promotional image record; at most one row exists.
type Popup struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageFilename string `gorm:"size:500" json:"image_filename"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
}

func (Popup) TableName() string {
	return "popup"
}
