package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. New orders start out pending; items start in the cart.
const (
	OrderStatusPending     = "pending"
	ItemStatusShoppingCart = "shopping cart"
)

// Order is a consumer's order. The numeric ID is the surrogate key used in
// URLs; OrderID is the externally reported identifier.
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Paid       bool            `gorm:"not null;default:false" json:"paid"`
	Status     string          `gorm:"size:26;not null;default:'pending'" json:"order_status"`
	ConsumerID uint            `gorm:"not null;index" json:"consumer_id"`
	Consumer   *User           `gorm:"foreignKey:ConsumerID" json:"consumer,omitempty"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE" json:"items"`
	TotalCost  decimal.Decimal `gorm:"-" json:"total_cost"` // computed at read time, never stored
	CreatedAt  time.Time       `json:"transaction_date"`
	UpdatedAt  time.Time       `json:"update_transaction_date"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ComputeTotalCost sums the prices of the loaded items into TotalCost.
func (o *Order) ComputeTotalCost() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price)
	}
	o.TotalCost = total
}

// OrderItem is a line item of an order. Price is derived from
// quantity_ordered and the produce price tag on every save, never taken
// from the caller.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ItemID          uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"item_id"`
	OrderID         uint            `gorm:"not null;index" json:"-"`
	ProduceID       uint            `gorm:"not null;index" json:"product_id"`
	Produce         *Produce        `gorm:"foreignKey:ProduceID" json:"product,omitempty"`
	QuantityOrdered uint            `gorm:"not null;default:1" json:"quantity_ordered"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Status          string          `gorm:"size:30;not null;default:'shopping cart'" json:"item_order_status"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
