package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BuildForSDGCohort2/Team-096-backend/models"
)

// ErrProduceNotFound is returned when an order item references a produce
// listing that does not exist.
var ErrProduceNotFound = errors.New("produce not found")

// OrderItemInput describes one requested line item. Any caller-supplied
// price is deliberately absent: prices are always derived.
type OrderItemInput struct {
	ProduceID       uint   `json:"product_id" binding:"required"`
	QuantityOrdered uint   `json:"quantity_ordered"`
	Status          string `json:"item_order_status"`
}

// UpdateOrderInput is the payload for an order update. A non-nil Items slice
// replaces the full set of line items transactionally.
type UpdateOrderInput struct {
	Paid   *bool
	Status *string
	Items  *[]OrderItemInput
}

// PrepareItemForSave computes the derived fields of a line item from its
// current state: the unique item id, the default quantity and status, and
// the price as quantity_ordered times the produce price tag. It discards any
// price already on the item.
func PrepareItemForSave(item *models.OrderItem, produce *models.Produce) {
	if item.ItemID == uuid.Nil {
		item.ItemID = uuid.New()
	}
	if item.QuantityOrdered == 0 {
		item.QuantityOrdered = 1
	}
	if item.Status == "" {
		item.Status = models.ItemStatusShoppingCart
	}
	item.Price = produce.PriceTag.Mul(decimal.NewFromInt(int64(item.QuantityOrdered)))
}

// CreateOrder creates an order for the consumer with the requested line
// items. Item prices are derived inside the same transaction that persists
// the order, so a missing produce rolls back everything.
func CreateOrder(db *gorm.DB, consumerID uint, items []OrderItemInput) (*models.Order, error) {
	order := models.Order{
		OrderID:    uuid.New(),
		Status:     models.OrderStatusPending,
		ConsumerID: consumerID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		created, err := createItems(tx, order.ID, items)
		if err != nil {
			return err
		}
		order.Items = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.ComputeTotalCost()
	return &order, nil
}

// UpdateOrder applies the update to the order. When Items is present the
// existing line items are replaced by the new set with freshly derived
// prices; the whole update either fully applies or fully rolls back.
func UpdateOrder(db *gorm.DB, order *models.Order, in UpdateOrderInput) error {
	if in.Paid != nil {
		order.Paid = *in.Paid
	}
	if in.Status != nil && *in.Status != "" {
		order.Status = *in.Status
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		if in.Items == nil {
			return nil
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		created, err := createItems(tx, order.ID, *in.Items)
		if err != nil {
			return err
		}
		order.Items = created
		return nil
	})
	if err != nil {
		return err
	}

	order.ComputeTotalCost()
	return nil
}

// SaveOrderItem re-derives the item price from its produce and persists it.
// Changing the quantity and re-saving therefore changes the stored price and
// the parent order's total on the next read.
func SaveOrderItem(db *gorm.DB, item *models.OrderItem) error {
	var produce models.Produce
	if err := db.First(&produce, item.ProduceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProduceNotFound
		}
		return err
	}
	PrepareItemForSave(item, &produce)
	return db.Save(item).Error
}

// LoadOrder fetches an order with its items and relations and computes the
// derived total.
func LoadOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Consumer.Profile").Preload("Items.Produce").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	order.ComputeTotalCost()
	return &order, nil
}

func createItems(tx *gorm.DB, orderID uint, inputs []OrderItemInput) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		var produce models.Produce
		if err := tx.First(&produce, in.ProduceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProduceNotFound
			}
			return nil, err
		}
		item := models.OrderItem{
			OrderID:         orderID,
			ProduceID:       in.ProduceID,
			QuantityOrdered: in.QuantityOrdered,
			Status:          in.Status,
		}
		PrepareItemForSave(&item, &produce)
		if err := tx.Create(&item).Error; err != nil {
			return nil, err
		}
		item.Produce = &produce
		items = append(items, item)
	}
	return items, nil
}
