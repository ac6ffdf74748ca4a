package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // placed, awaiting payment result
	OrderStatusPaid      OrderStatus = "paid"      // gateway confirmed, stock decremented
	OrderStatusCancelled OrderStatus = "cancelled" // gateway reported failure/cancellation
)

// Terminal reports whether the status can never change again.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      string      `gorm:"index;not null" json:"user_id"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	// TxRef is the gateway transaction reference, set once payment
	// initialization succeeds. One order per ref, one ref per order.
	TxRef     *string   `gorm:"uniqueIndex" json:"tx_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is created with its order and never mutated afterwards.
// PriceAtPurchase is the unit price captured at placement; later product
// price changes do not affect it.
type OrderItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	OrderID         uint    `gorm:"index" json:"order_id"`
	ProductID       uint    `json:"product_id"`
	ProductName     string  `json:"product_name"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
	Quantity        int     `json:"quantity"`
}
