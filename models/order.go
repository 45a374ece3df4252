package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of a warteg order
type OrderStatus string

const (
	StatusPendingPayment      OrderStatus = "PENDING_PAYMENT"
	StatusWaitingVerification OrderStatus = "WAITING_VERIFICATION"
	StatusProcessing          OrderStatus = "PROCESSING"
	StatusPacking             OrderStatus = "PACKING"
	StatusShipped             OrderStatus = "SHIPPED"
	StatusCompleted           OrderStatus = "COMPLETED"
	StatusCancelled           OrderStatus = "CANCELLED"
)

// PaymentStatus tracks the manual payment flow separately from fulfillment
type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "UNPAID"
	PaymentSubmitted PaymentStatus = "SUBMITTED"
	PaymentVerified  PaymentStatus = "VERIFIED"
)

type Order struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"order_number" gorm:"uniqueIndex;not null"`
	UserID          string          `json:"user_id" gorm:"not null"`
	Status          OrderStatus     `json:"status" gorm:"not null;default:'PENDING_PAYMENT'"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"not null;default:'UNPAID'"`
	AddressID       *string         `json:"address_id"`
	Address         *Address        `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	PaymentMethodID string          `json:"payment_method_id"`
	PaymentMethod   *PaymentMethod  `json:"payment_method,omitempty" gorm:"foreignKey:PaymentMethodID"`
	ProofImageURL   string          `json:"proof_image_url"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(12,2)"`
	Items           []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	OrderID    string          `json:"order_id" gorm:"not null"`
	MenuItemID string          `json:"menu_item_id" gorm:"not null"`
	MenuItem   *MenuItem       `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Name       string          `json:"name"`                            // snapshot name
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"` // snapshot price at time of order
	Quantity   int             `json:"quantity" gorm:"not null"`
	Subtotal   decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2)"`
}

// Verified reports whether the order has passed manual payment verification.
func (o *Order) Verified() bool {
	return o.PaymentStatus == PaymentVerified
}

// Terminal reports whether the order can no longer change state.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
