package models

import (
	"fmt"
	"time"
)

// OrderStatus represents all possible states of a tiffin order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out-for-delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRejected       OrderStatus = "rejected"
)

// Actor identifies who triggered a status change
type Actor string

const (
	ActorUser   Actor = "user"
	ActorVendor Actor = "vendor"
	ActorAdmin  Actor = "admin"
	ActorSystem Actor = "system"
)

// Payment is the per-order payment sub-record
type Payment struct {
	Method        string     `json:"method"` // cash, online, wallet
	Status        string     `json:"status" gorm:"default:'pending'"` // pending, completed, failed, refunded
	TransactionID string     `json:"transaction_id"`
	PaidAmount    float64    `json:"paid_amount" gorm:"default:0"`
	PaidAt        *time.Time `json:"paid_at"`
}

// Discount applied to an order
type Discount struct {
	Amount float64 `json:"amount" gorm:"default:0"`
	Code   string  `json:"code"`
	Type   string  `json:"type"` // percentage, fixed
}

// Subscription details for recurring orders
type Subscription struct {
	PlanID    uint       `json:"plan_id"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Frequency string     `json:"frequency"` // daily, weekly, monthly
	IsActive  bool       `json:"is_active" gorm:"default:true"`
}

// Cancellation records why and by whom an order was cancelled
type Cancellation struct {
	Reason       string     `json:"reason"`
	CancelledBy  Actor      `json:"cancelled_by"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	RefundAmount float64    `json:"refund_amount" gorm:"default:0"`
	RefundStatus string     `json:"refund_status"` // pending, processed, failed
}

// OrderRating is the customer's post-delivery rating
type OrderRating struct {
	Food     int `json:"food"`
	Delivery int `json:"delivery"`
	Overall  int `json:"overall"`
}

type Order struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	OrderNumber string `json:"order_number" gorm:"uniqueIndex;not null"`

	UserID   uint `json:"user_id" gorm:"not null"`
	VendorID uint `json:"vendor_id" gorm:"not null"`

	OrderType string `json:"order_type" gorm:"default:'one-time'"` // one-time, subscription

	Items        []OrderItem  `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Subscription Subscription `json:"subscription" gorm:"embedded;embeddedPrefix:subscription_"`

	DeliveryAddress Address   `json:"delivery_address" gorm:"embedded;embeddedPrefix:delivery_"`
	ScheduledDate   time.Time `json:"scheduled_date"`
	ScheduledTime   string    `json:"scheduled_time"`

	ItemsTotal     float64  `json:"items_total" gorm:"default:0"`
	DeliveryCharge float64  `json:"delivery_charge" gorm:"default:0"`
	Taxes          float64  `json:"taxes" gorm:"default:0"`
	Discount       Discount `json:"discount" gorm:"embedded;embeddedPrefix:discount_"`
	TotalAmount    float64  `json:"total_amount" gorm:"default:0"`

	Status        OrderStatus          `json:"status" gorm:"not null;default:'pending'"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`

	Payment Payment `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`

	SpecialInstructions string `json:"special_instructions"`
	VendorNotes         string `json:"vendor_notes"`

	Rating OrderRating `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`
	Review string      `json:"review"`

	Cancellation Cancellation `json:"cancellation" gorm:"embedded;embeddedPrefix:cancellation_"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID                  uint    `json:"id" gorm:"primaryKey"`
	OrderID             uint    `json:"order_id" gorm:"not null"`
	MenuItemID          uint    `json:"menu_item_id" gorm:"not null"`
	Name                string  `json:"name" gorm:"not null"` // snapshot name at time of order
	Price               float64 `json:"price" gorm:"not null"` // snapshot price
	Quantity            int     `json:"quantity" gorm:"not null;default:1"`
	SpecialInstructions string  `json:"special_instructions"`
}

// OrderStatusHistory is the append-only audit trail of status changes
type OrderStatusHistory struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   uint        `json:"order_id" gorm:"not null"`
	Status    OrderStatus `json:"status" gorm:"not null"`
	UpdatedBy Actor       `json:"updated_by"`
	Note      string      `json:"note"`
	CreatedAt time.Time   `json:"created_at"`
}

// RecomputeTotal is the single source of truth for order pricing. It
// recomputes ItemsTotal from the line items and TotalAmount from the full
// breakdown. Callers must invoke it after any mutation to items or charges.
func (o *Order) RecomputeTotal() float64 {
	o.ItemsTotal = 0
	for _, item := range o.Items {
		o.ItemsTotal += item.Price * float64(item.Quantity)
	}
	o.TotalAmount = o.ItemsTotal + o.DeliveryCharge + o.Taxes - o.Discount.Amount
	return o.TotalAmount
}

// CanBeCancelled reports whether the order is still in a cancellable state
func (o *Order) CanBeCancelled() bool {
	switch o.Status {
	case StatusDelivered, StatusCancelled, StatusRejected:
		return false
	}
	return true
}

// NewOrderNumber builds an order number from the creation instant and a
// 1-based sequence. Format: TMS + unix milliseconds + zero-padded sequence.
// Assigned exactly once, at first persistence.
func NewOrderNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("TMS%d%04d", at.UnixMilli(), seq)
}
