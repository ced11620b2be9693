package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Order status lifecycle. Completed orders are immutable except for the
// refund transition, which exists in the schema only.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusRefunded  = "refunded"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodIntent   = "stripe"
	PaymentMethodRedirect = "2checkout"
)

/*
 * 'Order' records one checkout attempt. TotalAmount is the sum of the
 * discounted prices at verification time.
 */
type Order struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status            string          `gorm:"size:20;default:'pending'" json:"status"`
	PaymentMethod     string          `gorm:"size:50" json:"payment_method"`
	ProviderPaymentID string          `gorm:"size:200" json:"provider_payment_id"`
	ProviderMeta      datatypes.JSON  `gorm:"type:jsonb;default:'{}'" json:"provider_meta"`
	CreatedAt         time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	CompletedAt       *time.Time      `json:"completed_at"`

	// Relationships
	User  User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

/*
 * 'OrderItem' is an immutable line-item snapshot of price and discount at
 * purchase time, deliberately decoupled from the live Game price.
 */
type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"not null;index" json:"order_id"`
	GameID          uint            `gorm:"not null" json:"game_id"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DiscountApplied decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"discount_applied"`

	Game Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
}
