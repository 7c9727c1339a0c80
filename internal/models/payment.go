package models

import "time"

// Payment statuses.
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
)

// Payment kinds.
const (
	// PaymentKindPlatformFee is a fee owed to the platform operator.
	PaymentKindPlatformFee = "platform-fee"
	// PaymentKindSubscription is a recurring access charge.
	PaymentKindSubscription = "subscription"
	// PaymentKindSale is a payment tied to a matrícula sale.
	PaymentKindSale = "sale"
)

// Payment is a ledger entry attributed to an account.
type Payment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Reference string `gorm:"type:text;not null;uniqueIndex"` // External reference (UUID).

	// No database-level constraint: ledger entries survive account deletion.
	UserID uint64 `gorm:"not null;index"`                  // Owning account.
	User   *User  `gorm:"foreignKey:UserID;constraint:-"`  // Owning account record.

	Amount float64 `gorm:"type:decimal(20,10);not null"` // Payment amount.
	Method string  `gorm:"type:text"`                    // Payment method label.
	Status string  `gorm:"type:text;not null"`           // paid or pending.
	Kind   string  `gorm:"type:text;not null"`           // platform-fee, subscription or sale.
	Note   string  `gorm:"type:text"`                    // Free-form note.

	PaidAt    *time.Time // Settlement time, if paid.
	CreatedAt time.Time  `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
