package models

import "time"

// Matricula statuses.
const (
	// MatriculaAvailable means the code can still be drawn and sold.
	MatriculaAvailable = "available"
	// MatriculaUsed means the code was sold to a customer.
	MatriculaUsed = "used"
)

// Payment methods accepted for a matrícula sale.
const (
	MethodCard  = "card"
	MethodPix   = "pix"
	MethodCash  = "cash"
	MethodUnset = "unset"
)

// MatriculaPrefix is the canonical prefix every code number carries.
const MatriculaPrefix = "aec"

// DefaultActiveDays is the activity window assigned to new codes.
const DefaultActiveDays = 30

// Matricula represents one sale-able enrollment code.
type Matricula struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Number string `gorm:"type:text;not null;uniqueIndex"`       // Unique code number, immutable once created.
	Status string `gorm:"type:text;not null;default:available"` // available or used.

	ActiveDays int `gorm:"not null;default:30"` // Remaining activity window in days.

	// Sale metadata, written only by the sale recorder.
	// No database-level constraint: sold codes keep the seller id even
	// after the account row is deleted.
	OwnerUserID   *uint64  `gorm:"index"`                                // Seller who sold the code.
	Owner         *User    `gorm:"foreignKey:OwnerUserID;constraint:-"`  // Seller record.
	CustomerName  string   `gorm:"type:text"`               // Buying customer name.
	CustomerEmail string   `gorm:"type:text"`               // Buying customer email.
	Price         *float64 `gorm:"type:decimal(20,10)"`     // Sale price.
	PaymentMethod string   `gorm:"type:text;default:unset"` // card, pix, cash or unset.
	SoldAt        *time.Time // Sale time.
	CopiedAt      *time.Time // Time the number was handed to the seller.

	Voided   bool       `gorm:"not null;default:false"` // Administrative removal flag.
	VoidedAt *time.Time // Removal time.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
