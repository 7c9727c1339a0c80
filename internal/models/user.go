package models

import "time"

// User roles.
const (
	// RoleAdmin grants access to the admin panel routes.
	RoleAdmin = "admin"
	// RoleSeller is a regular reselling account.
	RoleSeller = "seller"
)

// Payment standing values for a seller's access to the platform.
const (
	// PaymentStatusCurrent means the seller is paid up.
	PaymentStatusCurrent = "current"
	// PaymentStatusPending means a platform payment is awaited.
	PaymentStatusPending = "pending"
	// PaymentStatusOverdue means the seller is behind on platform payments.
	PaymentStatusOverdue = "overdue"
)

// User represents a seller or admin account.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name     string `gorm:"type:text;not null"`             // Display name.
	Email    string `gorm:"type:text;not null;uniqueIndex"` // Unique login email.
	Password string `gorm:"type:text;not null"`             // Hashed password.
	Role     string `gorm:"type:text;not null;default:seller"` // Account role.

	Active  bool `gorm:"not null;default:true"`  // Whether the account can sign in.
	Blocked bool `gorm:"not null;default:false"` // Administrative block flag, checked before Active.

	// Running totals, written only by the sale recorder inside its transaction.
	TotalSales      int     `gorm:"not null;default:0"`                     // Count of recorded sales.
	AmountCollected float64 `gorm:"type:decimal(20,10);not null;default:0"` // Sum of recorded sale prices.

	PaymentStatus *string    `gorm:"type:text"`            // Platform payment standing, if tracked.
	AccessFee     *float64   `gorm:"type:decimal(20,10)"`  // Access fee charged for the account, if any.
	NextDueAt     *time.Time // Next platform payment due date, if any.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
