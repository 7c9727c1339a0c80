// Package payments keeps the account-level payment ledger: platform fees,
// subscriptions and sale payouts. Entries never feed back into seller sale
// totals; those belong to the sale recorder alone.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/models"
)

var (
	// ErrNotFound indicates the ledger entry does not exist.
	ErrNotFound = errors.New("payments: entry not found")
	// ErrInvalidAmount indicates a non-positive or non-finite amount.
	ErrInvalidAmount = errors.New("payments: invalid amount")
	// ErrInvalidKind indicates an unknown entry kind.
	ErrInvalidKind = errors.New("payments: invalid kind")
	// ErrInvalidStatus indicates an unknown entry status.
	ErrInvalidStatus = errors.New("payments: invalid status")
	// ErrUserNotFound indicates the owning account does not exist.
	ErrUserNotFound = errors.New("payments: account not found")
)

// Service implements ledger entry operations over the injected store.
type Service struct {
	db *gorm.DB
}

// NewService wires a payments service with its database dependency.
func NewService(conn *gorm.DB) *Service {
	return &Service{db: conn}
}

// CreateParams captures the fields for a new ledger entry.
type CreateParams struct {
	UserID uint64
	Amount float64
	Method string
	Status string
	Kind   string
	Note   string
	PaidAt *time.Time
}

// Create appends a ledger entry with a generated reference.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Payment, error) {
	if params.Amount <= 0 || math.IsNaN(params.Amount) || math.IsInf(params.Amount, 0) {
		return nil, ErrInvalidAmount
	}
	status := strings.TrimSpace(params.Status)
	switch status {
	case models.PaymentPaid, models.PaymentPending:
	case "":
		status = models.PaymentPending
	default:
		return nil, ErrInvalidStatus
	}
	kind := strings.TrimSpace(params.Kind)
	switch kind {
	case models.PaymentKindPlatformFee, models.PaymentKindSubscription, models.PaymentKindSale:
	default:
		return nil, ErrInvalidKind
	}

	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", params.UserID).Count(&count).Error; errCount != nil {
		return nil, fmt.Errorf("payments: check account: %w", errCount)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	paidAt := params.PaidAt
	if status == models.PaymentPaid && paidAt == nil {
		now := time.Now().UTC()
		paidAt = &now
	}
	entry := models.Payment{
		Reference: uuid.NewString(),
		UserID:    params.UserID,
		Amount:    params.Amount,
		Method:    strings.TrimSpace(params.Method),
		Status:    status,
		Kind:      kind,
		Note:      strings.TrimSpace(params.Note),
		PaidAt:    paidAt,
		CreatedAt: time.Now().UTC(),
	}
	if errCreate := s.db.WithContext(ctx).Create(&entry).Error; errCreate != nil {
		return nil, fmt.Errorf("payments: create entry: %w", errCreate)
	}
	return &entry, nil
}

// Filter narrows ledger listings.
type Filter struct {
	UserID *uint64 // Owning account filter.
	Status string  // Exact status match.
	Kind   string  // Exact kind match.
}

// List returns ledger entries matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]models.Payment, error) {
	q := s.db.WithContext(ctx).Model(&models.Payment{}).Preload("User")
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		q = q.Where("status = ?", status)
	}
	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var rows []models.Payment
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("payments: list entries: %w", errFind)
	}
	return rows, nil
}

// Delete removes a ledger entry. Seller sale totals are untouched: ledger
// entries and sale records are separate books.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	res := s.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if res.Error != nil {
		return fmt.Errorf("payments: delete entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TotalPaidByUser sums settled entries for one account.
func (s *Service) TotalPaidByUser(ctx context.Context, userID uint64) (float64, error) {
	var total float64
	if errSum := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ? AND status = ?", userID, models.PaymentPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; errSum != nil {
		return 0, fmt.Errorf("payments: sum entries: %w", errSum)
	}
	return total, nil
}
