// Package enrollment is the code pool and sale recording engine. It owns the
// finite set of enrollment codes, the uniform random draw used to hand one to a
// seller, and the single transactional path that turns an available code into a
// recorded sale while advancing the seller's running totals.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/db"
	"github.com/chzeraa/painel-bemaxx/internal/models"
)

// Service implements code pool operations over the injected store.
type Service struct {
	db *gorm.DB
}

// NewService wires an enrollment service with its database dependency.
func NewService(conn *gorm.DB) *Service {
	return &Service{db: conn}
}

// NormalizeNumber canonicalizes a caller-supplied suffix by prepending the
// fixed prefix when absent. The prefix comparison is case-insensitive.
func NormalizeNumber(suffix string) string {
	number := strings.TrimSpace(suffix)
	if number == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(number), models.MatriculaPrefix) {
		number = models.MatriculaPrefix + number
	}
	return number
}

// Create inserts a new available code. The resulting number must be globally
// unique; duplicates are rejected without touching the pool.
func (s *Service) Create(ctx context.Context, suffix string) (*models.Matricula, error) {
	number := NormalizeNumber(suffix)
	if number == "" {
		return nil, ErrEmptyNumber
	}

	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.Matricula{}).
		Where("number = ?", number).Count(&count).Error; errCount != nil {
		return nil, fmt.Errorf("enrollment: check number: %w", errCount)
	}
	if count > 0 {
		return nil, ErrDuplicateCode
	}

	matricula := models.Matricula{
		Number:        number,
		Status:        models.MatriculaAvailable,
		ActiveDays:    models.DefaultActiveDays,
		PaymentMethod: models.MethodUnset,
		CreatedAt:     time.Now().UTC(),
	}
	if errCreate := s.db.WithContext(ctx).Create(&matricula).Error; errCreate != nil {
		// The unique index backstops concurrent creates racing the count above.
		return nil, fmt.Errorf("enrollment: create code: %w", errCreate)
	}
	return &matricula, nil
}

// ListAvailable returns every code still eligible for a draw.
func (s *Service) ListAvailable(ctx context.Context) ([]models.Matricula, error) {
	var rows []models.Matricula
	if errFind := s.db.WithContext(ctx).
		Where("status = ? AND voided = ?", models.MatriculaAvailable, false).
		Order("number ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("enrollment: list available: %w", errFind)
	}
	return rows, nil
}

// Filter narrows code listings.
type Filter struct {
	Number        string     // Substring match on the code number.
	Customer      string     // Substring match on the customer name or email.
	Status        string     // Exact status match.
	OwnerID       *uint64    // Owner account filter.
	IncludeVoided bool       // Admin audit view keeps voided codes visible.
	SoldFrom      *time.Time // Sale date range start (inclusive).
	SoldTo        *time.Time // Sale date range end (exclusive).
}

// List returns codes matching the filter, newest first. Voided codes are
// excluded unless the filter asks for them.
func (s *Service) List(ctx context.Context, filter Filter) ([]models.Matricula, error) {
	q := s.db.WithContext(ctx).Model(&models.Matricula{}).Preload("Owner")
	if !filter.IncludeVoided {
		q = q.Where("voided = ?", false)
	}
	if number := strings.TrimSpace(filter.Number); number != "" {
		pattern := db.NormalizeLikePattern(s.db, "%"+number+"%")
		q = q.Where(db.CaseInsensitiveLikeExpr(s.db, "number"), pattern)
	}
	if customer := strings.TrimSpace(filter.Customer); customer != "" {
		pattern := db.NormalizeLikePattern(s.db, "%"+customer+"%")
		q = q.Where(
			"("+db.CaseInsensitiveLikeExpr(s.db, "customer_name")+" OR "+db.CaseInsensitiveLikeExpr(s.db, "customer_email")+")",
			pattern, pattern,
		)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		q = q.Where("status = ?", status)
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_user_id = ?", *filter.OwnerID)
	}
	if filter.SoldFrom != nil {
		q = q.Where("sold_at >= ?", filter.SoldFrom.UTC())
	}
	if filter.SoldTo != nil {
		q = q.Where("sold_at < ?", filter.SoldTo.UTC())
	}

	var rows []models.Matricula
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("enrollment: list codes: %w", errFind)
	}
	return rows, nil
}

// Get fetches a code by number.
func (s *Service) Get(ctx context.Context, number string) (*models.Matricula, error) {
	var matricula models.Matricula
	if errFind := s.db.WithContext(ctx).
		Where("number = ?", number).First(&matricula).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("enrollment: query code: %w", errFind)
	}
	return &matricula, nil
}

// Draw picks one code uniformly at random from the available set. The draw
// mutates nothing: the code stays available until RecordSale commits it, so an
// abandoned flow leaves the pool unchanged and repeated draws may hand out the
// same number.
func (s *Service) Draw(ctx context.Context) (*models.Matricula, error) {
	var numbers []string
	if errFind := s.db.WithContext(ctx).Model(&models.Matricula{}).
		Where("status = ? AND voided = ?", models.MatriculaAvailable, false).
		Pluck("number", &numbers).Error; errFind != nil {
		return nil, fmt.Errorf("enrollment: load available set: %w", errFind)
	}
	if len(numbers) == 0 {
		return nil, ErrExhausted
	}

	return s.Get(ctx, numbers[rand.Intn(len(numbers))])
}

// SaleInput captures the fields binding a drawn code to a customer.
type SaleInput struct {
	Number        string
	OwnerID       uint64
	CustomerName  string
	CustomerEmail string
	Price         float64
	PaymentMethod string
}

// RecordSale commits a sale as one atomic unit: the code transitions
// available -> used with the sale metadata, and the owner's totals gain one
// sale and the price. Either both updates land or neither does. The guarded
// status update is the compare-and-swap that serializes concurrent callers
// racing for the same code.
func (s *Service) RecordSale(ctx context.Context, input SaleInput) (*models.Matricula, error) {
	number := strings.TrimSpace(input.Number)
	if number == "" {
		return nil, ErrEmptyNumber
	}
	if input.Price <= 0 || math.IsNaN(input.Price) || math.IsInf(input.Price, 0) {
		return nil, ErrInvalidAmount
	}
	method, errMethod := normalizeMethod(input.PaymentMethod)
	if errMethod != nil {
		return nil, errMethod
	}

	var sold models.Matricula
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if errFind := tx.First(&owner, input.OwnerID).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrOwnerNotFound
			}
			return fmt.Errorf("enrollment: query owner: %w", errFind)
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Matricula{}).
			Where("number = ? AND status = ? AND voided = ?", number, models.MatriculaAvailable, false).
			Updates(map[string]any{
				"status":         models.MatriculaUsed,
				"owner_user_id":  input.OwnerID,
				"customer_name":  strings.TrimSpace(input.CustomerName),
				"customer_email": strings.TrimSpace(input.CustomerEmail),
				"price":          input.Price,
				"payment_method": method,
				"sold_at":        now,
				"copied_at":      now,
			})
		if res.Error != nil {
			return fmt.Errorf("enrollment: mark used: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race or the number never existed; find out which.
			var count int64
			if errCount := tx.Model(&models.Matricula{}).
				Where("number = ?", number).Count(&count).Error; errCount != nil {
				return fmt.Errorf("enrollment: recheck code: %w", errCount)
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrInvalidState
		}

		totals := tx.Model(&models.User{}).
			Where("id = ?", input.OwnerID).
			Updates(map[string]any{
				"total_sales":      gorm.Expr("total_sales + 1"),
				"amount_collected": gorm.Expr("amount_collected + ?", input.Price),
			})
		if totals.Error != nil {
			return fmt.Errorf("enrollment: update totals: %w", totals.Error)
		}
		if totals.RowsAffected == 0 {
			// Owner vanished between the check and the increment; roll back the
			// code update so no sale exists without its totals.
			return ErrOwnerNotFound
		}

		if errReload := tx.Where("number = ?", number).First(&sold).Error; errReload != nil {
			return fmt.Errorf("enrollment: reload code: %w", errReload)
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return &sold, nil
}

// Void marks a code as administratively removed, whatever its status. Voiding
// is terminal: a second void on the same code is rejected.
func (s *Service) Void(ctx context.Context, number string) (*models.Matricula, error) {
	number = strings.TrimSpace(number)

	var matricula models.Matricula
	if errFind := s.db.WithContext(ctx).
		Where("number = ?", number).First(&matricula).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("enrollment: query code: %w", errFind)
	}
	if matricula.Voided {
		return nil, ErrInvalidState
	}

	now := time.Now().UTC()
	if errUpdate := s.db.WithContext(ctx).Model(&matricula).Updates(map[string]any{
		"voided":    true,
		"voided_at": now,
	}).Error; errUpdate != nil {
		return nil, fmt.Errorf("enrollment: void code: %w", errUpdate)
	}
	matricula.Voided = true
	matricula.VoidedAt = &now
	return &matricula, nil
}

// normalizeMethod validates a payment method, defaulting empty to unset.
func normalizeMethod(method string) (string, error) {
	switch strings.TrimSpace(method) {
	case "":
		return models.MethodUnset, nil
	case models.MethodCard:
		return models.MethodCard, nil
	case models.MethodPix:
		return models.MethodPix, nil
	case models.MethodCash:
		return models.MethodCash, nil
	case models.MethodUnset:
		return models.MethodUnset, nil
	default:
		return "", ErrInvalidMethod
	}
}
