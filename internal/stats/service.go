// Package stats derives seller and global figures on demand from the code pool
// and account directory. Nothing here is persisted: every number is recomputed
// from the records themselves so the aggregates can never drift from the pool.
package stats

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/models"
)

// Service computes read-side aggregates.
type Service struct {
	db *gorm.DB
}

// NewService wires a stats service with its database dependency.
func NewService(conn *gorm.DB) *Service {
	return &Service{db: conn}
}

// UserStats summarizes one seller's sales. Voided codes are excluded.
type UserStats struct {
	SalesCount      int64   `json:"sales_count"`      // Used codes owned by the seller.
	AmountCollected float64 `json:"amount_collected"` // Sum of their recorded prices.
	ActiveCount     int64   `json:"active_count"`     // Sales whose activity window is still open.
	AvgActiveDays   float64 `json:"avg_active_days"`  // Mean remaining activity days, 0 with no sales.
}

// ForUser computes a seller's sales summary.
func (s *Service) ForUser(ctx context.Context, userID uint64) (*UserStats, error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Matricula{}).
			Where("owner_user_id = ? AND status = ? AND voided = ?", userID, models.MatriculaUsed, false)
	}

	out := &UserStats{}
	if errCount := base().Count(&out.SalesCount).Error; errCount != nil {
		return nil, fmt.Errorf("stats: count sales: %w", errCount)
	}
	if errSum := base().Select("COALESCE(SUM(price), 0)").Scan(&out.AmountCollected).Error; errSum != nil {
		return nil, fmt.Errorf("stats: sum prices: %w", errSum)
	}
	if errActive := base().Where("active_days > 0").Count(&out.ActiveCount).Error; errActive != nil {
		return nil, fmt.Errorf("stats: count active: %w", errActive)
	}
	if out.SalesCount > 0 {
		var totalDays float64
		if errDays := base().Select("COALESCE(SUM(active_days), 0)").Scan(&totalDays).Error; errDays != nil {
			return nil, fmt.Errorf("stats: sum active days: %w", errDays)
		}
		out.AvgActiveDays = totalDays / float64(out.SalesCount)
	}
	return out, nil
}

// Overview summarizes the whole operation. Voided codes count toward neither
// side of the conversion rate.
type Overview struct {
	UsedCount      int64   `json:"used_count"`      // Codes sold.
	AvailableCount int64   `json:"available_count"` // Codes still sellable.
	TotalRevenue   float64 `json:"total_revenue"`   // Sum of sale prices.
	ConversionRate float64 `json:"conversion_rate"` // used / (used + available), percent.
	AverageTicket  float64 `json:"average_ticket"`  // revenue / used, 0 when nothing sold.
	SellerCount    int64   `json:"seller_count"`    // Seller accounts.
	PaymentsPaid   float64 `json:"payments_paid"`   // Settled ledger entries total.
}

// Overview computes the admin dashboard figures.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{}

	pool := func(status string) *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Matricula{}).
			Where("status = ? AND voided = ?", status, false)
	}
	if errUsed := pool(models.MatriculaUsed).Count(&out.UsedCount).Error; errUsed != nil {
		return nil, fmt.Errorf("stats: count used: %w", errUsed)
	}
	if errAvailable := pool(models.MatriculaAvailable).Count(&out.AvailableCount).Error; errAvailable != nil {
		return nil, fmt.Errorf("stats: count available: %w", errAvailable)
	}
	if errRevenue := pool(models.MatriculaUsed).
		Select("COALESCE(SUM(price), 0)").Scan(&out.TotalRevenue).Error; errRevenue != nil {
		return nil, fmt.Errorf("stats: sum revenue: %w", errRevenue)
	}

	if total := out.UsedCount + out.AvailableCount; total > 0 && out.UsedCount > 0 {
		out.ConversionRate = float64(out.UsedCount) / float64(total) * 100
	}
	if out.UsedCount > 0 {
		out.AverageTicket = out.TotalRevenue / float64(out.UsedCount)
	}

	if errSellers := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleSeller).Count(&out.SellerCount).Error; errSellers != nil {
		return nil, fmt.Errorf("stats: count sellers: %w", errSellers)
	}
	if errPaid := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&out.PaymentsPaid).Error; errPaid != nil {
		return nil, fmt.Errorf("stats: sum payments: %w", errPaid)
	}
	return out, nil
}

// Drift reports a divergence between an account's stored running totals and
// the totals recomputed from its sale records.
type Drift struct {
	UserID       uint64  `json:"user_id"`
	Email        string  `json:"email"`
	StoredSales  int     `json:"stored_sales"`
	ActualSales  int64   `json:"actual_sales"`
	StoredAmount float64 `json:"stored_amount"`
	ActualAmount float64 `json:"actual_amount"`
}

// amountEpsilon absorbs decimal round-trip noise when comparing sums.
const amountEpsilon = 1e-6

// CheckConsistency recomputes every account's totals from the pool and returns
// the accounts whose stored counters disagree. An empty result means the sale
// recorder's invariant holds for the whole directory.
func (s *Service) CheckConsistency(ctx context.Context) ([]Drift, error) {
	type saleAgg struct {
		OwnerUserID uint64
		Count       int64
		Total       float64
	}
	var aggs []saleAgg
	if errAgg := s.db.WithContext(ctx).Model(&models.Matricula{}).
		Select("owner_user_id, COUNT(*) AS count, COALESCE(SUM(price), 0) AS total").
		Where("status = ? AND voided = ? AND owner_user_id IS NOT NULL", models.MatriculaUsed, false).
		Group("owner_user_id").
		Scan(&aggs).Error; errAgg != nil {
		return nil, fmt.Errorf("stats: aggregate sales: %w", errAgg)
	}
	byOwner := make(map[uint64]saleAgg, len(aggs))
	for _, agg := range aggs {
		byOwner[agg.OwnerUserID] = agg
	}

	var users []models.User
	if errUsers := s.db.WithContext(ctx).Find(&users).Error; errUsers != nil {
		return nil, fmt.Errorf("stats: list accounts: %w", errUsers)
	}

	var drifts []Drift
	for _, user := range users {
		agg := byOwner[user.ID]
		if int64(user.TotalSales) == agg.Count &&
			math.Abs(user.AmountCollected-agg.Total) < amountEpsilon {
			continue
		}
		drifts = append(drifts, Drift{
			UserID:       user.ID,
			Email:        user.Email,
			StoredSales:  user.TotalSales,
			ActualSales:  agg.Count,
			StoredAmount: user.AmountCollected,
			ActualAmount: agg.Total,
		})
	}
	return drifts, nil
}
