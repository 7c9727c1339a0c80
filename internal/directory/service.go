// Package directory owns seller and admin accounts: credentials, activation and
// block flags, payment standing, and the running sale totals that only the sale
// recorder may advance.
package directory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/db"
	"github.com/chzeraa/painel-bemaxx/internal/models"
	"github.com/chzeraa/painel-bemaxx/internal/security"
)

// emailPattern mirrors the panel's accepted email shape: one @, no spaces,
// dotted domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service implements account directory operations over the injected store.
type Service struct {
	db *gorm.DB
}

// NewService wires a directory service with its database dependency.
func NewService(conn *gorm.DB) *Service {
	return &Service{db: conn}
}

// Authenticate verifies credentials and account standing. The credential check
// runs first so a blocked account with a wrong password still reads as an
// invalid login; Blocked is then checked before Inactive.
func (s *Service) Authenticate(ctx context.Context, email, secret string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || secret == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if errFind := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("directory: query account: %w", errFind)
	}
	if !security.CheckPassword(user.Password, secret) {
		return nil, ErrInvalidCredentials
	}
	if user.Blocked {
		return nil, ErrBlocked
	}
	if !user.Active {
		return nil, ErrInactive
	}
	return &user, nil
}

// CreateParams captures the fields for account creation.
type CreateParams struct {
	Name      string
	Email     string
	Password  string
	Role      string
	AccessFee *float64
}

// Create registers a new account. Passwords are stored hashed; new accounts
// start active, unblocked, with pending payment standing and zeroed totals.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.User, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(params.Email)
	password := strings.TrimSpace(params.Password)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingField
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	role, errRole := normalizeRole(params.Role)
	if errRole != nil {
		return nil, errRole
	}
	if params.AccessFee != nil {
		fee := *params.AccessFee
		if fee < 0 || math.IsNaN(fee) || math.IsInf(fee, 0) {
			return nil, ErrInvalidAmount
		}
	}

	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error; errCount != nil {
		return nil, fmt.Errorf("directory: check email: %w", errCount)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return nil, fmt.Errorf("directory: hash password: %w", errHash)
	}

	pending := models.PaymentStatusPending
	now := time.Now().UTC()
	user := models.User{
		Name:          name,
		Email:         email,
		Password:      hash,
		Role:          role,
		Active:        true,
		Blocked:       false,
		PaymentStatus: &pending,
		AccessFee:     params.AccessFee,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if errCreate := s.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		return nil, fmt.Errorf("directory: create account: %w", errCreate)
	}
	return &user, nil
}

// Patch captures optional field changes for an account update. A nil field
// keeps the current value; an empty Password also keeps the current hash.
type Patch struct {
	Name          *string
	Email         *string
	Password      *string
	Role          *string
	Active        *bool
	Blocked       *bool
	PaymentStatus *string
	AccessFee     *float64
	NextDueAt     *time.Time
}

// Update applies a partial change set to an account.
func (s *Service) Update(ctx context.Context, id uint64, patch Patch) (*models.User, error) {
	var user models.User
	if errFind := s.db.WithContext(ctx).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("directory: query account: %w", errFind)
	}

	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrMissingField
		}
		updates["name"] = name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if !emailPattern.MatchString(email) {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			var count int64
			if errCount := s.db.WithContext(ctx).Model(&models.User{}).
				Where("email = ? AND id <> ?", email, id).Count(&count).Error; errCount != nil {
				return nil, fmt.Errorf("directory: check email: %w", errCount)
			}
			if count > 0 {
				return nil, ErrDuplicateEmail
			}
		}
		updates["email"] = email
	}
	if patch.Password != nil {
		// Empty means "keep current password".
		if password := strings.TrimSpace(*patch.Password); password != "" {
			hash, errHash := security.HashPassword(password)
			if errHash != nil {
				return nil, fmt.Errorf("directory: hash password: %w", errHash)
			}
			updates["password"] = hash
		}
	}
	if patch.Role != nil {
		role, errRole := normalizeRole(*patch.Role)
		if errRole != nil {
			return nil, errRole
		}
		updates["role"] = role
	}
	if patch.Active != nil {
		updates["active"] = *patch.Active
	}
	if patch.Blocked != nil {
		updates["blocked"] = *patch.Blocked
	}
	if patch.PaymentStatus != nil {
		status := strings.TrimSpace(*patch.PaymentStatus)
		switch status {
		case models.PaymentStatusCurrent, models.PaymentStatusPending, models.PaymentStatusOverdue:
			updates["payment_status"] = status
		default:
			return nil, ErrInvalidStatus
		}
	}
	if patch.AccessFee != nil {
		fee := *patch.AccessFee
		if fee < 0 || math.IsNaN(fee) || math.IsInf(fee, 0) {
			return nil, ErrInvalidAmount
		}
		updates["access_fee"] = fee
	}
	if patch.NextDueAt != nil {
		updates["next_due_at"] = patch.NextDueAt.UTC()
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if errUpdate := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", id).Updates(updates).Error; errUpdate != nil {
			return nil, fmt.Errorf("directory: update account: %w", errUpdate)
		}
	}

	if errReload := s.db.WithContext(ctx).First(&user, id).Error; errReload != nil {
		return nil, fmt.Errorf("directory: reload account: %w", errReload)
	}
	return &user, nil
}

// Delete hard-removes an account. Matrículas the account already sold keep
// their owner reference for audit; they are intentionally not voided.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("directory: delete account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get fetches an account by ID.
func (s *Service) Get(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if errFind := s.db.WithContext(ctx).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("directory: query account: %w", errFind)
	}
	return &user, nil
}

// Filter narrows account listings.
type Filter struct {
	Name  string // Substring match, case-insensitive.
	Email string // Substring match, case-insensitive.
	Role  string // Exact role match.
}

// List returns accounts matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]models.User, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if name := strings.TrimSpace(filter.Name); name != "" {
		pattern := db.NormalizeLikePattern(s.db, "%"+name+"%")
		q = q.Where(db.CaseInsensitiveLikeExpr(s.db, "name"), pattern)
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		pattern := db.NormalizeLikePattern(s.db, "%"+email+"%")
		q = q.Where(db.CaseInsensitiveLikeExpr(s.db, "email"), pattern)
	}
	if role := strings.TrimSpace(filter.Role); role != "" {
		q = q.Where("role = ?", role)
	}

	var rows []models.User
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("directory: list accounts: %w", errFind)
	}
	return rows, nil
}

// normalizeRole validates a role name, defaulting empty to seller.
func normalizeRole(role string) (string, error) {
	switch strings.TrimSpace(role) {
	case "":
		return models.RoleSeller, nil
	case models.RoleAdmin:
		return models.RoleAdmin, nil
	case models.RoleSeller:
		return models.RoleSeller, nil
	default:
		return "", ErrInvalidRole
	}
}
