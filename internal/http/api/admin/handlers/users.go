package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/chzeraa/painel-bemaxx/internal/directory"
	"github.com/chzeraa/painel-bemaxx/internal/models"
	"github.com/chzeraa/painel-bemaxx/internal/util"
)

// UserHandler handles account management endpoints.
type UserHandler struct {
	dir *directory.Service
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(dir *directory.Service) *UserHandler {
	return &UserHandler{dir: dir}
}

// userDTO defines the account response payload.
func userDTO(user *models.User) gin.H {
	return gin.H{
		"id":               user.ID,
		"name":             user.Name,
		"email":            user.Email,
		"role":             user.Role,
		"active":           user.Active,
		"blocked":          user.Blocked,
		"total_sales":      user.TotalSales,
		"amount_collected": user.AmountCollected,
		"payment_status":   user.PaymentStatus,
		"access_fee":       user.AccessFee,
		"next_due_at":      user.NextDueAt,
		"next_due_br":      util.FormatDateBRPtr(user.NextDueAt),
		"created_at":       user.CreatedAt,
	}
}

// List returns accounts matching the optional name, email and role filters.
func (h *UserHandler) List(c *gin.Context) {
	rows, errList := h.dir.List(c.Request.Context(), directory.Filter{
		Name:  c.Query("name"),
		Email: c.Query("email"),
		Role:  c.Query("role"),
	})
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list accounts failed"})
		return
	}
	items := make([]gin.H, 0, len(rows))
	for i := range rows {
		items = append(items, userDTO(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": items, "total": len(items)})
}

// createUserRequest defines the request body for account creation.
type createUserRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Role      string   `json:"role"`
	AccessFee *float64 `json:"access_fee"`
}

// Create registers a new account.
func (h *UserHandler) Create(c *gin.Context) {
	var body createUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	user, errCreate := h.dir.Create(c.Request.Context(), directory.CreateParams{
		Name:      body.Name,
		Email:     body.Email,
		Password:  body.Password,
		Role:      body.Role,
		AccessFee: body.AccessFee,
	})
	if errCreate != nil {
		switch {
		case errors.Is(errCreate, directory.ErrMissingField):
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		case errors.Is(errCreate, directory.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		case errors.Is(errCreate, directory.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		case errors.Is(errCreate, directory.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "access_fee must not be negative"})
		case errors.Is(errCreate, directory.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			log.Errorf("create account %s: %v", util.MaskEmail(body.Email), errCreate)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create account failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, userDTO(user))
}

// updateUserRequest defines the request body for account updates. Absent
// fields keep their stored values.
type updateUserRequest struct {
	Name          *string    `json:"name"`
	Email         *string    `json:"email"`
	Password      *string    `json:"password"`
	Role          *string    `json:"role"`
	Active        *bool      `json:"active"`
	Blocked       *bool      `json:"blocked"`
	PaymentStatus *string    `json:"payment_status"`
	AccessFee     *float64   `json:"access_fee"`
	NextDueAt     *time.Time `json:"next_due_at"`
}

// Update applies a partial account update.
func (h *UserHandler) Update(c *gin.Context) {
	id, errID := strconv.ParseUint(c.Param("id"), 10, 64)
	if errID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var body updateUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	user, errUpdate := h.dir.Update(c.Request.Context(), id, directory.Patch{
		Name:          body.Name,
		Email:         body.Email,
		Password:      body.Password,
		Role:          body.Role,
		Active:        body.Active,
		Blocked:       body.Blocked,
		PaymentStatus: body.PaymentStatus,
		AccessFee:     body.AccessFee,
		NextDueAt:     body.NextDueAt,
	})
	if errUpdate != nil {
		switch {
		case errors.Is(errUpdate, directory.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		case errors.Is(errUpdate, directory.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		case errors.Is(errUpdate, directory.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		case errors.Is(errUpdate, directory.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment status"})
		case errors.Is(errUpdate, directory.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "access_fee must not be negative"})
		case errors.Is(errUpdate, directory.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			log.Errorf("update account %d: %v", id, errUpdate)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update account failed"})
		}
		return
	}
	c.JSON(http.StatusOK, userDTO(user))
}

// Delete removes an account. Codes sold by the account keep their records.
func (h *UserHandler) Delete(c *gin.Context) {
	id, errID := strconv.ParseUint(c.Param("id"), 10, 64)
	if errID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}
	if errDelete := h.dir.Delete(c.Request.Context(), id); errDelete != nil {
		if errors.Is(errDelete, directory.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete account failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
