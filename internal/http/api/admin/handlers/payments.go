package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/chzeraa/painel-bemaxx/internal/models"
	"github.com/chzeraa/painel-bemaxx/internal/payments"
	"github.com/chzeraa/painel-bemaxx/internal/util"
)

// PaymentHandler handles the account payment ledger endpoints.
type PaymentHandler struct {
	payments *payments.Service
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(paymentService *payments.Service) *PaymentHandler {
	return &PaymentHandler{payments: paymentService}
}

// paymentDTO defines the ledger entry response payload.
func paymentDTO(p *models.Payment) gin.H {
	payload := gin.H{
		"id":         p.ID,
		"reference":  p.Reference,
		"user_id":    p.UserID,
		"amount":     p.Amount,
		"method":     p.Method,
		"status":     p.Status,
		"kind":       p.Kind,
		"note":       p.Note,
		"paid_at":    p.PaidAt,
		"paid_at_br": util.FormatDateBRPtr(p.PaidAt),
		"created_at": p.CreatedAt,
	}
	if p.User != nil {
		payload["user"] = gin.H{"id": p.User.ID, "name": p.User.Name, "email": p.User.Email}
	}
	return payload
}

// List returns ledger entries matching the query filters.
func (h *PaymentHandler) List(c *gin.Context) {
	filter := payments.Filter{
		Status: c.Query("status"),
		Kind:   c.Query("kind"),
	}
	if rawUser := strings.TrimSpace(c.Query("user_id")); rawUser != "" {
		userID, errUser := strconv.ParseUint(rawUser, 10, 64)
		if errUser != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		filter.UserID = &userID
	}

	rows, errList := h.payments.List(c.Request.Context(), filter)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list payments failed"})
		return
	}
	items := make([]gin.H, 0, len(rows))
	for i := range rows {
		items = append(items, paymentDTO(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"payments": items, "total": len(items)})
}

// createPaymentRequest defines the request body for recording a ledger entry.
type createPaymentRequest struct {
	UserID uint64     `json:"user_id"`
	Amount float64    `json:"amount"`
	Method string     `json:"method"`
	Status string     `json:"status"`
	Kind   string     `json:"kind"`
	Note   string     `json:"note"`
	PaidAt *time.Time `json:"paid_at"`
}

// Create records a ledger entry against an account.
func (h *PaymentHandler) Create(c *gin.Context) {
	var body createPaymentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	entry, errCreate := h.payments.Create(c.Request.Context(), payments.CreateParams{
		UserID: body.UserID,
		Amount: body.Amount,
		Method: body.Method,
		Status: body.Status,
		Kind:   body.Kind,
		Note:   body.Note,
		PaidAt: body.PaidAt,
	})
	if errCreate != nil {
		switch {
		case errors.Is(errCreate, payments.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number"})
		case errors.Is(errCreate, payments.ErrInvalidKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entry kind"})
		case errors.Is(errCreate, payments.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entry status"})
		case errors.Is(errCreate, payments.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		default:
			log.Errorf("create payment for user %d: %v", body.UserID, errCreate)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create payment failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, paymentDTO(entry))
}

// Delete removes a ledger entry.
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, errID := strconv.ParseUint(c.Param("id"), 10, 64)
	if errID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	if errDelete := h.payments.Delete(c.Request.Context(), id); errDelete != nil {
		if errors.Is(errDelete, payments.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete payment failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
