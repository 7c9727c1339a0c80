package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/chzeraa/painel-bemaxx/internal/directory"
	"github.com/chzeraa/painel-bemaxx/internal/enrollment"
)

// MatriculaFrontHandler handles the seller-facing code pool endpoints.
type MatriculaFrontHandler struct {
	enroll *enrollment.Service
	alloc  *enrollment.Allocator
	dir    *directory.Service
}

// NewMatriculaFrontHandler constructs a MatriculaFrontHandler.
func NewMatriculaFrontHandler(enroll *enrollment.Service, alloc *enrollment.Allocator, dir *directory.Service) *MatriculaFrontHandler {
	return &MatriculaFrontHandler{enroll: enroll, alloc: alloc, dir: dir}
}

// List returns the codes owned by the current seller, newest first.
func (h *MatriculaFrontHandler) List(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rows, errList := h.enroll.List(c.Request.Context(), enrollment.Filter{OwnerID: &userID})
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list codes failed"})
		return
	}
	items := make([]gin.H, 0, len(rows))
	for i := range rows {
		items = append(items, matriculaPayload(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"matriculas": items, "total": len(items)})
}

// Draw picks a random available code. The drawn code stays available until a
// sale commits it; the response includes the progress stages the draw walked.
func (h *MatriculaFrontHandler) Draw(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var progress []gin.H
	matricula, errDraw := h.alloc.Draw(c.Request.Context(), func(m enrollment.Milestone) {
		progress = append(progress, gin.H{"percent": m.Percent, "stage": m.Stage})
	})
	if errDraw != nil {
		switch {
		case errors.Is(errDraw, enrollment.ErrExhausted):
			c.JSON(http.StatusConflict, gin.H{"error": "no codes available"})
		case errors.Is(errDraw, context.Canceled), errors.Is(errDraw, context.DeadlineExceeded):
			// Client gave up mid-draw; nothing was reserved.
			c.Abort()
		default:
			log.Errorf("draw failed for user %d: %v", userID, errDraw)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "draw failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"number":   matricula.Number,
		"status":   matricula.Status,
		"progress": progress,
	})
}

// saleRequest defines the request body for recording a sale.
type saleRequest struct {
	Number        string  `json:"number"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Price         float64 `json:"price"`
	PaymentMethod string  `json:"payment_method"`
}

// Sale commits a drawn code to a customer and advances the seller's totals.
func (h *MatriculaFrontHandler) Sale(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body saleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.Number) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number is required"})
		return
	}

	sold, errSale := h.enroll.RecordSale(c.Request.Context(), enrollment.SaleInput{
		Number:        body.Number,
		OwnerID:       userID,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		Price:         body.Price,
		PaymentMethod: body.PaymentMethod,
	})
	if errSale != nil {
		switch {
		case errors.Is(errSale, enrollment.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a positive number"})
		case errors.Is(errSale, enrollment.ErrInvalidMethod):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
		case errors.Is(errSale, enrollment.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "code not found"})
		case errors.Is(errSale, enrollment.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "code is no longer available"})
		case errors.Is(errSale, enrollment.ErrOwnerNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
		default:
			log.Errorf("record sale of %s for user %d: %v", body.Number, userID, errSale)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "record sale failed"})
		}
		return
	}

	response := gin.H{"matricula": matriculaPayload(sold)}
	if user, errGet := h.dir.Get(c.Request.Context(), userID); errGet == nil {
		response["user"] = userPayload(user)
	}
	c.JSON(http.StatusOK, response)
}
