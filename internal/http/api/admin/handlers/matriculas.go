package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/chzeraa/painel-bemaxx/internal/enrollment"
	"github.com/chzeraa/painel-bemaxx/internal/models"
	"github.com/chzeraa/painel-bemaxx/internal/util"
)

// MatriculaHandler handles the administrative code pool endpoints.
type MatriculaHandler struct {
	enroll *enrollment.Service
}

// NewMatriculaHandler constructs a MatriculaHandler.
func NewMatriculaHandler(enroll *enrollment.Service) *MatriculaHandler {
	return &MatriculaHandler{enroll: enroll}
}

// matriculaDTO defines the code response payload for the admin views, which
// keep voided codes and ownership visible.
func matriculaDTO(m *models.Matricula) gin.H {
	payload := gin.H{
		"number":         m.Number,
		"status":         m.Status,
		"active_days":    m.ActiveDays,
		"owner_user_id":  m.OwnerUserID,
		"customer_name":  m.CustomerName,
		"customer_email": m.CustomerEmail,
		"price":          m.Price,
		"payment_method": m.PaymentMethod,
		"sold_at":        m.SoldAt,
		"sold_at_br":     util.FormatDateBRPtr(m.SoldAt),
		"voided":         m.Voided,
		"voided_at":      m.VoidedAt,
		"created_at":     m.CreatedAt,
	}
	if m.Owner != nil {
		payload["owner"] = gin.H{"id": m.Owner.ID, "name": m.Owner.Name, "email": m.Owner.Email}
	}
	return payload
}

// List returns codes matching the query filters.
func (h *MatriculaHandler) List(c *gin.Context) {
	filter := enrollment.Filter{
		Number:        c.Query("number"),
		Customer:      c.Query("customer"),
		Status:        c.Query("status"),
		IncludeVoided: c.Query("include_voided") == "true",
	}
	if rawOwner := strings.TrimSpace(c.Query("owner_id")); rawOwner != "" {
		ownerID, errOwner := strconv.ParseUint(rawOwner, 10, 64)
		if errOwner != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner_id"})
			return
		}
		filter.OwnerID = &ownerID
	}
	if rawFrom := strings.TrimSpace(c.Query("sold_from")); rawFrom != "" {
		from, errFrom := time.Parse("2006-01-02", rawFrom)
		if errFrom != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sold_from, want YYYY-MM-DD"})
			return
		}
		filter.SoldFrom = &from
	}
	if rawTo := strings.TrimSpace(c.Query("sold_to")); rawTo != "" {
		to, errTo := time.Parse("2006-01-02", rawTo)
		if errTo != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sold_to, want YYYY-MM-DD"})
			return
		}
		// The whole named day counts.
		end := to.AddDate(0, 0, 1)
		filter.SoldTo = &end
	}

	rows, errList := h.enroll.List(c.Request.Context(), filter)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list codes failed"})
		return
	}
	items := make([]gin.H, 0, len(rows))
	for i := range rows {
		items = append(items, matriculaDTO(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"matriculas": items, "total": len(items)})
}

// createMatriculaRequest defines the request body for adding a code. The
// number may be given with or without the fixed prefix.
type createMatriculaRequest struct {
	Number string `json:"number"`
}

// Create adds a new available code to the pool.
func (h *MatriculaHandler) Create(c *gin.Context) {
	var body createMatriculaRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	matricula, errCreate := h.enroll.Create(c.Request.Context(), body.Number)
	if errCreate != nil {
		switch {
		case errors.Is(errCreate, enrollment.ErrEmptyNumber):
			c.JSON(http.StatusBadRequest, gin.H{"error": "number is required"})
		case errors.Is(errCreate, enrollment.ErrDuplicateCode):
			c.JSON(http.StatusConflict, gin.H{"error": "code already exists"})
		default:
			log.Errorf("create code %q: %v", body.Number, errCreate)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create code failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, matriculaDTO(matricula))
}

// Void marks a code as removed. Voiding is terminal and keeps the row for
// audit.
func (h *MatriculaHandler) Void(c *gin.Context) {
	number := c.Param("number")
	matricula, errVoid := h.enroll.Void(c.Request.Context(), number)
	if errVoid != nil {
		switch {
		case errors.Is(errVoid, enrollment.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "code not found"})
		case errors.Is(errVoid, enrollment.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "code already voided"})
		default:
			log.Errorf("void code %s: %v", number, errVoid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "void code failed"})
		}
		return
	}
	c.JSON(http.StatusOK, matriculaDTO(matricula))
}
