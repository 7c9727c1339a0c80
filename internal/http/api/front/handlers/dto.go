package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chzeraa/painel-bemaxx/internal/models"
	"github.com/chzeraa/painel-bemaxx/internal/util"
)

// userPayload builds the account response body. Dates are shipped both as
// RFC 3339 and in the Brazilian display format so the panel never formats
// timestamps itself.
func userPayload(user *models.User) gin.H {
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
	}
}

// matriculaPayload builds the enrollment code response body.
func matriculaPayload(m *models.Matricula) gin.H {
	return gin.H{
		"number":         m.Number,
		"status":         m.Status,
		"active_days":    m.ActiveDays,
		"customer_name":  m.CustomerName,
		"customer_email": m.CustomerEmail,
		"price":          m.Price,
		"payment_method": m.PaymentMethod,
		"sold_at":        m.SoldAt,
		"sold_at_br":     util.FormatDateBRPtr(m.SoldAt),
		"copied_at":      m.CopiedAt,
		"created_at":     m.CreatedAt.Format(time.RFC3339),
	}
}
