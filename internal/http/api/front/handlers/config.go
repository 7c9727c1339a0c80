package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chzeraa/painel-bemaxx/internal/settings"
)

// GetPublicConfig returns the public panel settings from the cached snapshot.
func GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"site_name":         settings.StringValue(settings.SiteNameKey, "Painel Bemaxx"),
		"support_whatsapp":  settings.StringValue(settings.SupportWhatsAppKey, ""),
		"support_instagram": settings.StringValue(settings.SupportInstagramKey, ""),
		"updated_at":        settings.UpdatedAt(),
	})
}
