package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/settings"
)

// SettingsHandler handles the panel settings endpoints.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(conn *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: conn}
}

// Get returns the public settings from the cached snapshot.
func (h *SettingsHandler) Get(c *gin.Context) {
	values := gin.H{}
	for _, key := range settings.PublicKeys {
		values[key] = settings.StringValue(key, "")
	}
	c.JSON(http.StatusOK, gin.H{
		"settings":   values,
		"updated_at": settings.UpdatedAt(),
	})
}

// updateSettingsRequest defines the request body for settings updates. Absent
// fields keep their stored values.
type updateSettingsRequest struct {
	SiteName         *string `json:"site_name"`
	SupportWhatsApp  *string `json:"support_whatsapp"`
	SupportInstagram *string `json:"support_instagram"`
}

// Update persists the provided settings and refreshes the snapshot.
func (h *SettingsHandler) Update(c *gin.Context) {
	var body updateSettingsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]*string{
		settings.SiteNameKey:         body.SiteName,
		settings.SupportWhatsAppKey:  body.SupportWhatsApp,
		settings.SupportInstagramKey: body.SupportInstagram,
	}
	for key, value := range updates {
		if value == nil {
			continue
		}
		raw, errMarshal := json.Marshal(*value)
		if errMarshal != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "encode setting failed"})
			return
		}
		if errSave := settings.Save(c.Request.Context(), h.db, key, raw); errSave != nil {
			log.Errorf("save setting %s: %v", key, errSave)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save setting failed"})
			return
		}
	}

	values := gin.H{}
	for _, key := range settings.PublicKeys {
		values[key] = settings.StringValue(key, "")
	}
	c.JSON(http.StatusOK, gin.H{
		"settings":   values,
		"updated_at": settings.UpdatedAt(),
	})
}
