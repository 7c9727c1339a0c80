package settings

// DB config keys and defaults for panel settings.
const (
	// SiteNameKey is the DB config key for the panel display name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback panel display name.
	DefaultSiteName = "Painel Bemaxx"
	// SupportWhatsAppKey is the DB config key for the support WhatsApp link.
	SupportWhatsAppKey = "SUPPORT_WHATSAPP_URL"
	// SupportInstagramKey is the DB config key for the support Instagram link.
	SupportInstagramKey = "SUPPORT_INSTAGRAM_URL"
)

// PublicKeys lists the settings exposed to unauthenticated clients.
var PublicKeys = []string{SiteNameKey, SupportWhatsAppKey, SupportInstagramKey}
