package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/chzeraa/painel-bemaxx/internal/config"
	"github.com/chzeraa/painel-bemaxx/internal/directory"
	"github.com/chzeraa/painel-bemaxx/internal/security"
	"github.com/chzeraa/painel-bemaxx/internal/util"
)

// AuthHandler handles seller authentication endpoints.
type AuthHandler struct {
	dir    *directory.Service
	jwtCfg config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(dir *directory.Service, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{dir: dir, jwtCfg: jwtCfg}
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an account and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.TrimSpace(body.Email)
	password := strings.TrimSpace(body.Password)
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, errAuth := h.dir.Authenticate(c.Request.Context(), email, password)
	if errAuth != nil {
		switch {
		case errors.Is(errAuth, directory.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		case errors.Is(errAuth, directory.ErrBlocked):
			log.Warnf("login rejected for blocked account %s", util.MaskEmail(email))
			c.JSON(http.StatusForbidden, gin.H{"error": "account blocked, contact support"})
		case errors.Is(errAuth, directory.ErrInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "account inactive"})
		default:
			log.Errorf("login failed for %s: %v", util.MaskEmail(email), errAuth)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	token, errToken := security.GenerateToken(h.jwtCfg.Secret, user.ID, user.Email, user.Role, h.jwtCfg.Expiry())
	if errToken != nil {
		log.Errorf("issue token for %s: %v", util.MaskEmail(email), errToken)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}

	log.Infof("login succeeded for %s", util.MaskEmail(email))
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userPayload(user),
	})
}
