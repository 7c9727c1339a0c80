package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chzeraa/painel-bemaxx/internal/directory"
)

// ProfileHandler handles the authenticated account's own profile.
type ProfileHandler struct {
	dir *directory.Service
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(dir *directory.Service) *ProfileHandler {
	return &ProfileHandler{dir: dir}
}

// Get returns the current account.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, errGet := h.dir.Get(c.Request.Context(), userID)
	if errGet != nil {
		if errors.Is(errGet, directory.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query account failed"})
		return
	}
	c.JSON(http.StatusOK, userPayload(user))
}

// changePasswordRequest defines the request body for password changes.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword verifies the current password and replaces it.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	current := strings.TrimSpace(body.CurrentPassword)
	next := strings.TrimSpace(body.NewPassword)
	if current == "" || next == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_password and new_password are required"})
		return
	}

	user, errGet := h.dir.Get(c.Request.Context(), userID)
	if errGet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query account failed"})
		return
	}
	if _, errAuth := h.dir.Authenticate(c.Request.Context(), user.Email, current); errAuth != nil {
		if errors.Is(errAuth, directory.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "current password is incorrect"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verify password failed"})
		return
	}

	if _, errUpdate := h.dir.Update(c.Request.Context(), userID, directory.Patch{Password: &next}); errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update password failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
