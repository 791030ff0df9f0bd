package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/neatly/internal/common"
	"github.com/dmitrijs2005/neatly/internal/logging"
	"github.com/dmitrijs2005/neatly/internal/server/auth"
	"github.com/dmitrijs2005/neatly/internal/server/models"
	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by register, login and refresh. The refresh
// token itself only travels in the cookie.
type SessionResponse struct {
	User        models.Identity `json:"user"`
	AccessToken string          `json:"accessToken"`
}

type handler struct {
	auth    AuthAPI
	avatars AvatarUploader
	cookie  cookieSettings
	logger  logging.Logger
}

func (h *handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.cookie.set(c, res.RefreshToken)
	c.JSON(http.StatusOK, SessionResponse{User: res.User, AccessToken: res.AccessToken})
}

func (h *handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.cookie.set(c, res.RefreshToken)
	c.JSON(http.StatusOK, SessionResponse{User: res.User, AccessToken: res.AccessToken})
}

func (h *handler) refresh(c *gin.Context) {
	res, err := h.auth.Refresh(c.Request.Context(), h.cookie.read(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.cookie.set(c, res.RefreshToken)
	c.JSON(http.StatusOK, SessionResponse{User: res.User, AccessToken: res.AccessToken})
}

func (h *handler) logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), h.cookie.read(c))
	h.cookie.clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *handler) me(c *gin.Context) {
	userID, _ := auth.UserIDFromContext(c.Request.Context())

	id, err := h.auth.GetIdentity(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

func (h *handler) avatar(c *gin.Context) {
	if h.avatars == nil {
		h.writeError(c, common.ErrUnavailable)
		return
	}
	userID, _ := auth.UserIDFromContext(c.Request.Context())

	up, err := h.avatars.CreateUpload(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

// writeError is the single place service errors become HTTP statuses.
func (h *handler) writeError(c *gin.Context, err error) {
	var (
		status int
		msg    string
	)
	switch {
	case errors.Is(err, common.ErrValidation):
		status, msg = http.StatusBadRequest, "Please fill all fields"
	case errors.Is(err, common.ErrConflict):
		status, msg = http.StatusBadRequest, "Email already registered"
	case errors.Is(err, common.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrReuseDetected):
		status, msg = http.StatusUnauthorized, "Invalid refresh token"
	case errors.Is(err, common.ErrorNotFound):
		status, msg = http.StatusNotFound, "User not found"
	case errors.Is(err, common.ErrRateLimited):
		status, msg = http.StatusTooManyRequests, common.ErrRateLimited.Error()
	case errors.Is(err, common.ErrUnavailable):
		status, msg = http.StatusServiceUnavailable, "avatar storage is not configured"
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		status, msg = http.StatusInternalServerError, "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
