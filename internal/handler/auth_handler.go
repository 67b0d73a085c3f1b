package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-console/internal/dto"
	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/service"
	"github.com/noah-isme/campus-console/internal/session"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*service.LoginResult, error)
	Logout(ctx context.Context) error
}

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookie  CookieOptions
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{service: svc, cookie: cookie}
}

// Landing godoc
// @Summary Session status
// @Description Reports whether a session exists and where its role lands
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router / [get]
func (h *AuthHandler) Landing(c *gin.Context) {
	response.OK(c, sessionResponse(sessionUser(c)))
}

// Login godoc
// @Summary Authenticate operator
// @Description Verifies credentials with the institution backend and sets the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "auth service not configured"))
		return
	}
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, res.Cookie, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
	response.OK(c, sessionResponse(res.User))
}

// Logout godoc
// @Summary End the current session
// @Tags Authentication
// @Produce json
// @Success 204
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "auth service not configured"))
		return
	}
	err := h.service.Logout(c.Request.Context())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func sessionResponse(user *session.User) dto.SessionResponse {
	if user == nil {
		return dto.SessionResponse{Home: homeRoute("")}
	}
	return dto.SessionResponse{
		Authenticated: true,
		Role:          user.Role,
		DisplayName:   user.DisplayName(),
		Home:          homeRoute(user.Role),
		User:          user.Attributes,
	}
}
