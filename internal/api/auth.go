package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/coffeepulse/internal/domain/dto"
	"github.com/guttosm/coffeepulse/internal/logger"
	"github.com/guttosm/coffeepulse/internal/middleware"
	"github.com/guttosm/coffeepulse/internal/render"
	"github.com/guttosm/coffeepulse/internal/session"
)

const invalidCredentials = "Invalid username or password!"

// LoginPage godoc
// @Summary      Login form
// @Tags         auth
// @Produce      html
// @Success      200  {string}  string  "HTML page"
// @Success      302  {string}  string  "Already logged in or login disabled"
// @Router       /login [get]
func (h *Handler) LoginPage(c *gin.Context) {
	if !h.LoginEnabled() || h.currentSession(c) != nil {
		c.Redirect(http.StatusFound, "/report")
		return
	}
	h.renderLogin(c, http.StatusOK, "")
}

// Login godoc
// @Summary      Authenticate
// @Description  Checks the form credentials, sets the session cookie and redirects to /report
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      302       {string}  string  "Redirect to /report"
// @Failure      401       {string}  string  "Login form with an error message"
// @Failure      500       {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	if !h.LoginEnabled() {
		c.Redirect(http.StatusFound, "/report")
		return
	}

	username := c.PostForm("username")
	if !h.opts.Auth.Check(username, c.PostForm("password")) {
		logger.L().Warn().Str("username", username).Str("client_ip", c.ClientIP()).Msg("failed login attempt")
		h.renderLogin(c, http.StatusUnauthorized, invalidCredentials)
		return
	}

	s, err := h.opts.Sessions.Create(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to create session", err))
		return
	}
	h.setSessionCookie(c, s.ID, int(h.opts.SessionTimeout.Seconds()))
	logger.L().Info().Str("username", username).Msg("user logged in")
	c.Redirect(http.StatusFound, "/report")
}

// Logout godoc
// @Summary      Logout
// @Description  Deletes the current session and clears the cookie
// @Tags         auth
// @Success      302  {string}  string  "Redirect to /login"
// @Router       /logout [get]
func (h *Handler) Logout(c *gin.Context) {
	if h.LoginEnabled() {
		if id, err := c.Cookie(session.CookieName); err == nil && id != "" {
			if err := h.opts.Sessions.Delete(c.Request.Context(), id); err != nil {
				logger.L().Error().Err(err).Msg("session delete failed")
			}
		}
	}
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/login")
}

// GetLoginStatus godoc
// @Summary      Login system status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.LoginStatusResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/login-status [get]
func (h *Handler) GetLoginStatus(c *gin.Context) {
	resp := dto.LoginStatusResponse{LoginEnabled: h.LoginEnabled()}
	if !resp.LoginEnabled {
		c.JSON(http.StatusOK, resp)
		return
	}
	if s := h.currentSession(c); s != nil {
		resp.Authenticated = true
		resp.Username = s.Username
	}
	n, err := h.opts.Sessions.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to count sessions", err))
		return
	}
	resp.ActiveSessions = n
	c.JSON(http.StatusOK, resp)
}

// ClearSessions godoc
// @Summary      Clear all sessions
// @Description  Logs every user out, including the caller
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionsClearedResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/sessions [delete]
func (h *Handler) ClearSessions(c *gin.Context) {
	if !h.LoginEnabled() {
		c.JSON(http.StatusOK, dto.SessionsClearedResponse{})
		return
	}
	n, err := h.opts.Sessions.Clear(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to clear sessions", err))
		return
	}
	logger.L().Info().Int("cleared", n).Str("by", middleware.Username(c)).Msg("all sessions cleared")
	c.JSON(http.StatusOK, dto.SessionsClearedResponse{Cleared: n})
}

// currentSession returns the caller's live session, or nil.
func (h *Handler) currentSession(c *gin.Context) *session.Session {
	id, err := c.Cookie(session.CookieName)
	if err != nil || id == "" {
		return nil
	}
	s, err := h.opts.Sessions.Validate(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logger.L().Error().Err(err).Msg("session lookup failed")
		}
		return nil
	}
	return &s
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, maxAge, "/", "", h.opts.SecureCookie, true)
}

func (h *Handler) renderLogin(c *gin.Context, status int, msg string) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := render.Login(c.Writer, render.LoginData{Instrument: h.opts.Instrument, Error: msg}); err != nil {
		_ = c.Error(err)
	}
}
