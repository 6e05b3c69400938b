package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/coffeepulse/internal/domain/dto"
	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/middleware"
	"github.com/guttosm/coffeepulse/internal/notify"
	"github.com/guttosm/coffeepulse/internal/render"
	"github.com/guttosm/coffeepulse/internal/service"
	"github.com/guttosm/coffeepulse/internal/storage"
)

// Dashboard godoc
// @Summary      HTML report
// @Description  Dashboard with current price, recent ticks and monthly trend
// @Tags         report
// @Produce      html
// @Success      200  {string}  string  "HTML page"
// @Success      302  {string}  string  "Redirect to /login without a session"
// @Router       /report [get]
func (h *Handler) Dashboard(c *gin.Context) {
	var buf bytes.Buffer
	err := render.Dashboard(&buf, render.DashboardData{
		Instrument:   h.opts.Instrument,
		Snap:         h.svc.Snapshot(models.WebHistoryWindow),
		NextReport:   h.svc.NextReport(),
		LoginEnabled: h.LoginEnabled(),
		Username:     middleware.Username(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to render report", err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// SendTestReport godoc
// @Summary      Send a report now
// @Description  Mails the current report immediately; the once-per-day schedule is not affected
// @Tags         report
// @Produce      json
// @Success      200  {object}  dto.TestReportResponse
// @Failure      400  {object}  dto.ErrorResponse  "No recipients configured"
// @Failure      502  {object}  dto.ErrorResponse  "Delivery failed"
// @Router       /api/v1/report/test [post]
func (h *Handler) SendTestReport(c *gin.Context) {
	id, err := h.svc.SendTestReport(c.Request.Context())
	switch {
	case errors.Is(err, notify.ErrNoRecipients):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("email sender or recipients not configured", err))
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("failed to send test report", err))
		return
	}
	c.JSON(http.StatusOK, dto.TestReportResponse{Success: true, MessageID: id})
}

// CheckSMTP godoc
// @Summary      Verify SMTP
// @Description  Connects and authenticates against the SMTP server without sending mail
// @Tags         report
// @Produce      json
// @Success      200  {object}  dto.SMTPCheckResponse
// @Failure      409  {object}  dto.ErrorResponse  "E-mail disabled"
// @Failure      502  {object}  dto.ErrorResponse  "SMTP unreachable"
// @Router       /api/v1/report/smtp-check [get]
func (h *Handler) CheckSMTP(c *gin.Context) {
	err := h.svc.VerifyMailer(c.Request.Context())
	switch {
	case errors.Is(err, notify.ErrMailerDisabled):
		c.JSON(http.StatusConflict, dto.NewErrorResponse("email delivery is disabled", err))
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("SMTP connection failed", err))
		return
	}
	c.JSON(http.StatusOK, dto.SMTPCheckResponse{Success: true, Message: "SMTP connection verified"})
}

// ListDeliveries godoc
// @Summary      Delivery journal
// @Description  Most recent report and alert deliveries, newest first
// @Tags         report
// @Produce      json
// @Param        limit  query     int  false  "Number of rows (1..500)"  default(50)
// @Success      200    {object}  dto.DeliveriesResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse  "Journal disabled"
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/v1/deliveries [get]
func (h *Handler) ListDeliveries(c *gin.Context) {
	limit, err := parseLimit(c, 50, storage.MaxListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid limit", err))
		return
	}
	rows, err := h.svc.ListDeliveries(c.Request.Context(), limit)
	switch {
	case errors.Is(err, service.ErrJournalDisabled):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("delivery journal is disabled", err))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list deliveries", err))
		return
	}
	if rows == nil {
		rows = []models.Delivery{}
	}
	c.JSON(http.StatusOK, dto.DeliveriesResponse{Count: len(rows), Deliveries: rows})
}

// Endpoints is the route listing returned for unknown paths.
var Endpoints = []string{
	"GET / - Status overview",
	"GET /status - Status overview",
	"GET /health - Health check",
	"GET /healthz - Liveness probe",
	"GET /readyz - Readiness probe",
	"GET /login - Login page (if enabled)",
	"POST /login - Authenticate user",
	"GET /logout - Logout user",
	"GET /report - HTML report",
	"GET /api/v1/price - Current price data",
	"GET /api/v1/history - Price history",
	"GET /api/v1/monthly-trend - Monthly price trend data",
	"GET /api/v1/snapshot - Full report snapshot",
	"GET /api/v1/login-status - Login system status",
	"DELETE /api/v1/sessions - Clear all sessions",
	"POST /api/v1/report/test - Send test report",
	"GET /api/v1/report/smtp-check - Test SMTP connection",
	"GET /api/v1/deliveries - Delivery journal",
	"GET /metrics - Prometheus metrics",
	"GET /swagger/index.html - API documentation",
}

// NotFound answers unknown routes with the list of available endpoints.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NotFoundResponse{
		Message:   "endpoint not found",
		Path:      c.Request.URL.Path,
		Endpoints: Endpoints,
	})
}
