package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/coffeepulse/internal/domain/dto"
	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/service"
	"github.com/guttosm/coffeepulse/internal/session"
)

// MaxHistoryLimit bounds the limit query parameter of /api/v1/history.
const MaxHistoryLimit = models.DefaultTickRetention

// Options configures the optional parts of a Handler.
type Options struct {
	Instrument     string
	Sessions       session.Store          // nil disables login
	Auth           *session.Authenticator // required when Sessions is set
	SessionTimeout time.Duration
	SecureCookie   bool
}

// Handler serves the market status, price and report endpoints.
//
// Responsibilities:
//   - Validate query parameters
//   - Read the market state through service.MarketService
//   - Translate domain values into response DTOs
type Handler struct {
	svc  service.MarketService
	opts Options
	now  func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(svc service.MarketService, opts Options) *Handler {
	if opts.SessionTimeout <= 0 {
		opts.SessionTimeout = session.DefaultTimeout
	}
	return &Handler{svc: svc, opts: opts, now: time.Now}
}

// LoginEnabled reports whether pages and admin endpoints require a session.
func (h *Handler) LoginEnabled() bool {
	return h.opts.Sessions != nil
}

// GetStatus godoc
// @Summary      Service status
// @Description  Tracked symbol, current price, uptime, update count and next report time
// @Tags         status
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	st := h.svc.Status()
	uptime := h.now().Sub(st.StartTime).Truncate(time.Second)

	resp := dto.StatusResponse{
		Status:        "running",
		Instrument:    h.opts.Instrument,
		Symbol:        st.Symbol,
		CurrentPrice:  st.CurrentPrice,
		StartTime:     st.StartTime,
		Uptime:        uptime.String(),
		UptimeSeconds: int64(uptime / time.Second),
		TotalUpdates:  st.TotalTicks,
		NextReport:    h.svc.NextReport(),
		Connected:     st.Connected,
		LoginEnabled:  h.LoginEnabled(),
	}
	if st.LastTick != nil {
		ts := st.LastTick.Timestamp
		resp.LastUpdate = &ts
	}
	c.JSON(http.StatusOK, resp)
}

// GetPrice godoc
// @Summary      Current price
// @Description  Latest price with the session high and low from the last tick
// @Tags         market
// @Produce      json
// @Success      200  {object}  dto.PriceResponse
// @Router       /api/v1/price [get]
func (h *Handler) GetPrice(c *gin.Context) {
	snap := h.svc.Snapshot(1)
	resp := dto.PriceResponse{
		Symbol:    snap.Symbol,
		Price:     snap.CurrentPrice,
		High:      snap.HighPrice,
		Low:       snap.LowPrice,
		LastTick:  snap.LastTick,
		Connected: snap.Connected,
	}
	if snap.LastTick != nil {
		ts := snap.LastTick.Timestamp
		resp.LastUpdate = &ts
	}
	c.JSON(http.StatusOK, resp)
}

// GetHistory godoc
// @Summary      Recent ticks
// @Description  Last N ticks, oldest first
// @Tags         market
// @Produce      json
// @Param        limit  query     int  false  "Number of ticks (1..5000)"  default(50)
// @Success      200    {object}  dto.HistoryResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/v1/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	limit, err := parseLimit(c, models.WebHistoryWindow, MaxHistoryLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid limit", err))
		return
	}

	snap := h.svc.Snapshot(limit)
	ticks := snap.RecentTicks
	if ticks == nil {
		ticks = []models.Tick{}
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{
		Symbol: snap.Symbol,
		Count:  len(ticks),
		Total:  snap.TotalTicks,
		Ticks:  ticks,
	})
}

// GetMonthlyTrend godoc
// @Summary      Monthly trend
// @Description  Per-month open, close, change and tick count in ascending month order
// @Tags         market
// @Produce      json
// @Success      200  {object}  dto.MonthlyTrendResponse
// @Router       /api/v1/monthly-trend [get]
func (h *Handler) GetMonthlyTrend(c *gin.Context) {
	snap := h.svc.Snapshot(0)
	months := snap.MonthlyTrend
	if months == nil {
		months = []models.MonthlyTrend{}
	}
	c.JSON(http.StatusOK, dto.MonthlyTrendResponse{
		Symbol: snap.Symbol,
		Count:  len(months),
		Months: months,
	})
}

// GetSnapshot godoc
// @Summary      Report snapshot
// @Description  The same consistent copy of the state the daily report is built from
// @Tags         market
// @Produce      json
// @Param        limit  query     int  false  "Number of recent ticks (1..5000)"  default(50)
// @Success      200    {object}  models.ReportSnapshot
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/v1/snapshot [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	limit, err := parseLimit(c, models.WebHistoryWindow, MaxHistoryLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid limit", err))
		return
	}
	c.JSON(http.StatusOK, h.svc.Snapshot(limit))
}

// parseLimit reads the optional "limit" query parameter.
func parseLimit(c *gin.Context, def, max int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > max {
		return 0, errLimitRange(max)
	}
	return n, nil
}

type errLimitRange int

func (e errLimitRange) Error() string {
	return "limit must be between 1 and " + strconv.Itoa(int(e))
}
