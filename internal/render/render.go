package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// DashboardMonths is the number of monthly trend rows shown on the dashboard.
const DashboardMonths = 6

const timeLayout = "2006-01-02 15:04:05"

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"money":     money,
		"moneyPtr":  moneyPtr,
		"signed":    signed,
		"color":     changeColor,
		"ts":        func(t time.Time) string { return t.Format(timeLayout) },
		"volume":    volume,
		"sparkline": Sparkline,
		"upper":     strings.ToUpper,
	}).ParseFS(templateFS, "templates/*.html"),
)

// Email is a rendered message body pair.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

type reportView struct {
	Instrument string
	Snap       models.ReportSnapshot
	Duration   time.Duration
	Chart      []float64
	Table      []models.Tick
	Months     []models.MonthlyTrend
	Closes     []float64
}

// ReportEmail renders the daily report for snap.
func ReportEmail(instrument string, snap models.ReportSnapshot) (Email, error) {
	view := reportView{
		Instrument: instrument,
		Snap:       snap,
		Duration:   snap.GeneratedAt.Sub(snap.StartTime).Truncate(time.Minute),
		Table:      newestFirst(snap.Tail(models.TableWindow)),
		Months:     snap.MonthlyTrend,
	}
	for _, t := range snap.Tail(models.EmailChartWindow) {
		view.Chart = append(view.Chart, t.Price)
	}
	for _, m := range snap.MonthlyTrend {
		view.Closes = append(view.Closes, m.Close)
	}

	var html bytes.Buffer
	if err := templates.ExecuteTemplate(&html, "report_email.html", view); err != nil {
		return Email{}, fmt.Errorf("render report: %w", err)
	}
	return Email{
		Subject: fmt.Sprintf("%s Price Report - %s", instrument, snap.GeneratedAt.Format("2006-01-02")),
		HTML:    html.String(),
		Text:    reportText(view),
	}, nil
}

type alertView struct {
	Instrument string
	Alert      models.Alert
}

// AlertEmail renders a threshold alert.
func AlertEmail(instrument string, alert models.Alert) (Email, error) {
	var html bytes.Buffer
	if err := templates.ExecuteTemplate(&html, "alert_email.html", alertView{Instrument: instrument, Alert: alert}); err != nil {
		return Email{}, fmt.Errorf("render alert: %w", err)
	}
	subject := fmt.Sprintf("%s PRICE ALERT - %s: $%s", strings.ToUpper(alert.Kind.String()), instrument, money(alert.Price))
	text := fmt.Sprintf("%s\nSymbol: %s\nPrice: $%s\nThreshold: $%s\nTime: %s\n",
		subject, orNA(alert.Symbol), money(alert.Price), money(alert.Threshold), alert.At.Format(timeLayout))
	return Email{Subject: subject, HTML: html.String(), Text: text}, nil
}

// DashboardData feeds the report page.
type DashboardData struct {
	Instrument   string
	Snap         models.ReportSnapshot
	NextReport   time.Time
	LoginEnabled bool
	Username     string
}

type dashboardView struct {
	DashboardData
	Ticks  []models.Tick
	Months []models.MonthlyTrend
	Prices []float64
	Uptime time.Duration
}

// Dashboard writes the HTML report page.
func Dashboard(w io.Writer, data DashboardData) error {
	view := dashboardView{
		DashboardData: data,
		Ticks:         newestFirst(data.Snap.Tail(models.WebHistoryWindow)),
		Months:        data.Snap.LastMonths(DashboardMonths),
		Uptime:        data.Snap.GeneratedAt.Sub(data.Snap.StartTime).Truncate(time.Second),
	}
	for _, t := range data.Snap.Tail(models.WebHistoryWindow) {
		view.Prices = append(view.Prices, t.Price)
	}
	return templates.ExecuteTemplate(w, "dashboard.html", view)
}

// LoginData feeds the login page.
type LoginData struct {
	Instrument string
	Error      string
}

// Login writes the login form.
func Login(w io.Writer, data LoginData) error {
	return templates.ExecuteTemplate(w, "login.html", data)
}

func reportText(v reportView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Price Report\n", v.Instrument)
	fmt.Fprintf(&b, "Symbol: %s\n", orNA(v.Snap.Symbol))
	fmt.Fprintf(&b, "Report time: %s\n", v.Snap.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(&b, "Monitoring duration: %s\n\n", v.Duration)
	fmt.Fprintf(&b, "Current: $%s  High: $%s  Low: $%s\n\n",
		moneyPtr(v.Snap.CurrentPrice), moneyPtr(v.Snap.HighPrice), moneyPtr(v.Snap.LowPrice))
	if len(v.Months) > 0 {
		b.WriteString("Month     Open      Close     Change %\n")
		for _, m := range v.Months {
			fmt.Fprintf(&b, "%s  %-9s %-9s %s%%\n", m.Month, money(m.Open), money(m.Close), signed(m.ChangePercent))
		}
		b.WriteString("\n")
	}
	b.WriteString("Recent updates:\n")
	for _, t := range v.Table {
		fmt.Fprintf(&b, "%s  $%s  %s (%s%%)\n", t.Timestamp.Format(timeLayout), money(t.Price), signed(t.Change), signed(t.ChangePercent))
	}
	return b.String()
}

func newestFirst(ticks []models.Tick) []models.Tick {
	out := make([]models.Tick, len(ticks))
	for i, t := range ticks {
		out[len(ticks)-1-i] = t
	}
	return out
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func moneyPtr(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return money(*v)
}

func signed(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

func changeColor(v float64) string {
	if v >= 0 {
		return "green"
	}
	return "red"
}

func volume(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f", *v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
