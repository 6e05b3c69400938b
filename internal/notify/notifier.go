package notify

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/logger"
	"github.com/guttosm/coffeepulse/internal/render"
)

// ErrMailerDisabled is returned by Verify when e-mail delivery is switched off.
var ErrMailerDisabled = errors.New("notify: e-mail delivery disabled")

// Notifier delivers daily reports and price alerts.
type Notifier interface {
	SendReport(ctx context.Context, snap models.ReportSnapshot) (string, error)
	SendAlert(ctx context.Context, alert models.Alert) error
	Verify(ctx context.Context) error
}

// EmailNotifier renders reports and alerts to HTML and mails them.
type EmailNotifier struct {
	mailer     Mailer
	to         []string
	instrument string
}

// NewEmailNotifier builds a notifier sending to recipients.
func NewEmailNotifier(m Mailer, instrument string, recipients []string) *EmailNotifier {
	return &EmailNotifier{mailer: m, to: recipients, instrument: instrument}
}

func (n *EmailNotifier) SendReport(ctx context.Context, snap models.ReportSnapshot) (string, error) {
	if len(n.to) == 0 {
		return "", ErrNoRecipients
	}
	email, err := render.ReportEmail(n.instrument, snap)
	if err != nil {
		return "", err
	}
	return n.mailer.Send(ctx, Message{To: n.to, Subject: email.Subject, HTML: email.HTML, Text: email.Text})
}

func (n *EmailNotifier) SendAlert(ctx context.Context, alert models.Alert) error {
	if len(n.to) == 0 {
		return ErrNoRecipients
	}
	email, err := render.AlertEmail(n.instrument, alert)
	if err != nil {
		return err
	}
	_, err = n.mailer.Send(ctx, Message{To: n.to, Subject: email.Subject, HTML: email.HTML, Text: email.Text})
	return err
}

// Verify checks the SMTP account without sending anything.
func (n *EmailNotifier) Verify(ctx context.Context) error {
	return n.mailer.Verify(ctx)
}

// LogNotifier writes reports and alerts to the log instead of mailing them.
type LogNotifier struct {
	instrument string
}

func NewLogNotifier(instrument string) *LogNotifier {
	return &LogNotifier{instrument: instrument}
}

func (n *LogNotifier) SendReport(_ context.Context, snap models.ReportSnapshot) (string, error) {
	id := "log-" + uuid.NewString()
	lg := logger.Component("notify")
	ev := lg.Info().
		Str("message_id", id).
		Str("instrument", n.instrument).
		Str("symbol", snap.Symbol).
		Int("total_ticks", snap.TotalTicks).
		Int("months", len(snap.MonthlyTrend))
	if snap.CurrentPrice != nil {
		ev = ev.Float64("price", *snap.CurrentPrice)
	}
	ev.Msg("daily report (e-mail disabled)")
	return id, nil
}

func (n *LogNotifier) SendAlert(_ context.Context, alert models.Alert) error {
	lg := logger.Component("notify")
	lg.Info().
		Str("instrument", n.instrument).
		Str("kind", alert.Kind.String()).
		Float64("price", alert.Price).
		Float64("threshold", alert.Threshold).
		Msg("price alert (e-mail disabled)")
	return nil
}

func (n *LogNotifier) Verify(context.Context) error {
	return ErrMailerDisabled
}

// Journal persists delivery outcomes.
type Journal interface {
	RecordDelivery(ctx context.Context, d models.Delivery) error
}
