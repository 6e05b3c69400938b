package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/logger"
	"github.com/guttosm/coffeepulse/internal/metrics"
)

// JournaledNotifier counts every delivery attempt and, when a journal is
// set, records its outcome. Journal failures are logged and never turn a
// successful delivery into an error.
type JournaledNotifier struct {
	next    Notifier
	journal Journal
	now     func() time.Time
}

// NewJournaledNotifier wraps next. journal may be nil.
func NewJournaledNotifier(next Notifier, journal Journal) *JournaledNotifier {
	return &JournaledNotifier{next: next, journal: journal, now: time.Now}
}

func (j *JournaledNotifier) SendReport(ctx context.Context, snap models.ReportSnapshot) (string, error) {
	id, err := j.next.SendReport(ctx, snap)
	j.record(ctx, models.DeliveryKindReport, id, snap.Symbol, err)
	return id, err
}

func (j *JournaledNotifier) SendAlert(ctx context.Context, alert models.Alert) error {
	err := j.next.SendAlert(ctx, alert)
	j.record(ctx, models.DeliveryKindAlert, "", alert.Kind.String()+" "+alert.Symbol, err)
	return err
}

func (j *JournaledNotifier) Verify(ctx context.Context) error {
	return j.next.Verify(ctx)
}

func (j *JournaledNotifier) record(ctx context.Context, kind, messageID, detail string, sendErr error) {
	status := models.DeliveryStatusSent
	if sendErr != nil {
		status = models.DeliveryStatusFail
		detail = sendErr.Error()
	}
	metrics.ObserveDelivery(kind, status)

	if j.journal == nil {
		return
	}
	d := models.Delivery{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    status,
		MessageID: messageID,
		Detail:    detail,
		CreatedAt: j.now().UTC(),
	}
	// the send context may already be exhausted by a slow SMTP server
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := j.journal.RecordDelivery(jctx, d); err != nil {
		lg := logger.Component("notify")
		lg.Error().Err(err).Str("kind", kind).Str("status", status).Msg("failed to journal delivery")
	}
}
