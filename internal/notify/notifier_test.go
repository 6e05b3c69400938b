package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []Message
	err    error
	verify error
}

func (f *fakeMailer) Send(_ context.Context, msg Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "<1@test>", nil
}

func (f *fakeMailer) Verify(context.Context) error { return f.verify }

type fakeJournal struct {
	mu  sync.Mutex
	got []models.Delivery
	err error
}

func (f *fakeJournal) RecordDelivery(_ context.Context, d models.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, d)
	return f.err
}

func price(v float64) *float64 { return &v }

func TestEmailNotifier_SendReport(t *testing.T) {
	m := &fakeMailer{}
	n := NewEmailNotifier(m, "Coffee Robusta", []string{"ops@x.io"})
	snap := models.ReportSnapshot{Symbol: "RC1", CurrentPrice: price(4500), GeneratedAt: time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)}

	id, err := n.SendReport(context.Background(), snap)
	if err != nil || id != "<1@test>" {
		t.Fatalf("id=%q err=%v", id, err)
	}
	if len(m.sent) != 1 || !strings.Contains(m.sent[0].Subject, "2025-01-05") || !strings.Contains(m.sent[0].HTML, "$4500.00") {
		t.Fatalf("unexpected message: %+v", m.sent)
	}
}

func TestEmailNotifier_SendAlert(t *testing.T) {
	m := &fakeMailer{}
	n := NewEmailNotifier(m, "Coffee Robusta", []string{"ops@x.io"})
	err := n.SendAlert(context.Background(), models.Alert{Kind: models.AlertLow, Price: 3900, Threshold: 4000})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(m.sent[0].Subject, "LOW PRICE ALERT") {
		t.Fatalf("subject=%q", m.sent[0].Subject)
	}
}

func TestEmailNotifier_NoRecipients(t *testing.T) {
	n := NewEmailNotifier(&fakeMailer{}, "Coffee", nil)
	if _, err := n.SendReport(context.Background(), models.ReportSnapshot{}); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("err=%v", err)
	}
	if err := n.SendAlert(context.Background(), models.Alert{}); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("err=%v", err)
	}
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier("Coffee")
	id, err := n.SendReport(context.Background(), models.ReportSnapshot{CurrentPrice: price(1)})
	if err != nil || !strings.HasPrefix(id, "log-") {
		t.Fatalf("id=%q err=%v", id, err)
	}
	if err := n.SendAlert(context.Background(), models.Alert{Kind: models.AlertHigh}); err != nil {
		t.Fatal(err)
	}
	if err := n.Verify(context.Background()); !errors.Is(err, ErrMailerDisabled) {
		t.Fatalf("err=%v", err)
	}
}

func TestJournaledNotifier_RecordsOutcomes(t *testing.T) {
	m := &fakeMailer{}
	j := &fakeJournal{}
	n := NewJournaledNotifier(NewEmailNotifier(m, "Coffee", []string{"ops@x.io"}), j)

	if _, err := n.SendReport(context.Background(), models.ReportSnapshot{Symbol: "RC1"}); err != nil {
		t.Fatal(err)
	}
	m.err = errors.New("smtp: 554 rejected")
	if err := n.SendAlert(context.Background(), models.Alert{Kind: models.AlertHigh}); err == nil {
		t.Fatalf("expected alert failure")
	}

	if len(j.got) != 2 {
		t.Fatalf("journal entries=%d", len(j.got))
	}
	if j.got[0].Kind != models.DeliveryKindReport || j.got[0].Status != models.DeliveryStatusSent || j.got[0].MessageID != "<1@test>" {
		t.Errorf("report entry=%+v", j.got[0])
	}
	if j.got[1].Status != models.DeliveryStatusFail || !strings.Contains(j.got[1].Detail, "554") {
		t.Errorf("alert entry=%+v", j.got[1])
	}
}

func TestJournaledNotifier_JournalErrorDoesNotFailDelivery(t *testing.T) {
	j := &fakeJournal{err: errors.New("db down")}
	n := NewJournaledNotifier(NewEmailNotifier(&fakeMailer{}, "Coffee", []string{"ops@x.io"}), j)
	if _, err := n.SendReport(context.Background(), models.ReportSnapshot{}); err != nil {
		t.Fatalf("journal error leaked: %v", err)
	}
}

func TestJournaledNotifier_NilJournal(t *testing.T) {
	n := NewJournaledNotifier(NewLogNotifier("Coffee"), nil)
	if _, err := n.SendReport(context.Background(), models.ReportSnapshot{}); err != nil {
		t.Fatal(err)
	}
	if err := n.Verify(context.Background()); !errors.Is(err, ErrMailerDisabled) {
		t.Fatalf("err=%v", err)
	}
}
