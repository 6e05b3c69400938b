package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/market"
	"github.com/guttosm/coffeepulse/internal/notify"
)

// ErrJournalDisabled is returned by ListDeliveries when no delivery journal is configured.
var ErrJournalDisabled = errors.New("service: delivery journal disabled")

// MarketService is the read and command surface the HTTP layer depends on.
type MarketService interface {
	Status() market.Status
	Snapshot(window int) models.ReportSnapshot
	RecentTicks(n int) []models.Tick
	MonthlyTrend() []models.MonthlyTrend
	NextReport() time.Time
	SendTestReport(ctx context.Context) (string, error)
	VerifyMailer(ctx context.Context) error
	ListDeliveries(ctx context.Context, limit int) ([]models.Delivery, error)
}

// StateReader is the subset of market.State used here.
type StateReader interface {
	Status() market.Status
	Snapshot(window int) models.ReportSnapshot
	RecentTicks(n int) []models.Tick
	MonthlyTrend() []models.MonthlyTrend
}

// Scheduler exposes the next daily report fire time.
type Scheduler interface {
	Next() time.Time
}

// DeliveryLister reads the delivery journal.
type DeliveryLister interface {
	ListRecentDeliveries(ctx context.Context, limit int) ([]models.Delivery, error)
}

type marketService struct {
	state    StateReader
	sched    Scheduler
	notifier notify.Notifier
	journal  DeliveryLister
}

// NewMarketService wires the service. journal may be nil.
func NewMarketService(state StateReader, sched Scheduler, n notify.Notifier, journal DeliveryLister) MarketService {
	return &marketService{state: state, sched: sched, notifier: n, journal: journal}
}

func (s *marketService) Status() market.Status {
	return s.state.Status()
}

func (s *marketService) Snapshot(window int) models.ReportSnapshot {
	return s.state.Snapshot(window)
}

func (s *marketService) RecentTicks(n int) []models.Tick {
	return s.state.RecentTicks(n)
}

func (s *marketService) MonthlyTrend() []models.MonthlyTrend {
	return s.state.MonthlyTrend()
}

func (s *marketService) NextReport() time.Time {
	if s.sched == nil {
		return time.Time{}
	}
	return s.sched.Next()
}

// SendTestReport sends a report built from the current state right away.
// It does not touch the once-per-day guard of the scheduler.
func (s *marketService) SendTestReport(ctx context.Context) (string, error) {
	snap := s.state.Snapshot(models.EmailChartWindow)
	id, err := s.notifier.SendReport(ctx, snap)
	if err != nil {
		return "", fmt.Errorf("send test report: %w", err)
	}
	return id, nil
}

func (s *marketService) VerifyMailer(ctx context.Context) error {
	return s.notifier.Verify(ctx)
}

func (s *marketService) ListDeliveries(ctx context.Context, limit int) ([]models.Delivery, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.journal.ListRecentDeliveries(ctx, limit)
}
