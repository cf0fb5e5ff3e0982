package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/boutique/internal/config"
	"github.com/mamadbah2/boutique/internal/domain/models"
)

type fakeCloser struct{ days []time.Time }

func (f *fakeCloser) CloseDay(_ context.Context, day time.Time) (models.DailyReport, error) {
	f.days = append(f.days, day)
	return models.DailyReport{Date: day, Sales: decimal.Zero}, nil
}

type fakeDigest struct {
	text string
	err  error
}

func (f fakeDigest) Digest(context.Context) (string, error) { return f.text, f.err }

type fakeNotifier struct {
	to, message []string
}

func (f *fakeNotifier) Notify(_ context.Context, to, message string) error {
	f.to = append(f.to, to)
	f.message = append(f.message, message)
	return nil
}

func testConfig(owner string) config.Config {
	var cfg config.Config
	cfg.Reporting.CronSchedule = "0 21 * * *"
	cfg.Reporting.StockDigestSchedule = "0 9 * * *"
	cfg.WhatsApp.OwnerID = owner
	return cfg
}

func TestCloseDay(t *testing.T) {
	closer := &fakeCloser{}
	s := NewScheduler(testConfig(""), time.UTC, closer, fakeDigest{}, nil, nil)
	at := time.Date(2025, 10, 6, 21, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	s.closeDay()

	if len(closer.days) != 1 || !closer.days[0].Equal(at) {
		t.Errorf("CloseDay calls = %v", closer.days)
	}
}

func TestSendStockDigest(t *testing.T) {
	tests := []struct {
		name     string
		owner    string
		digest   fakeDigest
		wantSent int
	}{
		{"sent to owner", "201000000000", fakeDigest{text: "Stock check"}, 1},
		{"no owner configured", "", fakeDigest{text: "Stock check"}, 0},
		{"digest failure", "201000000000", fakeDigest{err: errors.New("boom")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			s := NewScheduler(testConfig(tt.owner), time.UTC, &fakeCloser{}, tt.digest, notifier, nil)

			s.sendStockDigest()

			if len(notifier.to) != tt.wantSent {
				t.Fatalf("sent %d messages, want %d", len(notifier.to), tt.wantSent)
			}
			if tt.wantSent == 1 && (notifier.to[0] != tt.owner || notifier.message[0] != "Stock check") {
				t.Errorf("sent %q to %q", notifier.message[0], notifier.to[0])
			}
		})
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := testConfig("")
	cfg.Reporting.CronSchedule = "every day"
	s := NewScheduler(cfg, time.UTC, &fakeCloser{}, fakeDigest{}, nil, nil)

	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("Start() accepted an invalid schedule")
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(testConfig(""), time.UTC, &fakeCloser{}, fakeDigest{}, nil, nil)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
	s.Stop()
}
