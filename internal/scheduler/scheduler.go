package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/boutique/internal/config"
	"github.com/mamadbah2/boutique/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// DayCloser stores the end-of-day report.
type DayCloser interface {
	CloseDay(ctx context.Context, day time.Time) (models.DailyReport, error)
}

// DigestSource builds the low stock digest.
type DigestSource interface {
	Digest(ctx context.Context) (string, error)
}

// Notifier delivers the digest to the owner.
type Notifier interface {
	Notify(ctx context.Context, to, message string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	reporting DayCloser
	stock     DigestSource
	notifier  Notifier
	cfg       config.Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a scheduler running in loc. notifier may be nil, in
// which case the stock digest is only logged.
func NewScheduler(cfg config.Config, loc *time.Location, reporting DayCloser, stock DigestSource, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reporting: reporting,
		stock:     stock,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("report_schedule", s.cfg.Reporting.CronSchedule),
		zap.String("digest_schedule", s.cfg.Reporting.StockDigestSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.closeDay); err != nil {
		return fmt.Errorf("schedule daily report: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.Reporting.StockDigestSchedule, s.sendStockDigest); err != nil {
		return fmt.Errorf("schedule stock digest: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) closeDay() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.reporting.CloseDay(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to close the day", zap.Error(err))
		return
	}

	s.logger.Info("daily report stored",
		zap.Time("date", report.Date),
		zap.Int("invoices", report.InvoiceCount),
		zap.String("sales", report.Sales.StringFixed(2)))
}

func (s *Scheduler) sendStockDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	digest, err := s.stock.Digest(ctx)
	if err != nil {
		s.logger.Error("failed to build stock digest", zap.Error(err))
		return
	}

	if s.notifier == nil || s.cfg.WhatsApp.OwnerID == "" {
		s.logger.Info("stock digest", zap.String("digest", digest))
		return
	}

	if err := s.notifier.Notify(ctx, s.cfg.WhatsApp.OwnerID, digest); err != nil {
		s.logger.Error("failed to send stock digest", zap.Error(err))
	} else {
		s.logger.Info("stock digest sent successfully")
	}
}
