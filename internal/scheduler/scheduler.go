package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
	client "github.com/mamadbah2/poultry-api/pkg/clients/whatsapp"
)

const jobTimeout = 2 * time.Minute

// Reporter is the part of the reporting service the scheduler drives.
type Reporter interface {
	DailyIngestionSummary(ctx context.Context, day time.Time) (models.IngestionSummary, error)
	ExportSummary(ctx context.Context, summary models.IngestionSummary) error
}

// Options configures the daily summary job.
type Options struct {
	Schedule  string
	Location  *time.Location
	Recipient string
	Format    func(models.IngestionSummary) models.OutboundMessage
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	opts     Options
	reporter Reporter
	sender   client.Client
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. sender may be nil, in which case the
// summary is only exported.
func NewScheduler(opts Options, reporter Reporter, sender client.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	// Standard 5-field cron expressions evaluated in the farm's timezone.
	c := cron.New(cron.WithLocation(opts.Location))

	return &Scheduler{
		cron:     c,
		opts:     opts,
		reporter: reporter,
		sender:   sender,
		now:      time.Now,
		logger:   logger,
	}
}

// Start registers the daily summary job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.opts.Schedule), zap.String("timezone", s.opts.Location.String()))

	if _, err := s.cron.AddFunc(s.opts.Schedule, s.sendDailySummary); err != nil {
		return fmt.Errorf("schedule daily summary %q: %w", s.opts.Schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunDailySummary(ctx); err != nil {
		s.logger.Error("daily summary failed", zap.Error(err))
	}
}

// RunDailySummary builds today's summary, sends it over WhatsApp and exports it.
// Delivery and export are attempted independently.
func (s *Scheduler) RunDailySummary(ctx context.Context) error {
	s.logger.Info("generating daily ingestion summary")

	summary, err := s.reporter.DailyIngestionSummary(ctx, s.now())
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}

	var errs []error

	if s.sender != nil && s.opts.Recipient != "" && s.opts.Format != nil {
		msg := s.opts.Format(summary)
		_, err := s.sender.SendTextMessage(ctx, client.SendTextMessageRequest{
			To:   s.opts.Recipient,
			Body: msg.Text(),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("send summary: %w", err))
		} else {
			s.logger.Info("daily summary sent", zap.Int64("total", summary.Total()))
		}
	}

	if err := s.reporter.ExportSummary(ctx, summary); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
