package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/emreacar/kafepos/internal/domain/models"
	"github.com/emreacar/kafepos/internal/service/reporting"
)

// Archive stores the end-of-day snapshot durably.
type Archive interface {
	SaveDailyClose(ctx context.Context, close models.DailyClose) error
}

// Export appends the snapshot to the bookkeeping spreadsheet.
type Export interface {
	AppendDailyClose(ctx context.Context, close models.DailyClose) error
}

// Scheduler runs the daily close: compute today's stats once at closing time
// and hand the snapshot to the configured sinks. Sink failures are logged,
// never fatal — the live views do not depend on the archive.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	archive      Archive
	export       Export
	schedule     string
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. archive and export may be
// nil when the corresponding sink is not configured.
func NewScheduler(schedule string, loc *time.Location, reportingSvc *reporting.Service, archive Archive, export Export, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		archive:      archive,
		export:       export,
		schedule:     schedule,
		logger:       logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDailyClose); err != nil {
		s.logger.Error("failed to schedule daily close", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailyClose() {
	s.logger.Info("running daily close")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stats, err := s.reportingSvc.ComputePeriod(ctx, models.PeriodToday)
	if err != nil {
		s.logger.Error("daily close aborted, stats unavailable", zap.Error(err))
		return
	}

	snapshot := models.NewDailyClose(stats, time.Now())

	if s.archive != nil {
		if err := s.archive.SaveDailyClose(ctx, snapshot); err != nil {
			s.logger.Error("failed to archive daily close", zap.Error(err))
		}
	}

	if s.export != nil {
		if err := s.export.AppendDailyClose(ctx, snapshot); err != nil {
			s.logger.Error("failed to export daily close", zap.Error(err))
		}
	}

	s.logger.Info("daily close completed",
		zap.String("date", snapshot.Date),
		zap.String("net_operating_profit", snapshot.NetOperatingProfit))
}
