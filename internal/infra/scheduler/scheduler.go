package scheduler

import (
	"context"
	"sync"
	"time"

	"childcare_summary_service/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// jobTimeout bounds one full run across every classroom.
const jobTimeout = 30 * time.Minute

// SummaryScheduler triggers the daily classroom fan-out on a cron spec.
type SummaryScheduler struct {
	cronEngine    *cron.Cron
	batchService  app.BatchService // Using the interface
	logger        *logrus.Logger
	cronSpecDaily string
	running       sync.Mutex // run-in-progress guard against overlapping ticks
}

func NewSummaryScheduler(
	batchService app.BatchService,
	logger *logrus.Logger,
	cronSpecDaily string, // e.g., "0 17 * * 1-5" (5 PM on weekdays)
) *SummaryScheduler {
	return &SummaryScheduler{
		cronEngine:    cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		batchService:  batchService,
		logger:        logger,
		cronSpecDaily: cronSpecDaily,
	}
}

func (s *SummaryScheduler) Start() {
	s.logger.Info("Starting summary scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecDaily, func() {
		s.logger.Info("Cron job triggered for daily summaries.")
		s.runOnce()
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add daily summary cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Info("Summary scheduler started.")
}

// runOnce executes one fan-out across all classrooms. If the previous run is
// still in progress the tick is skipped.
func (s *SummaryScheduler) runOnce() {
	if !s.running.TryLock() {
		s.logger.Warn("Previous daily summary run still in progress, skipping this tick.")
		return
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.batchService.RunDailySummaries(ctx); err != nil {
		s.logger.WithError(err).Error("Error during scheduled daily summary run")
		return
	}
	s.logger.Info("Scheduled daily summary run completed.")
}

func (s *SummaryScheduler) Stop() {
	s.logger.Info("Stopping summary scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Summary scheduler gracefully stopped.")
}
