package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"childcare_summary_service/internal/domain/child"
	"childcare_summary_service/internal/domain/classroom"
	"childcare_summary_service/internal/domain/summary"
	"childcare_summary_service/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// BatchService fans summary generation out across classrooms and children.
type BatchService interface {
	// GenerateForClassroom generates and persists a summary for every enrolled
	// child in the classroom. One child's failure never aborts the rest; the
	// aggregate result lists every outcome in stable child order.
	GenerateForClassroom(ctx context.Context, classroomID, organizationID string, date time.Time) (*summary.BatchResult, error)
	// RunDailySummaries runs the classroom fan-out for every active classroom
	// for today. Invoked by the daily scheduler and callable directly by tests.
	RunDailySummaries(ctx context.Context) error
}

// BatchServiceImpl implements BatchService.
type BatchServiceImpl struct {
	childRepo     child.Repository
	classroomRepo classroom.Repository
	summaries     SummaryService
	concurrency   int
	logger        *logrus.Logger
}

func NewBatchService(
	cr child.Repository,
	clr classroom.Repository,
	summaries SummaryService,
	concurrency int,
	logger *logrus.Logger,
) *BatchServiceImpl {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchServiceImpl{
		childRepo:     cr,
		classroomRepo: clr,
		summaries:     summaries,
		concurrency:   concurrency,
		logger:        logger,
	}
}

func (s *BatchServiceImpl) GenerateForClassroom(ctx context.Context, classroomID, organizationID string, date time.Time) (*summary.BatchResult, error) {
	children, err := s.childRepo.ListEnrolled(ctx, classroomID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled children for classroom %s: %w", classroomID, err)
	}

	// Results are indexed by child position so the aggregate keeps the stable
	// child-list order no matter which generations finish first.
	results := make([]summary.ChildResult, len(children))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, c := range children {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, c *child.Profile) {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := s.summaries.SaveDailySummary(ctx, c.ID, organizationID, date); err != nil {
				s.logger.WithError(err).Errorf("Failed to generate summary for %s", c.FirstName)
				metrics.SummariesGenerated.WithLabelValues("error").Inc()
				results[i] = summary.ChildResult{ChildID: c.ID, Name: c.FullName(), Status: "error", Error: err.Error()}
				return
			}
			metrics.SummariesGenerated.WithLabelValues("success").Inc()
			results[i] = summary.ChildResult{ChildID: c.ID, Name: c.FullName(), Status: "success"}
		}(i, c)
	}
	wg.Wait()

	generated := 0
	for _, r := range results {
		if r.Status == "success" {
			generated++
		}
	}

	return &summary.BatchResult{Generated: generated, Total: len(children), Results: results}, nil
}

func (s *BatchServiceImpl) RunDailySummaries(ctx context.Context) error {
	s.logger.Info("Starting scheduled daily summary generation...")

	classrooms, err := s.classroomRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active classrooms: %w", err)
	}

	today := summary.DayOf(time.Now())
	for _, room := range classrooms {
		res, err := s.GenerateForClassroom(ctx, room.ID, room.OrganizationID, today)
		if err != nil {
			s.logger.WithError(err).Errorf("Failed for %s", room.Name)
			continue
		}
		s.logger.Infof("Generated summaries for %s (%d/%d)", room.Name, res.Generated, res.Total)
	}
	return nil
}
