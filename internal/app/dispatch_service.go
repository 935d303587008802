package app

import (
	"context"
	"fmt"
	"time"

	"childcare_summary_service/internal/domain/child"
	"childcare_summary_service/internal/domain/notification"
	"childcare_summary_service/internal/domain/summary"
	domainTelegram "childcare_summary_service/internal/domain/telegram"
	"childcare_summary_service/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultChannel = "push"

// DispatchService converts a persisted summary into guardian notifications.
type DispatchService interface {
	// SendToParents creates one notification record per guardian of the
	// summarized child and marks the summary sent. It returns the number of
	// guardians notified. A summary that was already sent dispatches nothing.
	SendToParents(ctx context.Context, summaryID string) (int, error)
}

// DispatchServiceImpl implements DispatchService.
type DispatchServiceImpl struct {
	summaryRepo summary.Repository
	childRepo   child.Repository
	notifRepo   notification.Repository
	telegram    domainTelegram.Client // nil when no bot token is configured
	bodyLimit   int
	logger      *logrus.Logger
}

func NewDispatchService(
	sr summary.Repository,
	cr child.Repository,
	nr notification.Repository,
	tg domainTelegram.Client,
	bodyLimit int,
	logger *logrus.Logger,
) *DispatchServiceImpl {
	return &DispatchServiceImpl{
		summaryRepo: sr,
		childRepo:   cr,
		notifRepo:   nr,
		telegram:    tg,
		bodyLimit:   bodyLimit,
		logger:      logger,
	}
}

func (s *DispatchServiceImpl) SendToParents(ctx context.Context, summaryID string) (int, error) {
	sum, err := s.summaryRepo.GetByID(ctx, summaryID)
	if err != nil {
		return 0, err
	}

	if sum.SentToParents {
		s.logger.Infof("Summary %s already sent to parents, skipping dispatch", summaryID)
		return 0, nil
	}

	profile, err := s.childRepo.GetByID(ctx, sum.ChildID)
	if err != nil {
		return 0, fmt.Errorf("failed to get child %s for summary %s: %w", sum.ChildID, summaryID, err)
	}

	guardians, err := s.childRepo.ListGuardians(ctx, sum.ChildID)
	if err != nil {
		return 0, fmt.Errorf("failed to list guardians for child %s: %w", sum.ChildID, err)
	}

	title := fmt.Sprintf("%s's Daily Summary", profile.FirstName)
	body := truncateBody(sum.SummaryText, s.bodyLimit)
	now := time.Now()

	for _, g := range guardians {
		channel := g.Channel
		if channel == "" {
			channel = defaultChannel
		}
		rec := &notification.Record{
			ID:             uuid.NewString(),
			UserID:         g.UserID,
			OrganizationID: sum.OrganizationID,
			Channel:        channel,
			Title:          title,
			Body:           body,
			ActionType:     notification.ActionOpenSummary,
			ReferenceID:    sum.ID,
			ReferenceType:  notification.ReferenceTypeDailySummary,
			SentAt:         now,
		}
		if err := s.notifRepo.Create(ctx, rec); err != nil {
			return 0, fmt.Errorf("failed to create notification for guardian %s: %w", g.UserID, err)
		}
		metrics.NotificationsSent.Inc()

		// Best-effort push to guardians with a linked Telegram chat. A delivery
		// failure must not fail the dispatch.
		if s.telegram != nil && g.TelegramChatID.Valid {
			msg := title + "\n\n" + sum.SummaryText
			if err := s.telegram.SendMessage(g.TelegramChatID.Int64, msg, nil); err != nil {
				s.logger.WithError(err).Warnf("Failed to push summary %s to Telegram chat %d", summaryID, g.TelegramChatID.Int64)
			}
		}
	}

	if err := s.summaryRepo.MarkSent(ctx, summaryID); err != nil {
		return 0, fmt.Errorf("failed to mark summary %s sent: %w", summaryID, err)
	}

	return len(guardians), nil
}

// truncateBody caps the notification body at limit runes and appends an
// ellipsis marker.
func truncateBody(text string, limit int) string {
	runes := []rune(text)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}
