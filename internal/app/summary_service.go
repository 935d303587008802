package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"childcare_summary_service/internal/domain/activity"
	"childcare_summary_service/internal/domain/child"
	"childcare_summary_service/internal/domain/llm"
	"childcare_summary_service/internal/domain/summary"
	idb "childcare_summary_service/internal/infra/database"
	"childcare_summary_service/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

const (
	summaryMaxTokens   = 600
	sentimentMaxTokens = 100

	noActivitiesNarrative  = "No activities were logged today."
	childNotFoundNarrative = "Child not found."
)

// SummaryService generates daily narratives and classifies message sentiment.
type SummaryService interface {
	// GenerateDailySummary builds the narrative, highlights and stats for one
	// child's day without persisting anything. It fails only on storage errors;
	// an empty day or a missing child yields a fixed placeholder result.
	GenerateDailySummary(ctx context.Context, childID string, date time.Time) (*summary.GenerationResult, error)
	// SaveDailySummary generates and upserts the summary for (childID, date).
	SaveDailySummary(ctx context.Context, childID, organizationID string, date time.Time) (*summary.DailySummary, error)
	// AnalyzeMessageSentiment classifies one free-text parent message. It never
	// fails: any model problem collapses into the neutral default.
	AnalyzeMessageSentiment(ctx context.Context, content string) *summary.SentimentResult
}

// SummaryServiceImpl implements SummaryService.
type SummaryServiceImpl struct {
	activityRepo activity.Repository
	childRepo    child.Repository
	summaryRepo  summary.Repository
	model        llm.Client
	modelName    string
	modelTimeout time.Duration
	logger       *logrus.Logger
}

func NewSummaryService(
	ar activity.Repository,
	cr child.Repository,
	sr summary.Repository,
	model llm.Client,
	modelName string,
	modelTimeout time.Duration,
	logger *logrus.Logger,
) *SummaryServiceImpl {
	return &SummaryServiceImpl{
		activityRepo: ar,
		childRepo:    cr,
		summaryRepo:  sr,
		model:        model,
		modelName:    modelName,
		modelTimeout: modelTimeout,
		logger:       logger,
	}
}

func (s *SummaryServiceImpl) GenerateDailySummary(ctx context.Context, childID string, date time.Time) (*summary.GenerationResult, error) {
	activities, err := s.activityRepo.ListForChildOnDate(ctx, childID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities for child %s: %w", childID, err)
	}

	if len(activities) == 0 {
		return &summary.GenerationResult{
			SummaryText: noActivitiesNarrative,
			Highlights:  []string{},
			Stats:       summary.Stats{},
			Model:       summary.ModelFallback,
		}, nil
	}

	profile, err := s.childRepo.GetByID(ctx, childID)
	if err != nil {
		if err == idb.ErrChildNotFound {
			// Soft placeholder rather than a hard failure; callers that need a
			// strict not-found check validate existence before calling.
			return &summary.GenerationResult{
				SummaryText: childNotFoundNarrative,
				Highlights:  []string{},
				Stats:       summary.Stats{},
				Model:       summary.ModelFallback,
			}, nil
		}
		return nil, fmt.Errorf("failed to get child %s: %w", childID, err)
	}

	activitiesText := renderActivities(activities)
	stats := computeStats(activities)
	childName := profile.DisplayName()

	summaryText, modelUsed := s.narrate(ctx, childName, profile.LastName, date, activitiesText, stats.TotalActivities)

	highlights := []string{}
	for _, a := range activities {
		if a.Kind == activity.KindMilestone && a.MilestoneName.Valid && a.MilestoneName.String != "" {
			highlights = append(highlights, "Milestone: "+a.MilestoneName.String)
		}
	}

	return &summary.GenerationResult{
		SummaryText: summaryText,
		Highlights:  highlights,
		Stats:       stats,
		Model:       modelUsed,
	}, nil
}

// narrate produces the narrative text and the model identifier that produced
// it. Any model failure falls back to the deterministic template and is never
// surfaced to the caller.
func (s *SummaryServiceImpl) narrate(ctx context.Context, childName, lastName string, date time.Time, activitiesText string, total int) (string, string) {
	if !s.model.Enabled() {
		return templateNarrative(childName, total), summary.ModelFallback
	}

	callCtx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	prompt := buildSummaryPrompt(childName, lastName, date, activitiesText)
	text, err := s.model.Complete(callCtx, prompt, summaryMaxTokens)
	if err != nil {
		metrics.ModelCalls.WithLabelValues("failure").Inc()
		s.logger.WithError(err).Warnf("Model generation failed for %s, using template", childName)
		return templateNarrative(childName, total), summary.ModelFallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.ModelCalls.WithLabelValues("failure").Inc()
		s.logger.Warnf("Model returned empty narrative for %s, using template", childName)
		return templateNarrative(childName, total), summary.ModelFallback
	}

	metrics.ModelCalls.WithLabelValues("success").Inc()
	return text, s.modelName
}

func (s *SummaryServiceImpl) SaveDailySummary(ctx context.Context, childID, organizationID string, date time.Time) (*summary.DailySummary, error) {
	res, err := s.GenerateDailySummary(ctx, childID, date)
	if err != nil {
		return nil, err
	}

	saved, err := s.summaryRepo.Upsert(ctx, childID, organizationID, summary.DayOf(date), res)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert summary for child %s: %w", childID, err)
	}
	return saved, nil
}

func (s *SummaryServiceImpl) AnalyzeMessageSentiment(ctx context.Context, content string) *summary.SentimentResult {
	if !s.model.Enabled() {
		return summary.NeutralSentiment()
	}

	callCtx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	text, err := s.model.Complete(callCtx, buildSentimentPrompt(content), sentimentMaxTokens)
	if err != nil {
		metrics.ModelCalls.WithLabelValues("failure").Inc()
		s.logger.WithError(err).Warn("Sentiment model call failed, returning neutral default")
		return summary.NeutralSentiment()
	}
	metrics.ModelCalls.WithLabelValues("success").Inc()

	var res summary.SentimentResult
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &res); err != nil {
		s.logger.WithError(err).Warn("Sentiment response was not valid JSON, returning neutral default")
		return summary.NeutralSentiment()
	}
	return &res
}

// renderActivities produces the compact per-line description embedded in the
// model prompt: timestamp, kind and whichever kind-specific details are set.
func renderActivities(activities []*activity.Event) string {
	lines := make([]string, 0, len(activities))
	for _, a := range activities {
		var b strings.Builder
		fmt.Fprintf(&b, "[%s] %s", a.OccurredAt.Format("3:04 PM"), a.Kind)
		if a.Title.Valid && a.Title.String != "" {
			b.WriteString(": " + a.Title.String)
		}
		if a.Description.Valid && a.Description.String != "" {
			b.WriteString(" — " + a.Description.String)
		}
		if a.MealType.Valid {
			amount := "unknown"
			if a.MealAmount.Valid && a.MealAmount.String != "" {
				amount = a.MealAmount.String
			}
			fmt.Fprintf(&b, " (%s, ate: %s)", a.MealType.String, amount)
		}
		if mins, ok := a.NapMinutes(); ok {
			quality := "normal"
			if a.NapQuality.Valid && a.NapQuality.String != "" {
				quality = a.NapQuality.String
			}
			fmt.Fprintf(&b, " (%d minutes, %s)", mins, quality)
		}
		if a.DiaperType.Valid {
			fmt.Fprintf(&b, " (%s)", a.DiaperType.String)
		}
		if a.Mood.Valid {
			b.WriteString(" — mood: " + a.Mood.String)
		}
		if a.MilestoneName.Valid && a.MilestoneName.String != "" {
			b.WriteString(" MILESTONE: " + a.MilestoneName.String)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func computeStats(activities []*activity.Event) summary.Stats {
	stats := summary.Stats{TotalActivities: len(activities)}
	for _, a := range activities {
		if a.Kind == activity.KindMeal || a.Kind == activity.KindSnack {
			stats.MealsEaten++
		}
		if mins, ok := a.NapMinutes(); ok {
			stats.NapMinutes += mins
		}
		if a.MediaCount > 0 {
			stats.PhotosCount++
		}
	}
	return stats
}

func templateNarrative(childName string, total int) string {
	return fmt.Sprintf("%s had a great day with %d activities logged. Check the timeline for full details.", childName, total)
}

func buildSummaryPrompt(childName, lastName string, date time.Time, activitiesText string) string {
	return fmt.Sprintf(`You are a warm, professional childcare daily report writer. Write a daily summary for a parent about their child's day.

Child's name: %s %s
Date: %s

Today's activities:
%s

Write 3-5 warm paragraphs. Highlight milestones. Mention meals and nap duration. Keep it under 200 words.`,
		childName, lastName, date.Format("Monday, January 2, 2006"), activitiesText)
}

func buildSentimentPrompt(content string) string {
	return fmt.Sprintf(`Analyze this parent message from a childcare app. Respond with ONLY a JSON object.

Message: "%s"

JSON format:
{"sentiment": "positive|neutral|negative|concerned", "requiresResponse": true|false, "confidence": 0.0-1.0}`, content)
}

// stripCodeFences removes markdown code-fence wrapping that models sometimes
// add around JSON output.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
