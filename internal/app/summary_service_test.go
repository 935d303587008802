package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"childcare_summary_service/internal/domain/activity"
	"childcare_summary_service/internal/domain/child"
	"childcare_summary_service/internal/domain/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)

func mealEvent(at time.Time, kind activity.Kind, mealType string) *activity.Event {
	return &activity.Event{
		ID:         fmt.Sprintf("act-%d", at.Unix()),
		ChildID:    "child-1",
		Kind:       kind,
		OccurredAt: at,
		MealType:   nullStr(mealType),
		MealAmount: nullStr("most"),
	}
}

func napEvent(at time.Time, d time.Duration) *activity.Event {
	return &activity.Event{
		ID:           fmt.Sprintf("nap-%d", at.Unix()),
		ChildID:      "child-1",
		Kind:         activity.KindNap,
		OccurredAt:   at,
		NapStartTime: nullTime(at),
		NapEndTime:   nullTime(at.Add(d)),
	}
}

func milestoneEvent(at time.Time, name string) *activity.Event {
	e := &activity.Event{
		ID:         fmt.Sprintf("mile-%d", at.Unix()),
		ChildID:    "child-1",
		Kind:       activity.KindMilestone,
		OccurredAt: at,
	}
	if name != "" {
		e.MilestoneName = nullStr(name)
	}
	return e
}

func newSummaryFixture(events []*activity.Event, model *fakeModel) (*SummaryServiceImpl, *fakeSummaryRepo) {
	activityRepo := &fakeActivityRepo{events: map[string][]*activity.Event{"child-1": events}}
	childRepo := &fakeChildRepo{profiles: map[string]*child.Profile{
		"child-1": {
			ID:             "child-1",
			OrganizationID: "org-1",
			FirstName:      "Amelia",
			LastName:       "Ng",
			PreferredName:  nullStr("Ava"),
		},
	}}
	summaryRepo := newFakeSummaryRepo()
	svc := NewSummaryService(activityRepo, childRepo, summaryRepo, model, "claude-sonnet-4-20250514", time.Second, newTestLogger())
	return svc, summaryRepo
}

func TestGenerateDailySummary_NoActivities(t *testing.T) {
	model := &fakeModel{enabled: true, response: "should not be used"}
	svc, _ := newSummaryFixture(nil, model)

	res, err := svc.GenerateDailySummary(context.Background(), "child-1", testDay)
	require.NoError(t, err)

	assert.Equal(t, "No activities were logged today.", res.SummaryText)
	assert.Empty(t, res.Highlights)
	assert.Equal(t, summary.Stats{}, res.Stats)
	assert.Equal(t, summary.ModelFallback, res.Model)
	assert.Equal(t, 0, model.calls, "empty day must short-circuit before any model call")
}

func TestGenerateDailySummary_ChildNotFound(t *testing.T) {
	events := []*activity.Event{mealEvent(testDay.Add(12*time.Hour), activity.KindMeal, "lunch")}
	activityRepo := &fakeActivityRepo{events: map[string][]*activity.Event{"ghost": events}}
	childRepo := &fakeChildRepo{profiles: map[string]*child.Profile{}}
	svc := NewSummaryService(activityRepo, childRepo, newFakeSummaryRepo(), &fakeModel{}, "m", time.Second, newTestLogger())

	res, err := svc.GenerateDailySummary(context.Background(), "ghost", testDay)
	require.NoError(t, err, "missing child is a soft placeholder, not a failure")
	assert.Equal(t, "Child not found.", res.SummaryText)
	assert.Equal(t, summary.Stats{}, res.Stats)
}

func TestGenerateDailySummary_TemplateWithoutModel(t *testing.T) {
	events := []*activity.Event{
		mealEvent(testDay.Add(8*time.Hour), activity.KindMeal, "breakfast"),
		napEvent(testDay.Add(12*time.Hour), 45*time.Minute),
		milestoneEvent(testDay.Add(15*time.Hour), "First steps"),
	}
	model := &fakeModel{enabled: false}
	svc, _ := newSummaryFixture(events, model)

	res, err := svc.GenerateDailySummary(context.Background(), "child-1", testDay)
	require.NoError(t, err)

	assert.Equal(t, "Ava had a great day with 3 activities logged. Check the timeline for full details.", res.SummaryText)
	assert.Equal(t, summary.ModelFallback, res.Model)
	assert.Equal(t, 0, model.calls)
}

func TestGenerateDailySummary_ModelNarrative(t *testing.T) {
	events := []*activity.Event{
		mealEvent(testDay.Add(8*time.Hour), activity.KindMeal, "breakfast"),
		milestoneEvent(testDay.Add(15*time.Hour), "First steps"),
	}
	model := &fakeModel{enabled: true, response: "Ava had a wonderful morning full of discovery."}
	svc, _ := newSummaryFixture(events, model)

	res, err := svc.GenerateDailySummary(context.Background(), "child-1", testDay)
	require.NoError(t, err)

	assert.Equal(t, "Ava had a wonderful morning full of discovery.", res.SummaryText)
	assert.Equal(t, "claude-sonnet-4-20250514", res.Model)
	assert.Equal(t, 1, model.calls)
	assert.Contains(t, model.lastPrompt, "Child's name: Ava Ng")
	assert.Contains(t, model.lastPrompt, "Monday, March 9, 2026")
	assert.Contains(t, model.lastPrompt, "MILESTONE: First steps")
	assert.Contains(t, model.lastPrompt, "(breakfast, ate: most)")
}

func TestGenerateDailySummary_ModelFailureFallsBack(t *testing.T) {
	events := []*activity.Event{
		mealEvent(testDay.Add(8*time.Hour), activity.KindMeal, "breakfast"),
		mealEvent(testDay.Add(10*time.Hour), activity.KindSnack, "snack"),
	}
	model := &fakeModel{enabled: true, err: fmt.Errorf("upstream timeout")}
	svc, _ := newSummaryFixture(events, model)

	res, err := svc.GenerateDailySummary(context.Background(), "child-1", testDay)
	require.NoError(t, err, "model failure must never cross the component boundary")

	assert.Equal(t, "Ava had a great day with 2 activities logged. Check the timeline for full details.", res.SummaryText)
	assert.Equal(t, summary.ModelFallback, res.Model)
	assert.Equal(t, 1, model.calls)
}

func TestGenerateDailySummary_ModelTimeoutFallsBack(t *testing.T) {
	events := []*activity.Event{mealEvent(testDay.Add(8*time.Hour), activity.KindMeal, "breakfast")}
	activityRepo := &fakeActivityRepo{events: map[string][]*activity.Event{"child-1": events}}
	childRepo := &fakeChildRepo{profiles: map[string]*child.Profile{
		"child-1": {ID: "child-1", OrganizationID: "org-1", FirstName: "Amelia", LastName: "Ng"},
	}}
	model := &stallingModel{}
	svc := NewSummaryService(activityRepo, childRepo, newFakeSummaryRepo(), model, "m", 20*time.Millisecond, newTestLogger())

	res, err := svc.GenerateDailySummary(context.Background(), "child-1", testDay)
	require.NoError(t, err, "a hung model call must degrade to the template, not block or fail")

	assert.Equal(t, "Amelia had a great day with 1 activities logged. Check the timeline for full details.", res.SummaryText)
	assert.Equal(t, summary.ModelFallback, res.Model)
	assert.Equal(t, 1, model.calls)
}

func TestGenerateDailySummary_Stats(t *testing.T) {
	photoEvent := &activity.Event{
		ID:         "act-photo",
		ChildID:    "child-1",
		Kind:       activity.KindGeneral,
		OccurredAt: testDay.Add(9 * time.Hour),
		MediaCount: 3,
	}

	events := []*activity.Event{
		mealEvent(testDay.Add(8*time.Hour), activity.KindMeal, "breakfast"),
		photoEvent,
		mealEvent(testDay.Add(10*time.Hour), activity.KindSnack, "snack"),
		napEvent(testDay.Add(12*time.Hour), 45*time.Minute),
		napEvent(testDay.Add(14*time.Hour), 32*time.Minute+30*time.Second),
	}
	svc, _ := newSummaryFixture(events, &fakeModel{})

	res, err := svc.GenerateDailySummary(context.Background(), "child-1", testDay)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Stats.TotalActivities)
	assert.Equal(t, 2, res.Stats.MealsEaten, "meal and snack kinds both count")
	assert.Equal(t, 78, res.Stats.NapMinutes, "45 + round(32.5) with half rounded up")
	assert.Equal(t, 1, res.Stats.PhotosCount, "one activity carries media")
}

func TestGenerateDailySummary_Highlights(t *testing.T) {
	events := []*activity.Event{
		milestoneEvent(testDay.Add(9*time.Hour), "First steps"),
		milestoneEvent(testDay.Add(11*time.Hour), ""), // no name, excluded
		mealEvent(testDay.Add(12*time.Hour), activity.KindMeal, "lunch"),
		milestoneEvent(testDay.Add(15*time.Hour), "Said a new word"),
	}
	svc, _ := newSummaryFixture(events, &fakeModel{})

	res, err := svc.GenerateDailySummary(context.Background(), "child-1", testDay)
	require.NoError(t, err)

	assert.Equal(t, []string{"Milestone: First steps", "Milestone: Said a new word"}, res.Highlights)
}

func TestRenderActivities_Separators(t *testing.T) {
	events := []*activity.Event{
		{
			ID:          "act-1",
			ChildID:     "child-1",
			Kind:        activity.KindGeneral,
			OccurredAt:  testDay.Add(9 * time.Hour),
			Title:       nullStr("Morning circle"),
			Description: nullStr("Sang the welcome song"),
		},
		{
			ID:         "act-2",
			ChildID:    "child-1",
			Kind:       activity.KindMood,
			OccurredAt: testDay.Add(10 * time.Hour),
			Mood:       nullStr("happy"),
		},
	}

	rendered := renderActivities(events)
	assert.Contains(t, rendered, "[9:00 AM] general: Morning circle — Sang the welcome song")
	assert.Contains(t, rendered, "[10:00 AM] mood — mood: happy")
}

func TestSaveDailySummary_RegenerationOverwritesAndResetsReview(t *testing.T) {
	events := []*activity.Event{mealEvent(testDay.Add(8*time.Hour), activity.KindMeal, "breakfast")}
	svc, repo := newSummaryFixture(events, &fakeModel{})

	first, err := svc.SaveDailySummary(context.Background(), "child-1", "org-1", testDay)
	require.NoError(t, err)
	assert.False(t, first.TeacherReviewed)

	// A teacher reviews it between generations.
	first.TeacherReviewed = true

	second, err := svc.SaveDailySummary(context.Background(), "child-1", "org-1", testDay)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "regeneration must overwrite, not duplicate")
	assert.Len(t, repo.byKey, 1)
	assert.False(t, second.TeacherReviewed, "regeneration must reset the review flag")
}

func TestAnalyzeMessageSentiment_NoModel(t *testing.T) {
	svc, _ := newSummaryFixture(nil, &fakeModel{enabled: false})

	res := svc.AnalyzeMessageSentiment(context.Background(), "I am furious about pickup times!")
	assert.Equal(t, &summary.SentimentResult{Sentiment: "neutral", RequiresResponse: false, Confidence: 0.5}, res)
}

func TestAnalyzeMessageSentiment_ParsesFencedJSON(t *testing.T) {
	model := &fakeModel{enabled: true, response: "```json\n{\"sentiment\": \"concerned\", \"requiresResponse\": true, \"confidence\": 0.92}\n```"}
	svc, _ := newSummaryFixture(nil, model)

	res := svc.AnalyzeMessageSentiment(context.Background(), "Is the rash getting worse?")
	assert.Equal(t, "concerned", res.Sentiment)
	assert.True(t, res.RequiresResponse)
	assert.InDelta(t, 0.92, res.Confidence, 1e-9)
	assert.Contains(t, model.lastPrompt, "Is the rash getting worse?")
}

func TestAnalyzeMessageSentiment_MalformedOutputFallsBack(t *testing.T) {
	svc, _ := newSummaryFixture(nil, &fakeModel{enabled: true, response: "Sure! Here is my analysis: positive."})

	res := svc.AnalyzeMessageSentiment(context.Background(), "thanks!")
	assert.Equal(t, summary.NeutralSentiment(), res)
}

func TestAnalyzeMessageSentiment_TransportErrorFallsBack(t *testing.T) {
	svc, _ := newSummaryFixture(nil, &fakeModel{enabled: true, err: fmt.Errorf("connection reset")})

	res := svc.AnalyzeMessageSentiment(context.Background(), "thanks!")
	assert.Equal(t, summary.NeutralSentiment(), res)
}
