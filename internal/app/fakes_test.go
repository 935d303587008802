package app

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"time"

	"childcare_summary_service/internal/domain/activity"
	"childcare_summary_service/internal/domain/child"
	"childcare_summary_service/internal/domain/classroom"
	"childcare_summary_service/internal/domain/notification"
	"childcare_summary_service/internal/domain/summary"
	idb "childcare_summary_service/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

type fakeActivityRepo struct {
	events map[string][]*activity.Event
	err    error
}

func (f *fakeActivityRepo) ListForChildOnDate(_ context.Context, childID string, _ time.Time) ([]*activity.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[childID], nil
}

type fakeChildRepo struct {
	profiles       map[string]*child.Profile
	enrolled       map[string][]*child.Profile // classroomID -> children
	enrolledErrFor map[string]error
	guardians      map[string][]*child.Guardian
}

func (f *fakeChildRepo) GetByID(_ context.Context, id string) (*child.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, idb.ErrChildNotFound
	}
	return p, nil
}

func (f *fakeChildRepo) ListEnrolled(_ context.Context, classroomID, _ string) ([]*child.Profile, error) {
	if err := f.enrolledErrFor[classroomID]; err != nil {
		return nil, err
	}
	return f.enrolled[classroomID], nil
}

func (f *fakeChildRepo) ListGuardians(_ context.Context, childID string) ([]*child.Guardian, error) {
	return f.guardians[childID], nil
}

type fakeClassroomRepo struct {
	rooms []*classroom.Classroom
	err   error
}

func (f *fakeClassroomRepo) ListActive(_ context.Context) ([]*classroom.Classroom, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rooms, nil
}

// fakeSummaryRepo mirrors the store contract: one row per (child, date),
// updates reset the review flag and never touch the sent state.
type fakeSummaryRepo struct {
	mu      sync.Mutex
	byKey   map[string]*summary.DailySummary
	byID    map[string]*summary.DailySummary
	failFor map[string]error // childID -> upsert error
	upserts int
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{
		byKey: make(map[string]*summary.DailySummary),
		byID:  make(map[string]*summary.DailySummary),
	}
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, childID, organizationID string, date time.Time, res *summary.GenerationResult) (*summary.DailySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failFor[childID]; err != nil {
		return nil, err
	}

	key := childID + "|" + date.Format("2006-01-02")
	s, ok := f.byKey[key]
	if !ok {
		s = &summary.DailySummary{
			ID:             "sum-" + childID,
			OrganizationID: organizationID,
			ChildID:        childID,
			Date:           date,
			CreatedAt:      time.Now(),
		}
		f.byKey[key] = s
		f.byID[s.ID] = s
	}
	s.SummaryText = res.SummaryText
	s.Highlights = res.Highlights
	s.TotalActivities = res.Stats.TotalActivities
	s.MealsEaten = res.Stats.MealsEaten
	s.NapDurationMins = res.Stats.NapMinutes
	s.PhotosCount = res.Stats.PhotosCount
	s.Model = res.Model
	s.GeneratedAt = time.Now()
	s.TeacherReviewed = false
	s.UpdatedAt = time.Now()
	f.upserts++
	return s, nil
}

func (f *fakeSummaryRepo) GetByID(_ context.Context, id string) (*summary.DailySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, idb.ErrSummaryNotFound
	}
	return s, nil
}

func (f *fakeSummaryRepo) MarkSent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return idb.ErrSummaryNotFound
	}
	if !s.SentToParents {
		s.SentToParents = true
		s.SentAt = nullTime(time.Now())
	}
	return nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	records []*notification.Record
	err     error
}

func (f *fakeNotificationRepo) Create(_ context.Context, rec *notification.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeModel struct {
	enabled    bool
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (m *fakeModel) Enabled() bool { return m.enabled }

func (m *fakeModel) Complete(_ context.Context, prompt string, _ int) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// stallingModel never answers; it blocks until the call context expires.
type stallingModel struct {
	calls int
}

func (m *stallingModel) Enabled() bool { return true }

func (m *stallingModel) Complete(ctx context.Context, _ string, _ int) (string, error) {
	m.calls++
	<-ctx.Done()
	return "", ctx.Err()
}

type telegramMessage struct {
	chatID int64
	text   string
}

type fakeTelegram struct {
	sent []telegramMessage
	err  error
}

func (f *fakeTelegram) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, telegramMessage{chatID: chatID, text: text})
	return nil
}
