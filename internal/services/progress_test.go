package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"untprep-backend/internal/models"
)

type fakeSessionStore struct {
	sessions map[uuid.UUID]*models.StudySession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*models.StudySession)}
}

func (f *fakeSessionStore) Create(ctx context.Context, s *models.StudySession) error {
	s.ID = uuid.New()
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) Close(ctx context.Context, id uuid.UUID, endTime time.Time, durationMinutes int) (bool, error) {
	s, ok := f.sessions[id]
	if !ok || s.EndTime != nil {
		return false, nil
	}
	s.EndTime = &endTime
	s.DurationMinutes = &durationMinutes
	return true, nil
}

type fakeProgressStore struct {
	rows map[uuid.UUID]*models.Progress
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: make(map[uuid.UUID]*models.Progress)}
}

func (f *fakeProgressStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Progress, error) {
	p, ok := f.rows[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProgressStore) ApplyStudy(ctx context.Context, userID uuid.UUID, studyMinutes, currentStreak, longestStreak int, lastStudyDate time.Time) error {
	p, ok := f.rows[userID]
	if !ok {
		p = &models.Progress{ID: uuid.New(), UserID: userID}
		f.rows[userID] = p
	}
	p.TotalStudyTime += studyMinutes
	p.CurrentStreak = currentStreak
	if longestStreak > p.LongestStreak {
		p.LongestStreak = longestStreak
	}
	p.LastStudyDate = &lastStudyDate
	return nil
}

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func newTestProgressService(now time.Time) (*ProgressService, *fakeSessionStore, *fakeProgressStore) {
	sessions := newFakeSessionStore()
	progress := newFakeProgressStore()
	users := &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
	svc := NewProgressService(sessions, progress, users)
	svc.now = func() time.Time { return now }
	return svc, sessions, progress
}

// studyOn runs a full start-then-end cycle at the given clock time with the
// given session length.
func studyOn(t *testing.T, svc *ProgressService, userID uuid.UUID, start time.Time, minutes int) int {
	t.Helper()
	ctx := context.Background()

	svc.now = func() time.Time { return start }
	session, err := svc.StartSession(ctx, userID, models.ActivityLesson)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	svc.now = func() time.Time { return start.Add(time.Duration(minutes) * time.Minute) }
	duration, err := svc.EndSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	return duration
}

func TestFirstSessionStartsStreak(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	svc, _, progress := newTestProgressService(day1)
	userID := uuid.New()

	duration := studyOn(t, svc, userID, day1, 42)
	if duration != 42 {
		t.Fatalf("expected duration 42, got %d", duration)
	}

	p := progress.rows[userID]
	if p == nil {
		t.Fatalf("expected progress row to be created")
	}
	if p.TotalStudyTime != 42 || p.CurrentStreak != 1 || p.LongestStreak != 1 {
		t.Fatalf("expected {42,1,1}, got {%d,%d,%d}", p.TotalStudyTime, p.CurrentStreak, p.LongestStreak)
	}
}

func TestSameDaySessionKeepsStreak(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _, progress := newTestProgressService(day1)
	userID := uuid.New()

	studyOn(t, svc, userID, day1, 30)
	studyOn(t, svc, userID, day1.Add(6*time.Hour), 20)

	p := progress.rows[userID]
	if p.CurrentStreak != 1 {
		t.Fatalf("expected streak to stay at 1, got %d", p.CurrentStreak)
	}
	if p.TotalStudyTime != 50 {
		t.Fatalf("expected study time to accumulate to 50, got %d", p.TotalStudyTime)
	}
}

func TestConsecutiveDayExtendsStreak(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	svc, _, progress := newTestProgressService(day1)
	userID := uuid.New()

	studyOn(t, svc, userID, day1, 15)
	studyOn(t, svc, userID, day1.AddDate(0, 0, 1), 15)
	studyOn(t, svc, userID, day1.AddDate(0, 0, 2), 15)

	p := progress.rows[userID]
	if p.CurrentStreak != 3 || p.LongestStreak != 3 {
		t.Fatalf("expected streak 3/3, got %d/%d", p.CurrentStreak, p.LongestStreak)
	}
}

func TestGapResetsStreakButKeepsLongest(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _, progress := newTestProgressService(day1)
	userID := uuid.New()

	studyOn(t, svc, userID, day1, 10)
	studyOn(t, svc, userID, day1.AddDate(0, 0, 1), 10)
	studyOn(t, svc, userID, day1.AddDate(0, 0, 2), 10)

	// Two idle days, then back.
	studyOn(t, svc, userID, day1.AddDate(0, 0, 5), 10)

	p := progress.rows[userID]
	if p.CurrentStreak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", p.CurrentStreak)
	}
	if p.LongestStreak != 3 {
		t.Fatalf("expected longest streak to stay 3, got %d", p.LongestStreak)
	}
	if p.TotalStudyTime != 40 {
		t.Fatalf("expected study time 40, got %d", p.TotalStudyTime)
	}
}

func TestZeroMinuteSessionStillCountsForStreak(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc, _, progress := newTestProgressService(day1)
	userID := uuid.New()

	duration := studyOn(t, svc, userID, day1, 0)
	if duration != 0 {
		t.Fatalf("expected duration 0, got %d", duration)
	}

	p := progress.rows[userID]
	if p.CurrentStreak != 1 {
		t.Fatalf("expected a zero-minute session to start the streak, got %d", p.CurrentStreak)
	}
}

func TestEndUnknownSessionReportsNotFound(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc, _, _ := newTestProgressService(now)

	_, err := svc.EndSession(context.Background(), uuid.New())
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestEndSessionTwiceDoesNotDoubleCount(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc, sessions, progress := newTestProgressService(day1)
	userID := uuid.New()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, models.ActivityTest)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	svc.now = func() time.Time { return day1.Add(25 * time.Minute) }
	if _, err := svc.EndSession(ctx, session.ID); err != nil {
		t.Fatalf("first end: %v", err)
	}

	_, err = svc.EndSession(ctx, session.ID)
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError on second end, got %v", err)
	}

	p := progress.rows[userID]
	if p.TotalStudyTime != 25 {
		t.Fatalf("expected 25 minutes counted once, got %d", p.TotalStudyTime)
	}
	if got := sessions.sessions[session.ID]; got.DurationMinutes == nil || *got.DurationMinutes != 25 {
		t.Fatalf("expected stored duration 25")
	}
}

func TestUTCMidnightBoundary(t *testing.T) {
	// 23:30 UTC and 00:30 UTC the next day are different calendar days, so
	// studying across midnight extends the streak.
	night := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	svc, _, progress := newTestProgressService(night)
	userID := uuid.New()

	studyOn(t, svc, userID, night, 10)
	studyOn(t, svc, userID, night.Add(time.Hour), 10)

	p := progress.rows[userID]
	if p.CurrentStreak != 2 {
		t.Fatalf("expected sessions across UTC midnight to extend the streak, got %d", p.CurrentStreak)
	}
}

func TestGetProgressWithoutRowReadsZeros(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc, _, _ := newTestProgressService(now)

	userID := uuid.New()
	lastLogin := now.Add(-time.Hour)
	svc.users.(*fakeUserStore).users[userID] = &models.User{ID: userID, LastLoginAt: &lastLogin}

	overview, err := svc.GetProgress(context.Background(), userID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if overview.TotalStudyTime != 0 || overview.CurrentStreak != 0 || overview.LongestStreak != 0 {
		t.Fatalf("expected zero overview, got %+v", overview)
	}
	if overview.LastLogin == nil || !overview.LastLogin.Equal(lastLogin) {
		t.Fatalf("expected last login to carry through")
	}
}

func TestGetProgressUnknownUser(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc, _, _ := newTestProgressService(now)

	_, err := svc.GetProgress(context.Background(), uuid.New())
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
