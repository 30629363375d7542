package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"untprep-backend/internal/models"
)

// Store surfaces the progress service depends on. Narrow interfaces keep the
// streak logic testable without a database.
type sessionStore interface {
	Create(ctx context.Context, s *models.StudySession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error)
	Close(ctx context.Context, id uuid.UUID, endTime time.Time, durationMinutes int) (bool, error)
}

type progressStore interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Progress, error)
	ApplyStudy(ctx context.Context, userID uuid.UUID, studyMinutes, currentStreak, longestStreak int, lastStudyDate time.Time) error
}

type progressUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProgressService tracks study sessions and maintains the per-student
// study-time and streak aggregate. It is the only writer of progress rows.
type ProgressService struct {
	sessions sessionStore
	progress progressStore
	users    progressUserStore

	// Per-user locks serialize the read-modify-write on a user's progress
	// row so two sessions ending together cannot both read the same streak.
	mu        sync.Mutex
	userLocks map[uuid.UUID]*sync.Mutex

	now func() time.Time
}

func NewProgressService(sessions sessionStore, progress progressStore, users progressUserStore) *ProgressService {
	return &ProgressService{
		sessions:  sessions,
		progress:  progress,
		users:     users,
		userLocks: make(map[uuid.UUID]*sync.Mutex),
		now:       time.Now,
	}
}

// StartSession opens a study session. Multiple open sessions per user are
// allowed; each one closes independently.
func (s *ProgressService) StartSession(ctx context.Context, userID uuid.UUID, activityType string) (*models.StudySession, error) {
	session := &models.StudySession{
		UserID:       userID,
		ActivityType: activityType,
		StartTime:    s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession closes an open session exactly once, computes its duration in
// whole minutes and folds it into the owner's progress. An unknown id or an
// already-closed session reports NotFound and leaves progress untouched.
func (s *ProgressService) EndSession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &NotFoundError{Message: "Session not found or already ended"}
		}
		return 0, err
	}
	if session.EndTime != nil {
		return 0, &NotFoundError{Message: "Session not found or already ended"}
	}

	endTime := s.now()
	duration := int(math.Round(endTime.Sub(session.StartTime).Minutes()))

	closed, err := s.sessions.Close(ctx, sessionID, endTime, duration)
	if err != nil {
		return 0, err
	}
	if !closed {
		// A concurrent end call won the race.
		return 0, &NotFoundError{Message: "Session not found or already ended"}
	}

	if err := s.recordStudy(ctx, session.UserID, duration); err != nil {
		return 0, err
	}
	return duration, nil
}

// GetProgress returns the dashboard overview. A student with no progress row
// yet reads as all zeros.
func (s *ProgressService) GetProgress(ctx context.Context, userID uuid.UUID) (*models.ProgressOverview, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}

	overview := &models.ProgressOverview{LastLogin: user.LastLoginAt}

	progress, err := s.progress.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overview, nil
		}
		return nil, err
	}

	overview.TotalStudyTime = progress.TotalStudyTime
	overview.CurrentStreak = progress.CurrentStreak
	overview.LongestStreak = progress.LongestStreak
	return overview, nil
}

// recordStudy applies one closed session to the user's progress: study time
// accumulates and the day-granular streak advances. Streak state depends on
// session occurrence per calendar day, so even a zero-minute session counts.
func (s *ProgressService) recordStudy(ctx context.Context, userID uuid.UUID, studyMinutes int) error {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	var currentStreak, longestStreak int
	var lastStudyDate *time.Time

	progress, err := s.progress.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if progress != nil {
		currentStreak = progress.CurrentStreak
		longestStreak = progress.LongestStreak
		lastStudyDate = progress.LastStudyDate
	}

	// Calendar days are UTC throughout so the streak does not depend on
	// server locale or DST.
	today := midnightUTC(s.now())

	switch {
	case lastStudyDate != nil && midnightUTC(*lastStudyDate).Equal(today):
		// Same day, keep streak
	case lastStudyDate != nil && midnightUTC(*lastStudyDate).AddDate(0, 0, 1).Equal(today):
		// Consecutive day, extend
		currentStreak++
	default:
		// Gap of 2+ days, or first session ever
		currentStreak = 1
	}

	if currentStreak > longestStreak {
		longestStreak = currentStreak
	}

	return s.progress.ApplyStudy(ctx, userID, studyMinutes, currentStreak, longestStreak, today)
}

func (s *ProgressService) lockFor(userID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
