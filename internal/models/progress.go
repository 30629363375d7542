package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity types a study session can be recorded against.
const (
	ActivityLesson    = "LESSON"
	ActivityFlashcard = "FLASHCARD"
	ActivityTest      = "TEST"
	ActivityOther     = "OTHER"
)

// Progress is the per-student aggregate of study time and streak state.
// The progress service is its sole writer.
type Progress struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	TotalStudyTime int        `json:"total_study_time"` // minutes
	CurrentStreak  int        `json:"current_streak"`   // consecutive study days
	LongestStreak  int        `json:"longest_streak"`
	LastStudyDate  *time.Time `json:"last_study_date"` // midnight-normalized, UTC
	UpdatedAt      time.Time  `json:"updated_at"`
}

// StudySession is one bounded interval of study activity. It is open while
// EndTime is nil and closes exactly once.
type StudySession struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	ActivityType    string     `json:"activity_type"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int       `json:"duration,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type StartSessionRequest struct {
	ActivityType string `json:"activity_type"`
}

type EndSessionRequest struct {
	SessionID string `json:"session_id"`
}

// ProgressOverview is the shape the dashboard reads.
type ProgressOverview struct {
	LastLogin      *time.Time `json:"last_login"`
	TotalStudyTime int        `json:"total_study_time"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
}
