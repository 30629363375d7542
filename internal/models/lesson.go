package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubjectPhysics     = "PHYSICS"
	SubjectMathematics = "MATHEMATICS"
)

func ValidSubject(s string) bool {
	return s == SubjectPhysics || s == SubjectMathematics
}

type Lesson struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Subject       string          `json:"subject"`
	Content       string          `json:"content"` // markdown
	Examples      []LessonExample `json:"examples"`
	SortOrder     int             `json:"order"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	CreatedByName string          `json:"created_by_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LessonExample is one worked example attached to a lesson.
type LessonExample struct {
	Question string `json:"question"`
	Solution string `json:"solution"`
}

type SaveLessonRequest struct {
	Title    string          `json:"title"`
	Subject  string          `json:"subject"`
	Content  string          `json:"content"`
	Examples []LessonExample `json:"examples"`
	Order    int             `json:"order"`
}
