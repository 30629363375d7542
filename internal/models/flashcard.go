package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryTheorem = "THEOREM"
	CategoryFormula = "FORMULA"
)

type Flashcard struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	Category  string    `json:"category"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	SortOrder int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

type SaveFlashcardRequest struct {
	Subject  string `json:"subject"`
	Category string `json:"category"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Order    int    `json:"order"`
}
