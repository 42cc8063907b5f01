package models

import (
	"strings"
	"time"
)

// Question types
const (
	QuestionTypeText   = "text"
	QuestionTypePhoto  = "photo"
	QuestionTypeChoice = "choice"
	QuestionTypeInfo   = "info"
)

// Question is one step of the admin-configured onboarding sequence.
// Only active questions participate in the flow; ordering is by
// (Order, ID) ascending, the ID being the deterministic tie-break.
type Question struct {
	ID         int64     `json:"id"`
	Order      int       `json:"order"`
	Type       string    `json:"type"`
	Text       string    `json:"text"`
	Choices    string    `json:"choices,omitempty"` // comma-separated, type=choice only
	Image      string    `json:"image,omitempty"`   // media-relative path
	FieldName  string    `json:"fieldName,omitempty"`
	IsRequired bool      `json:"isRequired"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ChoicesList splits the comma-separated choices into trimmed labels.
func (q *Question) ChoicesList() []string {
	if q.Choices == "" {
		return nil
	}
	parts := strings.Split(q.Choices, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if label := strings.TrimSpace(p); label != "" {
			out = append(out, label)
		}
	}
	return out
}

// ValidQuestionType reports whether t is one of the supported question types.
func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeText, QuestionTypePhoto, QuestionTypeChoice, QuestionTypeInfo:
		return true
	}
	return false
}
