package models

import "time"

// Response is a raw stored answer keyed by (applicant, question).
// At most one row exists per pair; re-answering overwrites it.
// TextAnswer and PhotoPath are mutually exclusive.
type Response struct {
	ID          int64     `json:"id"`
	ApplicantID int64     `json:"applicantId"`
	QuestionID  int64     `json:"questionId"`
	TextAnswer  string    `json:"textAnswer,omitempty"`
	PhotoPath   string    `json:"photoPath,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
