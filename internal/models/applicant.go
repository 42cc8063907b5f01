package models

import "time"

// Flow stages. The stage column plus CurrentQuestionID and
// IsRegistrationComplete are the authoritative state machine position;
// any cached copy is derived and invalidated on write.
const (
	StageNone       = ""
	StageTeamMember = "team_member"
	StagePosition   = "position"
	StageQuestions  = "questions"
)

// Applicant is a chat-platform user going through the registration flow.
// Created on first contact, never deleted by the flow.
type Applicant struct {
	ID                     int64     `json:"id"`
	TelegramID             int64     `json:"telegramId"`
	Username               string    `json:"username,omitempty"`
	FirstName              string    `json:"firstName,omitempty"`
	LastName               string    `json:"lastName,omitempty"`
	CurrentQuestionID      *int64    `json:"currentQuestionId,omitempty"`
	Stage                  string    `json:"stage,omitempty"`
	IsTeamMember           bool      `json:"isTeamMember"`
	IsRegistrationComplete bool      `json:"isRegistrationComplete"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// Identity carries the platform identity fields of an inbound message.
type Identity struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}
