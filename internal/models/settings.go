package models

import "time"

// BotSettings is the single named configuration entity for the bot.
// A non-empty Token overrides the environment-provided fallback.
type BotSettings struct {
	Token        string    `json:"token,omitempty"`
	BotName      string    `json:"botName,omitempty"`
	WelcomeImage string    `json:"welcomeImage,omitempty"` // media-relative path
	IsActive     bool      `json:"isActive"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
