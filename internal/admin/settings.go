package admin

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/KulmamatovZalkar/newedges/internal/models"
)

// settingsView hides the bot token from read responses.
type settingsView struct {
	BotName      string `json:"botName,omitempty"`
	WelcomeImage string `json:"welcomeImage,omitempty"`
	IsActive     bool   `json:"isActive"`
	HasToken     bool   `json:"hasToken"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respond(w, http.StatusOK, settingsView{
		BotName:      settings.BotName,
		WelcomeImage: settings.WelcomeImage,
		IsActive:     settings.IsActive,
		HasToken:     settings.Token != "",
	})
}

// handleUpdateSettings merges the payload over the stored row: omitted
// fields keep their values, so updating the name does not wipe the token.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "read body failed")
		return
	}
	if err := validatePayload(settingsValidator, body); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	var payload struct {
		Token        *string `json:"token"`
		BotName      *string `json:"botName"`
		WelcomeImage *string `json:"welcomeImage"`
		IsActive     *bool   `json:"isActive"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated := &models.BotSettings{
		Token:        current.Token,
		BotName:      current.BotName,
		WelcomeImage: current.WelcomeImage,
		IsActive:     current.IsActive,
	}
	if payload.Token != nil {
		updated.Token = *payload.Token
	}
	if payload.BotName != nil {
		updated.BotName = *payload.BotName
	}
	if payload.WelcomeImage != nil {
		updated.WelcomeImage = *payload.WelcomeImage
	}
	if payload.IsActive != nil {
		updated.IsActive = *payload.IsActive
	}

	if err := s.store.UpdateSettings(r.Context(), updated); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respond(w, http.StatusOK, settingsView{
		BotName:      updated.BotName,
		WelcomeImage: updated.WelcomeImage,
		IsActive:     updated.IsActive,
		HasToken:     updated.Token != "",
	})
}
