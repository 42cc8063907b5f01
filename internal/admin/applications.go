package admin

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/KulmamatovZalkar/newedges/internal/models"
	"github.com/KulmamatovZalkar/newedges/internal/store/postgres"
)

// applicationView decorates an application with its completion percentage
// for the review screens.
type applicationView struct {
	*models.Application
	CompletionPercentage int `json:"completionPercentage"`
}

func toView(app *models.Application) applicationView {
	return applicationView{Application: app, CompletionPercentage: app.CompletionPercentage()}
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.store.ListApplications(r.Context())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	views := make([]applicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, toView(app))
	}
	s.respond(w, http.StatusOK, views)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.store.GetApplication(r.Context(), pathID(r, "applicantId"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respond(w, http.StatusOK, toView(app))
}

func (s *Server) handleSetApplicationStatus(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "read body failed")
		return
	}
	if err := validatePayload(statusValidator, body); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SetApplicationStatus(r.Context(), pathID(r, "applicantId"), payload.Status); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": payload.Status})
}

func (s *Server) handleListResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := s.store.ListResponses(r.Context(), pathID(r, "applicantId"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if responses == nil {
		responses = []*postgres.ResponseView{}
	}
	s.respond(w, http.StatusOK, responses)
}
