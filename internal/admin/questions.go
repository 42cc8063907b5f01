package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/KulmamatovZalkar/newedges/internal/models"
)

type questionPayload struct {
	Order      int    `json:"order"`
	Type       string `json:"type"`
	Text       string `json:"text"`
	Choices    string `json:"choices"`
	Image      string `json:"image"`
	FieldName  string `json:"fieldName"`
	IsRequired *bool  `json:"isRequired"`
	IsActive   *bool  `json:"isActive"`
}

// decodeQuestion validates the payload against the schema plus the
// cross-field rules the schema cannot express: choices on choice questions
// and field names that actually map onto an application column.
func decodeQuestion(r *http.Request) (*questionPayload, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if err := validatePayload(questionValidator, body); err != nil {
		return nil, err
	}

	var p questionPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}

	if p.Type == models.QuestionTypeChoice && p.Choices == "" {
		return nil, fmt.Errorf("choice questions need a non-empty choices list")
	}
	if p.FieldName != "" && !models.IsKnownApplicationField(p.FieldName) {
		return nil, fmt.Errorf("unknown fieldName %q", p.FieldName)
	}
	return &p, nil
}

func (p *questionPayload) toModel() *models.Question {
	q := &models.Question{
		Order:      p.Order,
		Type:       p.Type,
		Text:       p.Text,
		Choices:    p.Choices,
		Image:      p.Image,
		FieldName:  p.FieldName,
		IsRequired: true,
		IsActive:   true,
	}
	if p.IsRequired != nil {
		q.IsRequired = *p.IsRequired
	}
	if p.IsActive != nil {
		q.IsActive = *p.IsActive
	}
	return q
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.store.ListQuestions(r.Context())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if questions == nil {
		questions = []*models.Question{}
	}
	s.respond(w, http.StatusOK, questions)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := s.store.QuestionByID(r.Context(), pathID(r, "id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respond(w, http.StatusOK, question)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeQuestion(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateQuestion(r.Context(), payload.toModel())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeQuestion(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := payload.toModel()
	q.ID = pathID(r, "id")
	updated, err := s.store.UpdateQuestion(r.Context(), q)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respond(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteQuestion(r.Context(), pathID(r, "id")); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respond(w, http.StatusNoContent, nil)
}
