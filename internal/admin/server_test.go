package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/models"
	"github.com/KulmamatovZalkar/newedges/internal/store/postgres"
)

type fakeStore struct {
	questions    []*models.Question
	applications []*models.Application
	responses    []*postgres.ResponseView
	settings     models.BotSettings

	nextID int64
}

func (f *fakeStore) ListQuestions(context.Context) ([]*models.Question, error) {
	return f.questions, nil
}

func (f *fakeStore) QuestionByID(_ context.Context, id int64) (*models.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, apperrors.NewQuestionNotFoundError(id)
}

func (f *fakeStore) CreateQuestion(_ context.Context, q *models.Question) (*models.Question, error) {
	f.nextID++
	q.ID = f.nextID
	f.questions = append(f.questions, q)
	return q, nil
}

func (f *fakeStore) UpdateQuestion(_ context.Context, q *models.Question) (*models.Question, error) {
	for i, existing := range f.questions {
		if existing.ID == q.ID {
			f.questions[i] = q
			return q, nil
		}
	}
	return nil, apperrors.NewQuestionNotFoundError(q.ID)
}

func (f *fakeStore) DeleteQuestion(_ context.Context, id int64) error {
	for i, q := range f.questions {
		if q.ID == id {
			f.questions = append(f.questions[:i], f.questions[i+1:]...)
			return nil
		}
	}
	return apperrors.NewQuestionNotFoundError(id)
}

func (f *fakeStore) ListApplications(context.Context) ([]*models.Application, error) {
	return f.applications, nil
}

func (f *fakeStore) GetApplication(_ context.Context, applicantID int64) (*models.Application, error) {
	for _, app := range f.applications {
		if app.ApplicantID == applicantID {
			return app, nil
		}
	}
	return nil, apperrors.NewApplicantNotFoundError(applicantID)
}

func (f *fakeStore) SetApplicationStatus(_ context.Context, applicantID int64, status string) error {
	app, err := f.GetApplication(context.Background(), applicantID)
	if err != nil {
		return err
	}
	app.Status = status
	return nil
}

func (f *fakeStore) ListResponses(context.Context, int64) ([]*postgres.ResponseView, error) {
	return f.responses, nil
}

func (f *fakeStore) GetSettings(context.Context) (*models.BotSettings, error) {
	settings := f.settings
	return &settings, nil
}

func (f *fakeStore) UpdateSettings(_ context.Context, settings *models.BotSettings) error {
	f.settings = *settings
	return nil
}

func newTestServer(t *testing.T, store *fakeStore) *Server {
	t.Helper()
	return NewServer(store, logger.NewTestLogger(t))
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCreateQuestion(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/questions", map[string]any{
		"order":     1,
		"type":      "text",
		"text":      "Как тебя зовут?",
		"fieldName": "full_name",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Question
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.IsActive)
	assert.True(t, created.IsRequired)
	require.Len(t, store.questions, 1)
}

func TestCreateQuestionRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing text", map[string]any{"type": "text"}},
		{"unknown type", map[string]any{"type": "video", "text": "?"}},
		{"unknown field name", map[string]any{"type": "text", "text": "?", "fieldName": "favorite_color"}},
		{"choice without choices", map[string]any{"type": "choice", "text": "?"}},
		{"unexpected property", map[string]any{"type": "text", "text": "?", "bogus": true}},
	}

	srv := newTestServer(t, &fakeStore{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/v1/questions", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetQuestionNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/questions/404", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteQuestion(t *testing.T) {
	store := &fakeStore{questions: []*models.Question{{ID: 1, Type: "text", Text: "?"}}}
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/questions/1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.questions)
}

func TestListApplicationsIncludesCompletion(t *testing.T) {
	store := &fakeStore{applications: []*models.Application{{
		ID: 1, ApplicantID: 7, Status: models.ApplicationStatusCompleted,
		FullName: "Иван Иванов", Phone: "+79001234567", Email: "ivan@example.com",
	}}}
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/applications", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.EqualValues(t, 27, views[0]["completionPercentage"])
}

func TestSetApplicationStatus(t *testing.T) {
	store := &fakeStore{applications: []*models.Application{{ID: 1, ApplicantID: 7, Status: models.ApplicationStatusCompleted}}}
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/applications/7/status", map[string]any{"status": "approved"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ApplicationStatusApproved, store.applications[0].Status)
}

func TestSetApplicationStatusRejectsUnknownStatus(t *testing.T) {
	store := &fakeStore{applications: []*models.Application{{ID: 1, ApplicantID: 7}}}
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/applications/7/status", map[string]any{"status": "archived"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListResponses(t *testing.T) {
	store := &fakeStore{responses: []*postgres.ResponseView{{
		Response:     models.Response{ID: 1, ApplicantID: 7, QuestionID: 10, TextAnswer: "Иван Иванов"},
		QuestionText: "Как тебя зовут?",
		FieldName:    "full_name",
	}}}
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/applications/7/responses", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Как тебя зовут?", views[0]["questionText"])
}

func TestSettingsHideToken(t *testing.T) {
	store := &fakeStore{settings: models.BotSettings{Token: "secret", BotName: "newedges", IsActive: true}}
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/settings", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, true, view["hasToken"])
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestUpdateSettingsMergesOverCurrent(t *testing.T) {
	store := &fakeStore{settings: models.BotSettings{Token: "secret", BotName: "old-name", IsActive: true}}
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/settings", map[string]any{"botName": "new-name"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new-name", store.settings.BotName)
	assert.Equal(t, "secret", store.settings.Token)
	assert.True(t, store.settings.IsActive)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
