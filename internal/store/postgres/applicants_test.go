package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/models"
)

var applicantCols = []string{
	"id", "telegram_id", "username", "first_name", "last_name",
	"current_question_id", "stage", "is_team_member", "is_registration_complete",
	"created_at", "updated_at",
}

func applicantRow(id, telegramID int64, stage string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(applicantCols).
		AddRow(id, telegramID, "ivan", "Иван", nil, nil, stage, false, false, now, now)
}

func TestGetOrCreateApplicantRefreshesIdentity(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO applicants`).
		WithArgs(int64(42), "ivan", "Иван", "").
		WillReturnRows(applicantRow(1, 42, models.StageNone))

	applicant, err := store.GetOrCreateApplicant(context.Background(), models.Identity{
		TelegramID: 42,
		Username:   "ivan",
		FirstName:  "Иван",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), applicant.ID)
	assert.Equal(t, int64(42), applicant.TelegramID)
	assert.Nil(t, applicant.CurrentQuestionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicantNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM applicants`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(applicantCols))

	_, err := store.GetApplicant(context.Background(), 404)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeApplicantNotFound))
}

func TestResetApplicantClearsFlowPosition(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`SET stage = '', current_question_id = NULL`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.ResetApplicant(context.Background(), 42)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
