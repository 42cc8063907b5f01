package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertResponseOverwritesPreviousAnswer(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`ON CONFLICT \(applicant_id, question_id\) DO UPDATE`).
		WithArgs(int64(1), int64(10), "новый ответ", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := upsertResponse(context.Background(), store.db, 1, 10, "новый ответ", "")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListResponsesInFlowOrder(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "applicant_id", "question_id", "text_answer", "photo",
		"created_at", "updated_at", "text", "field_name",
	}).
		AddRow(1, 1, 10, "Иван Иванов", nil, now, now, "Как тебя зовут?", "full_name").
		AddRow(2, 1, 20, nil, "applications/passport_main/x.jpg", now, now, "Фото паспорта", "passport_main")
	mock.ExpectQuery(`JOIN questions q ON q\.id = r\.question_id`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	views, err := store.ListResponses(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Иван Иванов", views[0].TextAnswer)
	assert.Equal(t, "full_name", views[0].FieldName)
	assert.Equal(t, "applications/passport_main/x.jpg", views[1].PhotoPath)
	assert.Empty(t, views[1].TextAnswer)
}
