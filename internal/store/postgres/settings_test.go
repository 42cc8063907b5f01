package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KulmamatovZalkar/newedges/internal/models"
)

func TestGetSettingsDefaultsWhenUnset(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM bot_settings`).
		WillReturnRows(sqlmock.NewRows([]string{"bot_token", "bot_name", "welcome_image", "is_active", "updated_at"}))

	settings, err := store.GetSettings(context.Background())

	require.NoError(t, err)
	assert.Empty(t, settings.Token)
	assert.True(t, settings.IsActive)
}

func TestGetSettings(t *testing.T) {
	store, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"bot_token", "bot_name", "welcome_image", "is_active", "updated_at"}).
		AddRow("token-123", "newedges", "welcome.jpg", true, time.Now())
	mock.ExpectQuery(`FROM bot_settings`).WillReturnRows(rows)

	settings, err := store.GetSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "token-123", settings.Token)
	assert.Equal(t, "welcome.jpg", settings.WelcomeImage)
}

func TestUpdateSettingsUpsertsSingleRow(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("token-123", "newedges", "", true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.UpdateSettings(context.Background(), &models.BotSettings{
		Token:    "token-123",
		BotName:  "newedges",
		IsActive: true,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
