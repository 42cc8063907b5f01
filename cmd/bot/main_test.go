package main

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KulmamatovZalkar/newedges/internal/common/config"
	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/store/postgres"
)

func settingsStore(t *testing.T, token string) *postgres.Store {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rows := sqlmock.NewRows([]string{"bot_token", "bot_name", "welcome_image", "is_active", "updated_at"})
	if token != "" {
		rows.AddRow(token, "newedges", nil, true, time.Now())
	}
	mock.ExpectQuery(`FROM bot_settings`).WillReturnRows(rows)

	return postgres.New(db, nil, logger.NewNoOpLogger())
}

func TestResolveTokenPrefersSettingsRow(t *testing.T) {
	store := settingsStore(t, "db-token")
	cfg := &config.Config{}
	cfg.Telegram.Token = "env-token"

	token, err := resolveToken(context.Background(), store, cfg)

	require.NoError(t, err)
	assert.Equal(t, "db-token", token)
}

func TestResolveTokenFallsBackToConfig(t *testing.T) {
	store := settingsStore(t, "")
	cfg := &config.Config{}
	cfg.Telegram.Token = "env-token"

	token, err := resolveToken(context.Background(), store, cfg)

	require.NoError(t, err)
	assert.Equal(t, "env-token", token)
}

func TestResolveTokenMissingEverywhere(t *testing.T) {
	store := settingsStore(t, "")

	_, err := resolveToken(context.Background(), store, &config.Config{})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigurationMissing))
}
