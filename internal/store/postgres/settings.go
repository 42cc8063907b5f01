package postgres

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/models"
)

// GetSettings returns the single bot_settings row. When the row has never
// been written it returns zero-valued settings with IsActive set, so a
// fresh deployment behaves as an active bot configured purely from the
// environment.
func (s *Store) GetSettings(ctx context.Context) (*models.BotSettings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT bot_token, bot_name, welcome_image, is_active, updated_at
		FROM bot_settings
		WHERE id = 1`)

	var settings models.BotSettings
	var token, name, image sql.NullString
	err := row.Scan(&token, &name, &image, &settings.IsActive, &settings.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.BotSettings{IsActive: true}, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageFailureError("get settings", err)
	}
	settings.Token = token.String
	settings.BotName = name.String
	settings.WelcomeImage = image.String
	return &settings, nil
}

// UpdateSettings upserts the single settings row.
func (s *Store) UpdateSettings(ctx context.Context, settings *models.BotSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bot_settings (id, bot_token, bot_name, welcome_image, is_active, updated_at)
		VALUES (1, NULLIF($1, ''), NULLIF($2, ''), NULLIF($3, ''), $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET bot_token = NULLIF($1, ''), bot_name = NULLIF($2, ''),
			welcome_image = NULLIF($3, ''), is_active = $4, updated_at = NOW()`,
		settings.Token, settings.BotName, settings.WelcomeImage, settings.IsActive)
	if err != nil {
		return apperrors.NewStorageFailureError("update settings", err)
	}
	return nil
}
