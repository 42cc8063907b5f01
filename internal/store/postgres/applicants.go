package postgres

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/models"
)

const applicantColumns = `id, telegram_id, username, first_name, last_name,
	current_question_id, stage, is_team_member, is_registration_complete,
	created_at, updated_at`

func scanApplicant(row rowScanner) (*models.Applicant, error) {
	var a models.Applicant
	var username, firstName, lastName sql.NullString
	var currentQuestionID sql.NullInt64
	err := row.Scan(
		&a.ID, &a.TelegramID, &username, &firstName, &lastName,
		&currentQuestionID, &a.Stage, &a.IsTeamMember, &a.IsRegistrationComplete,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Username = username.String
	a.FirstName = firstName.String
	a.LastName = lastName.String
	if currentQuestionID.Valid {
		a.CurrentQuestionID = &currentQuestionID.Int64
	}
	return &a, nil
}

// GetOrCreateApplicant fetches the applicant by telegram id, creating the
// row on first contact and refreshing the platform identity fields on
// every call.
func (s *Store) GetOrCreateApplicant(ctx context.Context, identity models.Identity) (*models.Applicant, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO applicants (telegram_id, username, first_name, last_name)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = NULLIF($2, ''), first_name = NULLIF($3, ''),
			last_name = NULLIF($4, ''), updated_at = NOW()
		RETURNING `+applicantColumns,
		identity.TelegramID, identity.Username, identity.FirstName, identity.LastName)

	applicant, err := scanApplicant(row)
	if err != nil {
		return nil, apperrors.NewStorageFailureError("get or create applicant", err)
	}

	s.invalidateCache(ctx, identity.TelegramID)
	return applicant, nil
}

// GetApplicant reads the authoritative applicant row, going through the
// session cache when one is configured.
func (s *Store) GetApplicant(ctx context.Context, telegramID int64) (*models.Applicant, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, telegramID)
		if err != nil {
			s.logger.Warn("session cache read failed", map[string]interface{}{
				"telegramId": telegramID,
				"error":      err,
			})
		} else if cached != nil {
			return cached, nil
		}
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+applicantColumns+`
		FROM applicants
		WHERE telegram_id = $1`, telegramID)

	applicant, err := scanApplicant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewApplicantNotFoundError(telegramID)
	}
	if err != nil {
		return nil, apperrors.NewStorageFailureError("get applicant", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, applicant); err != nil {
			s.logger.Warn("session cache write failed", map[string]interface{}{
				"telegramId": telegramID,
				"error":      err,
			})
		}
	}
	return applicant, nil
}

// SetTeamMember persists the team-membership answer and the follow-up stage.
func (s *Store) SetTeamMember(ctx context.Context, telegramID int64, isTeamMember bool, stage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE applicants
		SET is_team_member = $2, stage = $3, updated_at = NOW()
		WHERE telegram_id = $1`,
		telegramID, isTeamMember, stage)
	if err != nil {
		return apperrors.NewStorageFailureError("set team member", err)
	}

	s.invalidateCache(ctx, telegramID)
	return nil
}

// SetStage moves the applicant to another flow stage without touching
// anything else.
func (s *Store) SetStage(ctx context.Context, telegramID int64, stage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE applicants
		SET stage = $2, updated_at = NOW()
		WHERE telegram_id = $1`,
		telegramID, stage)
	if err != nil {
		return apperrors.NewStorageFailureError("set stage", err)
	}

	s.invalidateCache(ctx, telegramID)
	return nil
}

// ResetApplicant drops the flow position back to NotStarted. Used for the
// session-recovery path; the completion flag and recorded answers stay.
func (s *Store) ResetApplicant(ctx context.Context, telegramID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE applicants
		SET stage = '', current_question_id = NULL, updated_at = NOW()
		WHERE telegram_id = $1`,
		telegramID)
	if err != nil {
		return apperrors.NewStorageFailureError("reset applicant", err)
	}

	s.invalidateCache(ctx, telegramID)
	return nil
}
