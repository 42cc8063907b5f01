package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/models"
)

// applicationFieldColumns maps Question.FieldName values onto
// staff_applications columns. Checked against models.KnownApplicationFields
// at init so a drifted field set fails fast instead of silently writing to
// a missing column.
var applicationFieldColumns = map[string]string{
	models.FieldFullName:             "full_name",
	models.FieldAddress:              "address",
	models.FieldPhone:                "phone",
	models.FieldEmail:                "email",
	models.FieldPassportMain:         "passport_main",
	models.FieldPassportRegistration: "passport_registration",
	models.FieldSnils:                "snils",
	models.FieldInn:                  "inn",
	models.FieldMaritalStatus:        "marital_status",
	models.FieldChildren:             "children",
	models.FieldEmergencyContact:     "emergency_contact",
	models.FieldAdditionalInfo:       "additional_info",
}

func init() {
	known := models.KnownApplicationFields()
	if len(applicationFieldColumns) != len(known) {
		panic("applicationFieldColumns out of sync with models.KnownApplicationFields")
	}
	for _, name := range known {
		if _, ok := applicationFieldColumns[name]; !ok {
			panic(fmt.Sprintf("applicationFieldColumns missing %q", name))
		}
	}
}

const applicationColumns = `id, applicant_id, status, position,
	full_name, address, phone, email,
	passport_main, passport_registration, snils, inn,
	marital_status, children, emergency_contact, additional_info,
	created_at, updated_at, completed_at`

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	var position, fullName, address, phone, email sql.NullString
	var passportMain, passportRegistration, snils, inn sql.NullString
	var maritalStatus, children, emergencyContact, additionalInfo sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&a.ID, &a.ApplicantID, &a.Status, &position,
		&fullName, &address, &phone, &email,
		&passportMain, &passportRegistration, &snils, &inn,
		&maritalStatus, &children, &emergencyContact, &additionalInfo,
		&a.CreatedAt, &a.UpdatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Position = position.String
	a.FullName = fullName.String
	a.Address = address.String
	a.Phone = phone.String
	a.Email = email.String
	a.PassportMain = passportMain.String
	a.PassportRegistration = passportRegistration.String
	a.Snils = snils.String
	a.Inn = inn.String
	a.MaritalStatus = maritalStatus.String
	a.Children = children.String
	a.EmergencyContact = emergencyContact.String
	a.AdditionalInfo = additionalInfo.String
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	return &a, nil
}

// StartApplication creates the staff application lazily, records the
// position, and points the applicant at the first question — in one
// transaction. A nil firstQuestionID means the catalog is empty: the stage
// is cleared and the applicant stays incomplete.
func (s *Store) StartApplication(ctx context.Context, applicant *models.Applicant, position string, firstQuestionID *int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO staff_applications (applicant_id, status)
			VALUES ($1, $2)
			ON CONFLICT (applicant_id) DO NOTHING`,
			applicant.ID, models.ApplicationStatusInProgress)
		if err != nil {
			return fmt.Errorf("create application: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE staff_applications
			SET position = NULLIF($2, ''), updated_at = NOW()
			WHERE applicant_id = $1`,
			applicant.ID, position)
		if err != nil {
			return fmt.Errorf("set position: %w", err)
		}

		stage := models.StageQuestions
		if firstQuestionID == nil {
			stage = models.StageNone
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE applicants
			SET stage = $2, current_question_id = $3, updated_at = NOW()
			WHERE id = $1`,
			applicant.ID, stage, firstQuestionID)
		if err != nil {
			return fmt.Errorf("point at first question: %w", err)
		}
		return nil
	})
	if err != nil {
		return apperrors.NewStorageFailureError("start application", err)
	}

	s.invalidateCache(ctx, applicant.TelegramID)
	return nil
}

// AnswerRecord is one validated answer to persist.
type AnswerRecord struct {
	Applicant  *models.Applicant
	Question   *models.Question
	TextAnswer string
	PhotoPath  string
}

// Advance is the flow movement that must land together with the answer.
// A nil NextQuestionID with Complete set marks end of flow.
type Advance struct {
	NextQuestionID *int64
	Complete       bool
}

// SaveAnswer persists the response, the optional structured field and the
// applicant advancement in a single transaction: either the answer is
// durable and the state has advanced, or neither happened.
func (s *Store) SaveAnswer(ctx context.Context, rec AnswerRecord, adv Advance) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsertResponse(ctx, tx, rec.Applicant.ID, rec.Question.ID, rec.TextAnswer, rec.PhotoPath); err != nil {
			return fmt.Errorf("upsert response: %w", err)
		}

		if rec.Question.FieldName != "" {
			value := rec.TextAnswer
			if rec.PhotoPath != "" {
				value = rec.PhotoPath
			}
			if err := s.setApplicationField(ctx, tx, rec.Applicant.ID, rec.Question.FieldName, value); err != nil {
				return err
			}
		}

		if adv.Complete {
			_, err := tx.ExecContext(ctx, `
				UPDATE applicants
				SET stage = '', current_question_id = NULL,
					is_registration_complete = TRUE, updated_at = NOW()
				WHERE id = $1`,
				rec.Applicant.ID)
			if err != nil {
				return fmt.Errorf("mark applicant complete: %w", err)
			}

			// Idempotent: completed_at is written once and keeps its value
			// on any duplicate terminal trigger.
			_, err = tx.ExecContext(ctx, `
				UPDATE staff_applications
				SET status = $2, completed_at = NOW(), updated_at = NOW()
				WHERE applicant_id = $1 AND status <> $2`,
				rec.Applicant.ID, models.ApplicationStatusCompleted)
			if err != nil {
				return fmt.Errorf("complete application: %w", err)
			}
			return nil
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE applicants
			SET current_question_id = $2, updated_at = NOW()
			WHERE id = $1`,
			rec.Applicant.ID, adv.NextQuestionID)
		if err != nil {
			return fmt.Errorf("advance applicant: %w", err)
		}
		return nil
	})
	if err != nil {
		return apperrors.NewStorageFailureError("save answer", err)
	}

	s.invalidateCache(ctx, rec.Applicant.TelegramID)
	return nil
}

// setApplicationField writes one structured field through the typed column
// table. Unknown field names are skipped with a warning: the admin surface
// rejects them at configuration time, so hitting this path means the
// catalog changed under a live session.
func (s *Store) setApplicationField(ctx context.Context, tx *sql.Tx, applicantID int64, fieldName, value string) error {
	column, ok := applicationFieldColumns[fieldName]
	if !ok {
		s.logger.Warn("unknown application field, skipping", map[string]interface{}{
			"fieldName":   fieldName,
			"applicantId": applicantID,
		})
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE staff_applications
		SET %s = NULLIF($2, ''), updated_at = NOW()
		WHERE applicant_id = $1`, column)
	if _, err := tx.ExecContext(ctx, query, applicantID, value); err != nil {
		return fmt.Errorf("set field %s: %w", fieldName, err)
	}
	return nil
}

// GetApplication returns the staff application of an applicant.
func (s *Store) GetApplication(ctx context.Context, applicantID int64) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM staff_applications
		WHERE applicant_id = $1`, applicantID)

	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewApplicantNotFoundError(applicantID)
	}
	if err != nil {
		return nil, apperrors.NewStorageFailureError("get application", err)
	}
	return app, nil
}

// ListApplications returns every staff application, newest first.
func (s *Store) ListApplications(ctx context.Context) ([]*models.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM staff_applications
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.NewStorageFailureError("list applications", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, apperrors.NewStorageFailureError("list applications", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageFailureError("list applications", err)
	}
	return apps, nil
}

// SetApplicationStatus moves a reviewed application to approved/rejected.
func (s *Store) SetApplicationStatus(ctx context.Context, applicantID int64, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE staff_applications
		SET status = $2, updated_at = NOW()
		WHERE applicant_id = $1`,
		applicantID, status)
	if err != nil {
		return apperrors.NewStorageFailureError("set application status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStorageFailureError("set application status", err)
	}
	if affected == 0 {
		return apperrors.NewApplicantNotFoundError(applicantID)
	}
	return nil
}
