package postgres

import (
	"context"
	"database/sql"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/models"
)

// execer covers both *sql.DB and *sql.Tx so the response upsert can run
// inside the SaveAnswer transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// upsertResponse keeps exactly one row per (applicant, question) pair.
// Re-answering overwrites the previous value and bumps updated_at.
func upsertResponse(ctx context.Context, db execer, applicantID, questionID int64, textAnswer, photoPath string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO responses (applicant_id, question_id, text_answer, photo)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (applicant_id, question_id) DO UPDATE
		SET text_answer = EXCLUDED.text_answer, photo = EXCLUDED.photo, updated_at = NOW()`,
		applicantID, questionID, textAnswer, photoPath)
	return err
}

// ResponseView is a response joined with its question for review screens.
type ResponseView struct {
	models.Response
	QuestionText string `json:"questionText"`
	FieldName    string `json:"fieldName,omitempty"`
}

// ListResponses returns an applicant's answers in flow order.
func (s *Store) ListResponses(ctx context.Context, applicantID int64) ([]*ResponseView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.applicant_id, r.question_id, r.text_answer, r.photo,
			r.created_at, r.updated_at, q.text, q.field_name
		FROM responses r
		JOIN questions q ON q.id = r.question_id
		WHERE r.applicant_id = $1
		ORDER BY q."order", q.id`,
		applicantID)
	if err != nil {
		return nil, apperrors.NewStorageFailureError("list responses", err)
	}
	defer rows.Close()

	var views []*ResponseView
	for rows.Next() {
		var v ResponseView
		var textAnswer, photo, fieldName sql.NullString
		err := rows.Scan(
			&v.ID, &v.ApplicantID, &v.QuestionID, &textAnswer, &photo,
			&v.CreatedAt, &v.UpdatedAt, &v.QuestionText, &fieldName,
		)
		if err != nil {
			return nil, apperrors.NewStorageFailureError("list responses", err)
		}
		v.TextAnswer = textAnswer.String
		v.PhotoPath = photo.String
		v.FieldName = fieldName.String
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageFailureError("list responses", err)
	}
	return views, nil
}
