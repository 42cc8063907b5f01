package postgres

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/models"
)

const questionColumns = `id, "order", question_type, text, choices, image, field_name,
	is_required, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var choices, image, fieldName sql.NullString
	err := row.Scan(
		&q.ID, &q.Order, &q.Type, &q.Text, &choices, &image, &fieldName,
		&q.IsRequired, &q.IsActive, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.Choices = choices.String
	q.Image = image.String
	q.FieldName = fieldName.String
	return &q, nil
}

// FirstQuestion returns the active question with the smallest (order, id),
// or nil when no active questions exist.
func (s *Store) FirstQuestion(ctx context.Context) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE is_active = TRUE
		ORDER BY "order", id
		LIMIT 1`)

	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageFailureError("first question", err)
	}
	return q, nil
}

// NextQuestion returns the active question strictly after (afterOrder,
// afterID), or nil at end of flow. Ties on "order" are broken by id, so the
// traversal is monotonic and never revisits or skips a question.
func (s *Store) NextQuestion(ctx context.Context, afterOrder int, afterID int64) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE is_active = TRUE AND ("order", id) > ($1, $2)
		ORDER BY "order", id
		LIMIT 1`,
		afterOrder, afterID)

	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageFailureError("next question", err)
	}
	return q, nil
}

// QuestionByID returns a question regardless of its active flag; the flow
// engine decides how to treat deactivated questions in stale sessions.
func (s *Store) QuestionByID(ctx context.Context, id int64) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE id = $1`, id)

	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewQuestionNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewStorageFailureError("question by id", err)
	}
	return q, nil
}

// ListQuestions returns every question, active or not, in flow order.
func (s *Store) ListQuestions(ctx context.Context) ([]*models.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		ORDER BY "order", id`)
	if err != nil {
		return nil, apperrors.NewStorageFailureError("list questions", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, apperrors.NewStorageFailureError("list questions", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageFailureError("list questions", err)
	}
	return questions, nil
}

// CreateQuestion inserts a question and returns it with its assigned id.
func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO questions ("order", question_type, text, choices, image, field_name, is_required, is_active)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)
		RETURNING `+questionColumns,
		q.Order, q.Type, q.Text, q.Choices, q.Image, q.FieldName, q.IsRequired, q.IsActive)

	created, err := scanQuestion(row)
	if err != nil {
		return nil, apperrors.NewStorageFailureError("create question", err)
	}
	return created, nil
}

// UpdateQuestion overwrites every editable column of a question.
func (s *Store) UpdateQuestion(ctx context.Context, q *models.Question) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE questions
		SET "order" = $2, question_type = $3, text = $4, choices = NULLIF($5, ''),
			image = NULLIF($6, ''), field_name = NULLIF($7, ''),
			is_required = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING `+questionColumns,
		q.ID, q.Order, q.Type, q.Text, q.Choices, q.Image, q.FieldName, q.IsRequired, q.IsActive)

	updated, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewQuestionNotFoundError(q.ID)
	}
	if err != nil {
		return nil, apperrors.NewStorageFailureError("update question", err)
	}
	return updated, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return apperrors.NewStorageFailureError("delete question", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStorageFailureError("delete question", err)
	}
	if affected == 0 {
		return apperrors.NewQuestionNotFoundError(id)
	}
	return nil
}
