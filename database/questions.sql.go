package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const questionColumns = `id, question_text, question_type, options, is_required, sort_order, is_active, category, field_key, validation, created_at, updated_at`

func scanQuestion(row interface{ Scan(...interface{}) error }) (Question, error) {
	var i Question
	err := row.Scan(
		&i.ID,
		&i.QuestionText,
		&i.QuestionType,
		&i.Options,
		&i.IsRequired,
		&i.SortOrder,
		&i.IsActive,
		&i.Category,
		&i.FieldKey,
		&i.Validation,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listQuestions(ctx context.Context, query string, args ...interface{}) ([]Question, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Question{}
	for rows.Next() {
		i, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listActiveQuestions = `-- name: ListActiveQuestions :many
SELECT ` + questionColumns + ` FROM questions
WHERE is_active = TRUE
ORDER BY sort_order ASC, created_at ASC
`

func (q *Queries) ListActiveQuestions(ctx context.Context) ([]Question, error) {
	return q.listQuestions(ctx, listActiveQuestions)
}

const listQuestions = `-- name: ListQuestions :many
SELECT ` + questionColumns + ` FROM questions
ORDER BY sort_order ASC, created_at ASC
`

func (q *Queries) ListQuestions(ctx context.Context) ([]Question, error) {
	return q.listQuestions(ctx, listQuestions)
}

const getQuestion = `-- name: GetQuestion :one
SELECT ` + questionColumns + ` FROM questions
WHERE id = $1
`

func (q *Queries) GetQuestion(ctx context.Context, id pgtype.UUID) (Question, error) {
	return scanQuestion(q.db.QueryRow(ctx, getQuestion, id))
}

const questionOrderTaken = `-- name: QuestionOrderTaken :one
SELECT EXISTS (
    SELECT 1 FROM questions
    WHERE sort_order = $1
      AND ($2::uuid IS NULL OR id <> $2::uuid)
)
`

type QuestionOrderTakenParams struct {
	SortOrder int32       `json:"sort_order"`
	ExcludeID pgtype.UUID `json:"exclude_id"`
}

func (q *Queries) QuestionOrderTaken(ctx context.Context, arg QuestionOrderTakenParams) (bool, error) {
	row := q.db.QueryRow(ctx, questionOrderTaken, arg.SortOrder, arg.ExcludeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createQuestion = `-- name: CreateQuestion :one
INSERT INTO questions (
    id, question_text, question_type, options, is_required, sort_order, is_active, category, field_key, validation
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
)
RETURNING ` + questionColumns

type CreateQuestionParams struct {
	ID           pgtype.UUID `json:"id"`
	QuestionText string      `json:"question_text"`
	QuestionType string      `json:"question_type"`
	Options      []byte      `json:"options"`
	IsRequired   bool        `json:"is_required"`
	SortOrder    int32       `json:"sort_order"`
	IsActive     bool        `json:"is_active"`
	Category     string      `json:"category"`
	FieldKey     pgtype.Text `json:"field_key"`
	Validation   []byte      `json:"validation"`
}

func (q *Queries) CreateQuestion(ctx context.Context, arg CreateQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, createQuestion,
		arg.ID,
		arg.QuestionText,
		arg.QuestionType,
		arg.Options,
		arg.IsRequired,
		arg.SortOrder,
		arg.IsActive,
		arg.Category,
		arg.FieldKey,
		arg.Validation,
	)
	return scanQuestion(row)
}

const updateQuestion = `-- name: UpdateQuestion :one
UPDATE questions
SET question_text = $2,
    question_type = $3,
    options       = $4,
    is_required   = $5,
    sort_order    = $6,
    is_active     = $7,
    category      = $8,
    field_key     = $9,
    validation    = $10,
    updated_at    = now()
WHERE id = $1
RETURNING ` + questionColumns

type UpdateQuestionParams struct {
	ID           pgtype.UUID `json:"id"`
	QuestionText string      `json:"question_text"`
	QuestionType string      `json:"question_type"`
	Options      []byte      `json:"options"`
	IsRequired   bool        `json:"is_required"`
	SortOrder    int32       `json:"sort_order"`
	IsActive     bool        `json:"is_active"`
	Category     string      `json:"category"`
	FieldKey     pgtype.Text `json:"field_key"`
	Validation   []byte      `json:"validation"`
}

func (q *Queries) UpdateQuestion(ctx context.Context, arg UpdateQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, updateQuestion,
		arg.ID,
		arg.QuestionText,
		arg.QuestionType,
		arg.Options,
		arg.IsRequired,
		arg.SortOrder,
		arg.IsActive,
		arg.Category,
		arg.FieldKey,
		arg.Validation,
	)
	return scanQuestion(row)
}

const setQuestionOrder = `-- name: SetQuestionOrder :execrows
UPDATE questions
SET sort_order = $2,
    updated_at = now()
WHERE id = $1
`

type SetQuestionOrderParams struct {
	ID        pgtype.UUID `json:"id"`
	SortOrder int32       `json:"sort_order"`
}

func (q *Queries) SetQuestionOrder(ctx context.Context, arg SetQuestionOrderParams) (int64, error) {
	result, err := q.db.Exec(ctx, setQuestionOrder, arg.ID, arg.SortOrder)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const toggleQuestion = `-- name: ToggleQuestion :one
UPDATE questions
SET is_active  = NOT is_active,
    updated_at = now()
WHERE id = $1
RETURNING ` + questionColumns

func (q *Queries) ToggleQuestion(ctx context.Context, id pgtype.UUID) (Question, error) {
	return scanQuestion(q.db.QueryRow(ctx, toggleQuestion, id))
}

const deleteQuestion = `-- name: DeleteQuestion :execrows
DELETE FROM questions
WHERE id = $1
`

func (q *Queries) DeleteQuestion(ctx context.Context, id pgtype.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteQuestion, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
