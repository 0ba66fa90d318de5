package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const responseColumns = `id, answers, total_questions, question_ids, age, gender, occupation, completed_at, created_at, updated_at`

func scanResponse(row interface{ Scan(...interface{}) error }) (Response, error) {
	var i Response
	err := row.Scan(
		&i.ID,
		&i.Answers,
		&i.TotalQuestions,
		&i.QuestionIds,
		&i.Age,
		&i.Gender,
		&i.Occupation,
		&i.CompletedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createResponse = `-- name: CreateResponse :one
INSERT INTO responses (
    id, answers, total_questions, question_ids, age, gender, occupation
) VALUES (
    $1, $2, $3, $4, $5, $6, $7
)
RETURNING ` + responseColumns

type CreateResponseParams struct {
	ID             pgtype.UUID   `json:"id"`
	Answers        []byte        `json:"answers"`
	TotalQuestions int32         `json:"total_questions"`
	QuestionIds    []pgtype.UUID `json:"question_ids"`
	Age            pgtype.Int4   `json:"age"`
	Gender         pgtype.Text   `json:"gender"`
	Occupation     pgtype.Text   `json:"occupation"`
}

func (q *Queries) CreateResponse(ctx context.Context, arg CreateResponseParams) (Response, error) {
	row := q.db.QueryRow(ctx, createResponse,
		arg.ID,
		arg.Answers,
		arg.TotalQuestions,
		arg.QuestionIds,
		arg.Age,
		arg.Gender,
		arg.Occupation,
	)
	return scanResponse(row)
}

const getResponse = `-- name: GetResponse :one
SELECT ` + responseColumns + ` FROM responses
WHERE id = $1
`

func (q *Queries) GetResponse(ctx context.Context, id pgtype.UUID) (Response, error) {
	return scanResponse(q.db.QueryRow(ctx, getResponse, id))
}

const deleteResponse = `-- name: DeleteResponse :execrows
DELETE FROM responses
WHERE id = $1
`

func (q *Queries) DeleteResponse(ctx context.Context, id pgtype.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteResponse, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// Filters are optional: a NULL parameter disables its condition. The
// occupation parameter is a LIKE pattern escaped by the caller.
const responseFilter = `
WHERE ($1::int IS NULL OR age = $1::int)
  AND ($2::text IS NULL OR gender = $2::text)
  AND ($3::text IS NULL OR occupation ILIKE '%' || $3::text || '%')
`

const listResponses = `-- name: ListResponses :many
SELECT ` + responseColumns + ` FROM responses` + responseFilter + `ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5
`

type ListResponsesParams struct {
	Age        pgtype.Int4 `json:"age"`
	Gender     pgtype.Text `json:"gender"`
	Occupation pgtype.Text `json:"occupation"`
	Limit      int32       `json:"limit"`
	Offset     int32       `json:"offset"`
}

func (q *Queries) ListResponses(ctx context.Context, arg ListResponsesParams) ([]Response, error) {
	rows, err := q.db.Query(ctx, listResponses,
		arg.Age,
		arg.Gender,
		arg.Occupation,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Response{}
	for rows.Next() {
		i, err := scanResponse(rows)
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

const countResponses = `-- name: CountResponses :one
SELECT count(*) FROM responses` + responseFilter

type CountResponsesParams struct {
	Age        pgtype.Int4 `json:"age"`
	Gender     pgtype.Text `json:"gender"`
	Occupation pgtype.Text `json:"occupation"`
}

func (q *Queries) CountResponses(ctx context.Context, arg CountResponsesParams) (int64, error) {
	row := q.db.QueryRow(ctx, countResponses, arg.Age, arg.Gender, arg.Occupation)
	var count int64
	err := row.Scan(&count)
	return count, err
}
