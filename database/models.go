package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Admin struct {
	ID        pgtype.UUID        `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Password  string             `json:"password"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Question struct {
	ID           pgtype.UUID        `json:"id"`
	QuestionText string             `json:"question_text"`
	QuestionType string             `json:"question_type"`
	Options      []byte             `json:"options"`
	IsRequired   bool               `json:"is_required"`
	SortOrder    int32              `json:"sort_order"`
	IsActive     bool               `json:"is_active"`
	Category     string             `json:"category"`
	FieldKey     pgtype.Text        `json:"field_key"`
	Validation   []byte             `json:"validation"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

type Response struct {
	ID             pgtype.UUID        `json:"id"`
	Answers        []byte             `json:"answers"`
	TotalQuestions int32              `json:"total_questions"`
	QuestionIds    []pgtype.UUID      `json:"question_ids"`
	Age            pgtype.Int4        `json:"age"`
	Gender         pgtype.Text        `json:"gender"`
	Occupation     pgtype.Text        `json:"occupation"`
	CompletedAt    pgtype.Timestamptz `json:"completed_at"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}
