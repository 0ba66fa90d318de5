package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getAdminByEmail = `-- name: GetAdminByEmail :one
SELECT id, name, email, password, created_at, updated_at FROM admins
WHERE lower(email) = lower($1)
`

func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	row := q.db.QueryRow(ctx, getAdminByEmail, email)
	var i Admin
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Password,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertAdmin = `-- name: UpsertAdmin :one
INSERT INTO admins (id, name, email, password)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE
SET name       = EXCLUDED.name,
    password   = EXCLUDED.password,
    updated_at = now()
RETURNING id, name, email, password, created_at, updated_at
`

type UpsertAdminParams struct {
	ID       pgtype.UUID `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
}

func (q *Queries) UpsertAdmin(ctx context.Context, arg UpsertAdminParams) (Admin, error) {
	row := q.db.QueryRow(ctx, upsertAdmin,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Password,
	)
	var i Admin
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Password,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
