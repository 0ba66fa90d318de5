package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/database"
)

type Store interface {
	FindAdminByEmail(ctx context.Context, email string) (Admin, error)
	UpsertAdmin(ctx context.Context, admin Admin) (Admin, error)
}

type Repository struct {
	queries *database.Queries
}

func NewAdminStore(queries *database.Queries) *Repository {
	return &Repository{queries: queries}
}

func (r *Repository) FindAdminByEmail(ctx context.Context, email string) (Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.GetAdminByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, custom_errors.NotFound("admin")
		}
		return Admin{}, fmt.Errorf("error getting admin by email: %w", err)
	}

	return fromRow(data), nil
}

func (r *Repository) UpsertAdmin(ctx context.Context, admin Admin) (Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := r.queries.UpsertAdmin(ctx, database.UpsertAdminParams{
		ID:       database.NewID(),
		Name:     admin.Name,
		Email:    strings.ToLower(strings.TrimSpace(admin.Email)),
		Password: admin.Password,
	})
	if err != nil {
		return Admin{}, fmt.Errorf("error saving admin: %w", err)
	}

	return fromRow(data), nil
}

func fromRow(row database.Admin) Admin {
	return Admin{
		ID:       database.IDString(row.ID),
		Name:     row.Name,
		Email:    row.Email,
		Password: row.Password,
	}
}
