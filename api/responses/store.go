package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/database"
	"github.com/Adedunmol/stresspulse/survey"
)

type Store interface {
	Create(ctx context.Context, rec survey.Record) (survey.Response, error)
	Get(ctx context.Context, id string) (survey.Response, error)
	Delete(ctx context.Context, id string) error
	// List returns the requested page, newest first, and the number of
	// responses matching filter.
	List(ctx context.Context, filter Filter, page survey.Page) ([]survey.Response, int64, error)
}

type Repository struct {
	queries *database.Queries
}

func NewResponseStore(queries *database.Queries) *Repository {
	return &Repository{queries: queries}
}

func (r *Repository) Create(ctx context.Context, rec survey.Record) (survey.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return survey.Response{}, fmt.Errorf("error encoding answers: %w", err)
	}

	questionIDs := make([]pgtype.UUID, 0, len(rec.QuestionIDs))
	for _, id := range rec.QuestionIDs {
		pgID, ok := database.ParseID(id)
		if !ok {
			return survey.Response{}, fmt.Errorf("error creating response: question id %q is not a uuid", id)
		}
		questionIDs = append(questionIDs, pgID)
	}

	params := database.CreateResponseParams{
		ID:             database.NewID(),
		Answers:        answers,
		TotalQuestions: int32(rec.TotalQuestions),
		QuestionIds:    questionIDs,
	}
	if age, ok := rec.Age(); ok {
		params.Age = pgtype.Int4{Int32: int32(age), Valid: true}
	}
	if gender, ok := rec.WellKnown(survey.FieldGender); ok {
		params.Gender = pgtype.Text{String: gender, Valid: true}
	}
	if occupation, ok := rec.WellKnown(survey.FieldOccupation); ok {
		params.Occupation = pgtype.Text{String: occupation, Valid: true}
	}

	row, err := r.queries.CreateResponse(ctx, params)
	if err != nil {
		return survey.Response{}, fmt.Errorf("error creating response: %w", err)
	}
	return fromRow(row)
}

func (r *Repository) Get(ctx context.Context, id string) (survey.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pgID, ok := database.ParseID(id)
	if !ok {
		return survey.Response{}, custom_errors.NotFound("Response")
	}

	row, err := r.queries.GetResponse(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return survey.Response{}, custom_errors.NotFound("Response")
		}
		return survey.Response{}, fmt.Errorf("error getting response: %w", err)
	}
	return fromRow(row)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pgID, ok := database.ParseID(id)
	if !ok {
		return custom_errors.NotFound("Response")
	}

	deleted, err := r.queries.DeleteResponse(ctx, pgID)
	if err != nil {
		return fmt.Errorf("error deleting response: %w", err)
	}
	if deleted == 0 {
		return custom_errors.NotFound("Response")
	}
	return nil
}

func (r *Repository) List(ctx context.Context, filter Filter, page survey.Page) ([]survey.Response, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var age pgtype.Int4
	if filter.Age != nil {
		age = pgtype.Int4{Int32: int32(*filter.Age), Valid: true}
	}
	gender := pgtype.Text{String: filter.Gender, Valid: filter.Gender != ""}
	occupation := pgtype.Text{String: escapeLike(filter.Occupation), Valid: filter.Occupation != ""}

	total, err := r.queries.CountResponses(ctx, database.CountResponsesParams{
		Age:        age,
		Gender:     gender,
		Occupation: occupation,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting responses: %w", err)
	}

	rows, err := r.queries.ListResponses(ctx, database.ListResponsesParams{
		Age:        age,
		Gender:     gender,
		Occupation: occupation,
		Limit:      int32(page.Limit),
		Offset:     int32(page.Offset()),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("error listing responses: %w", err)
	}

	out := make([]survey.Response, 0, len(rows))
	for _, row := range rows {
		resp, err := fromRow(row)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, resp)
	}
	return out, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func fromRow(row database.Response) (survey.Response, error) {
	resp := survey.Response{
		ID:             database.IDString(row.ID),
		Answers:        map[string]survey.Answer{},
		TotalQuestions: int(row.TotalQuestions),
		QuestionIDs:    make([]string, 0, len(row.QuestionIds)),
		Gender:         row.Gender.String,
		Occupation:     row.Occupation.String,
		CompletedAt:    row.CompletedAt.Time,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
	if row.Age.Valid {
		age := int(row.Age.Int32)
		resp.Age = &age
	}
	for _, id := range row.QuestionIds {
		resp.QuestionIDs = append(resp.QuestionIDs, database.IDString(id))
	}
	if len(row.Answers) > 0 {
		if err := json.Unmarshal(row.Answers, &resp.Answers); err != nil {
			return survey.Response{}, fmt.Errorf("error decoding answers of response %s: %w", resp.ID, err)
		}
	}
	return resp, nil
}
