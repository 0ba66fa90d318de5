package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/database"
	"github.com/Adedunmol/stresspulse/survey"
)

type Store interface {
	ListActive(ctx context.Context) ([]survey.Question, error)
	ListAll(ctx context.Context) ([]survey.Question, error)
	Get(ctx context.Context, id string) (survey.Question, error)
	Create(ctx context.Context, q survey.Question) (survey.Question, error)
	Update(ctx context.Context, q survey.Question) (survey.Question, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, changes []OrderChange) ([]survey.Question, error)
	Toggle(ctx context.Context, id string) (survey.Question, error)
}

const UniqueViolation = "23505"

// ErrOrderInUse builds the error reported when order collides with another
// question.
func ErrOrderInUse(order int) error {
	return custom_errors.NewValidationError(fmt.Sprintf("Order %d is already in use.", order))
}

type Repository struct {
	queries    *database.Queries
	transactor database.Transactor
}

func NewQuestionStore(queries *database.Queries, transactor database.Transactor) *Repository {
	return &Repository{queries: queries, transactor: transactor}
}

func (r *Repository) ListActive(ctx context.Context) ([]survey.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.queries.ListActiveQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing active questions: %w", err)
	}
	return fromRows(rows)
}

func (r *Repository) ListAll(ctx context.Context) ([]survey.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.queries.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	return fromRows(rows)
}

func (r *Repository) Get(ctx context.Context, id string) (survey.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pgID, ok := database.ParseID(id)
	if !ok {
		return survey.Question{}, custom_errors.NotFound("Question")
	}

	row, err := r.queries.GetQuestion(ctx, pgID)
	if err != nil {
		return survey.Question{}, questionError("getting question", err)
	}
	return fromRow(row)
}

func (r *Repository) Create(ctx context.Context, q survey.Question) (survey.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.checkOrder(ctx, q.Order, pgtype.UUID{}); err != nil {
		return survey.Question{}, err
	}

	options, validation, err := encodeQuestion(q)
	if err != nil {
		return survey.Question{}, err
	}

	row, err := r.queries.CreateQuestion(ctx, database.CreateQuestionParams{
		ID:           database.NewID(),
		QuestionText: q.QuestionText,
		QuestionType: string(q.QuestionType),
		Options:      options,
		IsRequired:   q.IsRequired,
		SortOrder:    int32(q.Order),
		IsActive:     q.IsActive,
		Category:     string(q.Category),
		FieldKey:     pgtype.Text{String: q.FieldKey, Valid: q.FieldKey != ""},
		Validation:   validation,
	})
	if err != nil {
		return survey.Question{}, orderError(q.Order, questionError("creating question", err))
	}
	return fromRow(row)
}

func (r *Repository) Update(ctx context.Context, q survey.Question) (survey.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pgID, ok := database.ParseID(q.ID)
	if !ok {
		return survey.Question{}, custom_errors.NotFound("Question")
	}

	if err := r.checkOrder(ctx, q.Order, pgID); err != nil {
		return survey.Question{}, err
	}

	options, validation, err := encodeQuestion(q)
	if err != nil {
		return survey.Question{}, err
	}

	row, err := r.queries.UpdateQuestion(ctx, database.UpdateQuestionParams{
		ID:           pgID,
		QuestionText: q.QuestionText,
		QuestionType: string(q.QuestionType),
		Options:      options,
		IsRequired:   q.IsRequired,
		SortOrder:    int32(q.Order),
		IsActive:     q.IsActive,
		Category:     string(q.Category),
		FieldKey:     pgtype.Text{String: q.FieldKey, Valid: q.FieldKey != ""},
		Validation:   validation,
	})
	if err != nil {
		return survey.Question{}, orderError(q.Order, questionError("updating question", err))
	}
	return fromRow(row)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pgID, ok := database.ParseID(id)
	if !ok {
		return custom_errors.NotFound("Question")
	}

	deleted, err := r.queries.DeleteQuestion(ctx, pgID)
	if err != nil {
		return fmt.Errorf("error deleting question: %w", err)
	}
	if deleted == 0 {
		return custom_errors.NotFound("Question")
	}
	return nil
}

// Reorder applies every change in one transaction. The unique constraint on
// the order column is checked at commit, so intermediate states may collide
// but the final one may not. A failed reorder leaves every order unchanged;
// callers that expect a partially applied batch on error will not get one.
func (r *Repository) Reorder(ctx context.Context, changes []OrderChange) ([]survey.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := r.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		q := r.queries.QueriesFor(ctx)

		for _, change := range changes {
			pgID, ok := database.ParseID(change.ID)
			if !ok {
				return custom_errors.NotFound("Question")
			}

			updated, err := q.SetQuestionOrder(ctx, database.SetQuestionOrderParams{
				ID:        pgID,
				SortOrder: int32(*change.Order),
			})
			if err != nil {
				return fmt.Errorf("error setting order of question %s: %w", change.ID, err)
			}
			if updated == 0 {
				return custom_errors.NotFound("Question")
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, custom_errors.NewValidationError("reordered questions must not share an order with any other question")
		}
		return nil, err
	}

	return r.ListAll(ctx)
}

func (r *Repository) Toggle(ctx context.Context, id string) (survey.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pgID, ok := database.ParseID(id)
	if !ok {
		return survey.Question{}, custom_errors.NotFound("Question")
	}

	row, err := r.queries.ToggleQuestion(ctx, pgID)
	if err != nil {
		return survey.Question{}, questionError("toggling question", err)
	}
	return fromRow(row)
}

func (r *Repository) checkOrder(ctx context.Context, order int, exclude pgtype.UUID) error {
	taken, err := r.queries.QuestionOrderTaken(ctx, database.QuestionOrderTakenParams{
		SortOrder: int32(order),
		ExcludeID: exclude,
	})
	if err != nil {
		return fmt.Errorf("error checking question order: %w", err)
	}
	if taken {
		return ErrOrderInUse(order)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == UniqueViolation
}

// orderError reports a unique violation that slipped past checkOrder the
// same way checkOrder would have.
func orderError(order int, err error) error {
	if isUniqueViolation(err) {
		return ErrOrderInUse(order)
	}
	return err
}

func questionError(action string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return custom_errors.NotFound("Question")
	}
	return fmt.Errorf("error %s: %w", action, err)
}

func encodeQuestion(q survey.Question) (options, validation []byte, err error) {
	opts := q.Options
	if opts == nil {
		opts = []survey.Option{}
	}
	options, err = json.Marshal(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("error encoding options: %w", err)
	}
	if q.Validation != nil {
		validation, err = json.Marshal(q.Validation)
		if err != nil {
			return nil, nil, fmt.Errorf("error encoding validation rules: %w", err)
		}
	}
	return options, validation, nil
}

func fromRow(row database.Question) (survey.Question, error) {
	q := survey.Question{
		ID:           database.IDString(row.ID),
		QuestionText: row.QuestionText,
		QuestionType: survey.QuestionType(row.QuestionType),
		Options:      []survey.Option{},
		IsRequired:   row.IsRequired,
		Order:        int(row.SortOrder),
		IsActive:     row.IsActive,
		Category:     survey.Category(row.Category),
		FieldKey:     row.FieldKey.String,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}

	if len(row.Options) > 0 {
		if err := json.Unmarshal(row.Options, &q.Options); err != nil {
			return survey.Question{}, fmt.Errorf("error decoding options of question %s: %w", q.ID, err)
		}
	}
	if len(row.Validation) > 0 {
		var rules survey.Rules
		if err := json.Unmarshal(row.Validation, &rules); err != nil {
			return survey.Question{}, fmt.Errorf("error decoding validation rules of question %s: %w", q.ID, err)
		}
		if !rules.IsZero() {
			q.Validation = &rules
		}
	}
	return q, nil
}

func fromRows(rows []database.Question) ([]survey.Question, error) {
	qs := make([]survey.Question, 0, len(rows))
	for _, row := range rows {
		q, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, nil
}
