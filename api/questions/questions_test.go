package questions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/api/questions"
	"github.com/Adedunmol/stresspulse/survey"
)

// ============================================================================
// Stubs
// ============================================================================

type StubQuestionStore struct {
	Questions      []survey.Question
	ShouldFailList bool
	clock          time.Time
}

func (s *StubQuestionStore) sorted(activeOnly bool) []survey.Question {
	out := []survey.Question{}
	for _, q := range s.Questions {
		if activeOnly && !q.IsActive {
			continue
		}
		out = append(out, q)
	}
	survey.SortQuestions(out)
	return out
}

func (s *StubQuestionStore) index(id string) int {
	for i, q := range s.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func (s *StubQuestionStore) orderTaken(order int, exclude string) bool {
	for _, q := range s.Questions {
		if q.Order == order && q.ID != exclude {
			return true
		}
	}
	return false
}

func (s *StubQuestionStore) ListActive(context.Context) ([]survey.Question, error) {
	if s.ShouldFailList {
		return nil, errors.New("database error")
	}
	return s.sorted(true), nil
}

func (s *StubQuestionStore) ListAll(context.Context) ([]survey.Question, error) {
	if s.ShouldFailList {
		return nil, errors.New("database error")
	}
	return s.sorted(false), nil
}

func (s *StubQuestionStore) Get(_ context.Context, id string) (survey.Question, error) {
	i := s.index(id)
	if i < 0 {
		return survey.Question{}, custom_errors.NotFound("Question")
	}
	return s.Questions[i], nil
}

func (s *StubQuestionStore) Create(_ context.Context, q survey.Question) (survey.Question, error) {
	if s.orderTaken(q.Order, "") {
		return survey.Question{}, questions.ErrOrderInUse(q.Order)
	}
	s.clock = s.clock.Add(time.Second)
	q.ID = fmt.Sprintf("q%d", len(s.Questions)+1)
	q.CreatedAt, q.UpdatedAt = s.clock, s.clock
	s.Questions = append(s.Questions, q)
	return q, nil
}

func (s *StubQuestionStore) Update(_ context.Context, q survey.Question) (survey.Question, error) {
	i := s.index(q.ID)
	if i < 0 {
		return survey.Question{}, custom_errors.NotFound("Question")
	}
	if s.orderTaken(q.Order, q.ID) {
		return survey.Question{}, questions.ErrOrderInUse(q.Order)
	}
	s.Questions[i] = q
	return q, nil
}

func (s *StubQuestionStore) Delete(_ context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return custom_errors.NotFound("Question")
	}
	s.Questions = append(s.Questions[:i], s.Questions[i+1:]...)
	return nil
}

func (s *StubQuestionStore) Reorder(_ context.Context, changes []questions.OrderChange) ([]survey.Question, error) {
	next := make([]survey.Question, len(s.Questions))
	copy(next, s.Questions)
	for _, c := range changes {
		i := s.index(c.ID)
		if i < 0 {
			return nil, custom_errors.NotFound("Question")
		}
		next[i].Order = *c.Order
	}
	seen := map[int]bool{}
	for _, q := range next {
		if seen[q.Order] {
			return nil, custom_errors.NewValidationError("reordered questions must not share an order with any other question")
		}
		seen[q.Order] = true
	}
	s.Questions = next
	return s.sorted(false), nil
}

func (s *StubQuestionStore) Toggle(_ context.Context, id string) (survey.Question, error) {
	i := s.index(id)
	if i < 0 {
		return survey.Question{}, custom_errors.NotFound("Question")
	}
	s.Questions[i].IsActive = !s.Questions[i].IsActive
	return s.Questions[i], nil
}

// ============================================================================
// Helpers
// ============================================================================

func allowAll(next http.Handler) http.Handler { return next }

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func newRouter(store questions.Store, auth func(http.Handler) http.Handler) http.Handler {
	return newRouterWithCache(store, nil, auth)
}

func newRouterWithCache(store questions.Store, cache questions.CacheInvalidator, auth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		questions.SetupRoutes(r, store, cache, auth, zap.NewNop())
	})
	return r
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func radio(text string, order int) map[string]interface{} {
	return map[string]interface{}{
		"questionText": text,
		"questionType": "radio",
		"order":        order,
		"options": []map[string]string{
			{"text": "Male", "value": "male"},
			{"text": "Female", "value": "female"},
		},
	}
}

type CountingCache struct {
	Invalidations int
	ShouldFail    bool
}

func (c *CountingCache) Invalidate(context.Context) error {
	c.Invalidations++
	if c.ShouldFail {
		return errors.New("redis unavailable")
	}
	return nil
}

// ============================================================================
// Tests
// ============================================================================

func TestCreateQuestion(t *testing.T) {
	t.Run("applies defaults and lists in order", func(t *testing.T) {
		store := &StubQuestionStore{}
		router := newRouter(store, allowAll)

		rec := do(t, router, http.MethodPost, "/api/questions", map[string]interface{}{"questionText": "  What is your age?  ", "order": 5})
		require.Equal(t, http.StatusCreated, rec.Code)

		created := decode[survey.Question](t, rec)
		assert.Equal(t, "What is your age?", created.QuestionText)
		assert.Equal(t, survey.TypeText, created.QuestionType)
		assert.Equal(t, survey.CategoryGeneral, created.Category)
		assert.True(t, created.IsRequired)
		assert.True(t, created.IsActive)

		rec = do(t, router, http.MethodPost, "/api/questions", radio("Gender", 1))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = do(t, router, http.MethodGet, "/api/questions", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listed := decode[[]survey.Question](t, rec)
		require.Len(t, listed, 2)
		assert.Equal(t, 1, listed[0].Order)
		assert.Equal(t, 5, listed[1].Order)
	})

	t.Run("rejects a duplicate order", func(t *testing.T) {
		store := &StubQuestionStore{}
		router := newRouter(store, allowAll)

		require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", radio("Gender", 5)).Code)

		rec := do(t, router, http.MethodPost, "/api/questions", radio("Sex", 5))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Order 5 is already in use.", decode[map[string]interface{}](t, rec)["message"])
		assert.Len(t, store.Questions, 1)
	})

	t.Run("rejects an invalid definition with every problem", func(t *testing.T) {
		router := newRouter(&StubQuestionStore{}, allowAll)

		rec := do(t, router, http.MethodPost, "/api/questions", map[string]interface{}{
			"questionText": "Pick",
			"questionType": "checkbox",
			"category":     "coping",
			"options": []map[string]string{
				{"text": "A", "value": "a"},
				{"text": "Also A", "value": "a"},
				{"text": "", "value": "b"},
			},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[map[string]interface{}](t, rec)
		assert.Equal(t, "invalid question", body["message"])
		assert.ElementsMatch(t, []interface{}{
			`option value "a" is used more than once`,
			"option 3 needs both text and value",
		}, body["errors"])
	})

	t.Run("rejects unknown enum values", func(t *testing.T) {
		router := newRouter(&StubQuestionStore{}, allowAll)

		rec := do(t, router, http.MethodPost, "/api/questions", map[string]interface{}{
			"questionText": "Pick", "questionType": "dropdown",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetQuestion(t *testing.T) {
	store := &StubQuestionStore{}
	router := newRouter(store, allowAll)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", radio("Gender", 1)).Code)

	rec := do(t, router, http.MethodGet, "/api/questions/q1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gender", decode[survey.Question](t, rec).QuestionText)

	rec = do(t, router, http.MethodGet, "/api/questions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Question not found", decode[map[string]interface{}](t, rec)["message"])
}

func TestUpdateQuestion(t *testing.T) {
	store := &StubQuestionStore{}
	router := newRouter(store, allowAll)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", radio("Gender", 1)).Code)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", map[string]interface{}{"questionText": "Occupation", "order": 2}).Code)

	t.Run("patches only supplied fields", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, "/api/questions/q1", map[string]interface{}{"questionText": "Your gender", "order": 1})
		require.Equal(t, http.StatusOK, rec.Code)

		updated := decode[survey.Question](t, rec)
		assert.Equal(t, "Your gender", updated.QuestionText)
		assert.Equal(t, survey.TypeRadio, updated.QuestionType)
		assert.Len(t, updated.Options, 2)
	})

	t.Run("rejects another question's order", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, "/api/questions/q1", map[string]interface{}{"order": 2})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Order 2 is already in use.", decode[map[string]interface{}](t, rec)["message"])
	})

	t.Run("rejects dropping the options of a radio question", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, "/api/questions/q1", map[string]interface{}{"options": []interface{}{}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing question", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, "/api/questions/nope", map[string]interface{}{"order": 9})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteQuestion(t *testing.T) {
	store := &StubQuestionStore{}
	router := newRouter(store, allowAll)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", radio("Gender", 1)).Code)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", map[string]interface{}{"questionText": "Occupation", "order": 2}).Code)

	rec := do(t, router, http.MethodDelete, "/api/questions/q1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Question deleted successfully", decode[map[string]interface{}](t, rec)["message"])

	require.Len(t, store.Questions, 1)
	assert.Equal(t, 2, store.Questions[0].Order)

	rec = do(t, router, http.MethodDelete, "/api/questions/q1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReorderQuestions(t *testing.T) {
	setup := func() (*StubQuestionStore, http.Handler) {
		store := &StubQuestionStore{}
		router := newRouter(store, allowAll)
		for i, text := range []string{"A", "B", "C"} {
			require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", map[string]interface{}{"questionText": text, "order": i + 1}).Code)
		}
		return store, router
	}

	t.Run("swaps orders atomically", func(t *testing.T) {
		_, router := setup()

		rec := do(t, router, http.MethodPut, "/api/questions/reorder", map[string]interface{}{
			"questionOrders": []map[string]interface{}{{"id": "q1", "order": 3}, {"id": "q3", "order": 1}},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		listed := decode[[]survey.Question](t, rec)
		require.Len(t, listed, 3)
		assert.Equal(t, []string{"C", "B", "A"}, []string{listed[0].QuestionText, listed[1].QuestionText, listed[2].QuestionText})
	})

	t.Run("rejects duplicate orders inside the batch", func(t *testing.T) {
		store, router := setup()

		rec := do(t, router, http.MethodPut, "/api/questions/reorder", map[string]interface{}{
			"questionOrders": []map[string]interface{}{{"id": "q1", "order": 7}, {"id": "q2", "order": 7}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 1, store.Questions[0].Order)
	})

	t.Run("rejects a collision with a question outside the batch", func(t *testing.T) {
		store, router := setup()

		rec := do(t, router, http.MethodPut, "/api/questions/reorder", map[string]interface{}{
			"questionOrders": []map[string]interface{}{{"id": "q1", "order": 2}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 1, store.Questions[0].Order)
	})

	t.Run("unknown id applies nothing", func(t *testing.T) {
		store, router := setup()

		rec := do(t, router, http.MethodPut, "/api/questions/reorder", map[string]interface{}{
			"questionOrders": []map[string]interface{}{{"id": "q1", "order": 9}, {"id": "zzz", "order": 10}},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, 1, store.Questions[0].Order)
	})

	t.Run("requires at least one change", func(t *testing.T) {
		_, router := setup()

		rec := do(t, router, http.MethodPut, "/api/questions/reorder", map[string]interface{}{"questionOrders": []interface{}{}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestToggleQuestion(t *testing.T) {
	store := &StubQuestionStore{}
	router := newRouter(store, allowAll)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", radio("Gender", 1)).Code)

	rec := do(t, router, http.MethodPut, "/api/questions/q1/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[survey.Question](t, rec).IsActive)

	active := decode[[]survey.Question](t, do(t, router, http.MethodGet, "/api/questions", nil))
	assert.Empty(t, active)

	all := decode[[]survey.Question](t, do(t, router, http.MethodGet, "/api/questions/admin", nil))
	assert.Len(t, all, 1)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPut, "/api/questions/nope/toggle", nil).Code)
}

func TestFormHandler(t *testing.T) {
	store := &StubQuestionStore{}
	router := newRouter(store, allowAll)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", radio("Gender", 2)).Code)
	for i, text := range []string{"Age", "Occupation"} {
		require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/questions", map[string]interface{}{"questionText": text, "order": i*2 + 1}).Code)
	}

	rec := do(t, router, http.MethodGet, "/api/questions/form?batchSize=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	form := decode[survey.Form](t, rec)
	assert.Equal(t, 3, form.TotalQuestions)
	require.Equal(t, 2, form.TotalPages)
	require.Len(t, form.Pages[0].Questions, 2)
	assert.Equal(t, "Age", form.Pages[0].Questions[0].QuestionText)
	assert.Equal(t, survey.WidgetRadioGroup, form.Pages[0].Questions[1].Widget)
	assert.Equal(t, survey.WidgetInput, form.Pages[1].Questions[0].Widget)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/questions/form?batchSize=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/questions/form?batchSize=abc", nil).Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	store := &StubQuestionStore{Questions: []survey.Question{{ID: "q1", QuestionText: "Age", Order: 1, IsActive: true}}}
	router := newRouter(store, denyAll)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/questions", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/questions/q1", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/questions/form", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/questions/admin", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodPost, "/api/questions", radio("Gender", 2)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodDelete, "/api/questions/q1", nil).Code)
}

func TestStoreFailure(t *testing.T) {
	router := newRouter(&StubQuestionStore{ShouldFailList: true}, allowAll)

	rec := do(t, router, http.MethodGet, "/api/questions", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "database error", decode[map[string]interface{}](t, rec)["message"])
}

func TestQuestionChangesInvalidateCache(t *testing.T) {
	store := &StubQuestionStore{}
	cache := &CountingCache{}
	router := newRouterWithCache(store, cache, allowAll)

	rec := do(t, router, http.MethodPost, "/api/questions", radio("Gender", 1))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[survey.Question](t, rec).ID
	assert.Equal(t, 1, cache.Invalidations)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodPut, "/api/questions/"+id, map[string]interface{}{"category": "stress"}).Code)
	assert.Equal(t, 2, cache.Invalidations)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodPut, "/api/questions/"+id+"/toggle", nil).Code)
	assert.Equal(t, 3, cache.Invalidations)

	reorder := map[string]interface{}{"questionOrders": []map[string]interface{}{{"id": id, "order": 7}}}
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPut, "/api/questions/reorder", reorder).Code)
	assert.Equal(t, 4, cache.Invalidations)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodDelete, "/api/questions/"+id, nil).Code)
	assert.Equal(t, 5, cache.Invalidations)

	t.Run("reads leave the cache alone", func(t *testing.T) {
		before := cache.Invalidations
		do(t, router, http.MethodGet, "/api/questions", nil)
		do(t, router, http.MethodGet, "/api/questions/admin", nil)
		assert.Equal(t, before, cache.Invalidations)
	})

	t.Run("a failing cache does not fail the change", func(t *testing.T) {
		cache.ShouldFail = true
		rec := do(t, router, http.MethodPost, "/api/questions", radio("Sex", 2))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}
