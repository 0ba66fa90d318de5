package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api/dashboard"
	"github.com/Adedunmol/stresspulse/api/responses"
	"github.com/Adedunmol/stresspulse/survey"
)

type StubResponseSource struct {
	Responses  []survey.Response
	Total      int64
	Calls      int
	LastPage   survey.Page
	ShouldFail bool
}

func (s *StubResponseSource) List(_ context.Context, _ responses.Filter, page survey.Page) ([]survey.Response, int64, error) {
	s.Calls++
	s.LastPage = page
	if s.ShouldFail {
		return nil, 0, errors.New("database error")
	}
	return s.Responses, s.Total, nil
}

type StubQuestionSource struct {
	Questions []survey.Question
}

func (s *StubQuestionSource) ListAll(context.Context) ([]survey.Question, error) {
	return s.Questions, nil
}

type MemoryCache struct {
	Entries       map[string][]byte
	Invalidations int
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.Entries[key]
	return v, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.Entries[key] = value
	return nil
}

func (c *MemoryCache) Invalidate(context.Context) error {
	c.Invalidations++
	c.Entries = map[string][]byte{}
	return nil
}

func fixture() (*dashboard.Handler, *StubResponseSource, *MemoryCache) {
	questions := []survey.Question{
		{ID: "c1", QuestionText: "How do you cope?", QuestionType: survey.TypeCheckbox, Category: survey.CategoryCoping, Order: 3},
		{ID: "s1", QuestionText: "How stressed are you?", QuestionType: survey.TypeRadio, Category: survey.CategoryStress, Order: 4},
		{ID: "w1", QuestionText: "Hours of work", QuestionType: survey.TypeText, Category: survey.CategoryGeneral, Order: 5},
	}
	source := &StubResponseSource{
		Total: 1500,
		Responses: []survey.Response{
			{Gender: "male", Occupation: "nurse", Answers: map[string]survey.Answer{
				"c1": survey.MultiChoice("sleep", "music"), "s1": survey.Text("high"), "w1": survey.Text("40"),
			}},
			{Gender: "female", Occupation: "student", Answers: map[string]survey.Answer{
				"c1": survey.MultiChoice("music"), "s1": survey.Text("low"), "w1": survey.Text("40"),
			}},
			{Gender: "female", Occupation: "nurse", Answers: map[string]survey.Answer{
				"s1": survey.Text("high"), "w1": survey.Text("20"),
			}},
		},
	}
	cache := &MemoryCache{Entries: map[string][]byte{}}

	handler := &dashboard.Handler{
		Responses: source,
		Questions: &StubQuestionSource{Questions: questions},
		Cache:     cache,
		CacheTTL:  time.Minute,
		Defaults:  dashboard.Defaults{Category: survey.CategoryCoping, Pattern: "stress"},
		Log:       zap.NewNop(),
	}
	return handler, source, cache
}

func get(t *testing.T, handler *dashboard.Handler, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.SummaryHandler(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return rec, got
}

func TestSummaryHandler(t *testing.T) {
	t.Run("default summary", func(t *testing.T) {
		handler, source, _ := fixture()

		rec, got := get(t, handler, "/api/dashboard/summary")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, survey.Page{Page: 1, Limit: survey.SummaryScanLimit}, source.LastPage)
		assert.Equal(t, float64(1500), got["totalResponses"])
		assert.Equal(t, float64(3), got["scanned"])
		assert.Equal(t, float64(1), got["maleCount"])
		assert.Equal(t, float64(2), got["femaleCount"])
		assert.Equal(t, "nurse", got["topOccupation"])

		top := got["topCategoryAnswer"].(map[string]interface{})
		assert.Equal(t, "music", top["value"])
		assert.Equal(t, float64(2), top["count"])
		assert.Equal(t, "66.67", top["percentage"])

		assert.Equal(t, "s1", got["breakdownQuestion"].(map[string]interface{})["id"])
		breakdown := got["breakdown"].([]interface{})
		require.Len(t, breakdown, 2)
		assert.Equal(t, "high", breakdown[0].(map[string]interface{})["value"])
	})

	t.Run("breakdown by order position", func(t *testing.T) {
		handler, _, _ := fixture()

		_, got := get(t, handler, "/api/dashboard/summary?order=5&category=stress")

		assert.Equal(t, "stress", got["category"])
		assert.Equal(t, "high", got["topCategoryAnswer"].(map[string]interface{})["value"])
		breakdown := got["breakdown"].([]interface{})
		require.Len(t, breakdown, 2)
		assert.Equal(t, "40", breakdown[0].(map[string]interface{})["value"])
	})

	t.Run("no matching breakdown question", func(t *testing.T) {
		handler, _, _ := fixture()

		_, got := get(t, handler, "/api/dashboard/summary?order=99")

		assert.Nil(t, got["breakdownQuestion"])
		assert.Empty(t, got["breakdown"])
	})

	t.Run("serves repeated requests from the cache", func(t *testing.T) {
		handler, source, cache := fixture()

		_, first := get(t, handler, "/api/dashboard/summary")
		_, second := get(t, handler, "/api/dashboard/summary")

		assert.Equal(t, 1, source.Calls)
		assert.Equal(t, first, second)

		require.NoError(t, cache.Invalidate(context.Background()))
		get(t, handler, "/api/dashboard/summary")
		assert.Equal(t, 2, source.Calls)
	})

	t.Run("rejects bad parameters", func(t *testing.T) {
		handler, _, _ := fixture()

		rec, got := get(t, handler, "/api/dashboard/summary?category=work&order=first&pattern=(")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, got["errors"], 3)
	})

	t.Run("store failure", func(t *testing.T) {
		handler, source, cache := fixture()
		source.ShouldFail = true

		rec, _ := get(t, handler, "/api/dashboard/summary")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, cache.Entries)
	})
}

func TestNopCache(t *testing.T) {
	var cache dashboard.Cache = dashboard.NopCache{}
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
