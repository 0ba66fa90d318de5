package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/api/jsonutil"
	"github.com/Adedunmol/stresspulse/api/responses"
	"github.com/Adedunmol/stresspulse/survey"
)

type ResponseSource interface {
	List(ctx context.Context, filter responses.Filter, page survey.Page) ([]survey.Response, int64, error)
}

type QuestionSource interface {
	ListAll(ctx context.Context) ([]survey.Question, error)
}

// Defaults apply when the request does not pick a category or breakdown.
type Defaults struct {
	Category survey.Category
	// Pattern is matched case-insensitively against question text.
	Pattern string
}

type Handler struct {
	Responses ResponseSource
	Questions QuestionSource
	Cache     Cache
	CacheTTL  time.Duration
	Defaults  Defaults
	Log       *zap.Logger
}

type summaryQuery struct {
	category survey.Category
	order    *int
	pattern  string
}

func (q summaryQuery) cacheKey() string {
	order := "-"
	if q.order != nil {
		order = strconv.Itoa(*q.order)
	}
	return fmt.Sprintf("%s:%s:%s", q.category, order, strings.ToLower(q.pattern))
}

func (h *Handler) parseQuery(request *http.Request) (summaryQuery, error) {
	values := request.URL.Query()
	verr := custom_errors.NewValidationError("invalid query parameters")

	q := summaryQuery{
		category: h.Defaults.Category,
		pattern:  h.Defaults.Pattern,
	}

	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		q.category = survey.Category(raw)
	}
	if !q.category.Valid() {
		verr.Add(fmt.Sprintf("category %q is not one of demographics, stress, coping, general", q.category))
	}

	if raw := strings.TrimSpace(values.Get("order")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add("order must be a whole number")
		} else {
			q.order = &n
		}
	}

	if raw := strings.TrimSpace(values.Get("pattern")); raw != "" {
		q.pattern = raw
	}
	if _, err := regexp.Compile(q.pattern); err != nil {
		verr.Add("pattern is not a valid regular expression")
	}

	if verr.HasErrors() {
		return summaryQuery{}, verr
	}
	return q, nil
}

// SummaryHandler serves dashboard statistics over the most recent responses.
// Results are cached until the next submission or deletion.
func (h *Handler) SummaryHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	query, err := h.parseQuery(request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	key := query.cacheKey()
	if cached, ok, err := h.Cache.Get(ctx, key); err != nil {
		h.Log.Warn("error reading dashboard cache", zap.Error(err))
	} else if ok {
		writeRaw(responseWriter, cached)
		return
	}

	summary, err := h.summarize(ctx, query)
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	body, err := json.Marshal(summary)
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, fmt.Errorf("error encoding summary: %w", err))
		return
	}

	if err := h.Cache.Set(ctx, key, body, h.CacheTTL); err != nil {
		h.Log.Warn("error writing dashboard cache", zap.Error(err))
	}

	writeRaw(responseWriter, body)
}

func (h *Handler) summarize(ctx context.Context, query summaryQuery) (survey.Summary, error) {
	recent, total, err := h.Responses.List(ctx, responses.Filter{}, survey.Page{Page: 1, Limit: survey.SummaryScanLimit})
	if err != nil {
		return survey.Summary{}, err
	}

	questions, err := h.Questions.ListAll(ctx)
	if err != nil {
		return survey.Summary{}, err
	}

	opts := survey.SummaryOptions{Category: query.category}

	var pattern *regexp.Regexp
	if query.pattern != "" {
		pattern = regexp.MustCompile("(?i)" + query.pattern)
	}
	if q, ok := survey.FindQuestion(questions, query.order, pattern); ok {
		opts.Breakdown = &q
	}

	return survey.Summarize(total, recent, questions, opts), nil
}

func writeRaw(responseWriter http.ResponseWriter, body []byte) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(http.StatusOK)
	_, _ = responseWriter.Write(body)
}
