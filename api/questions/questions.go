package questions

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/api/jsonutil"
	"github.com/Adedunmol/stresspulse/survey"
)

// CacheInvalidator drops derived data, such as dashboard summaries, that a
// question change makes stale.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Handler struct {
	Store Store
	Cache CacheInvalidator
	Log   *zap.Logger
}

func (h *Handler) ListActiveQuestionsHandler(responseWriter http.ResponseWriter, request *http.Request) {
	questions, err := h.Store.ListActive(request.Context())
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	jsonutil.WriteJSONResponse(responseWriter, questions, http.StatusOK)
}

func (h *Handler) ListQuestionsHandler(responseWriter http.ResponseWriter, request *http.Request) {
	questions, err := h.Store.ListAll(request.Context())
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	jsonutil.WriteJSONResponse(responseWriter, questions, http.StatusOK)
}

// FormHandler serves the active questions grouped into renderable pages.
func (h *Handler) FormHandler(responseWriter http.ResponseWriter, request *http.Request) {
	batchSize := survey.DefaultBatchSize
	if raw := request.URL.Query().Get("batchSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > survey.MaxBatchSize {
			jsonutil.WriteError(responseWriter, custom_errors.NewValidationError(
				"invalid query parameters",
				"batchSize must be a whole number between 1 and "+strconv.Itoa(survey.MaxBatchSize),
			))
			return
		}
		batchSize = n
	}

	questions, err := h.Store.ListActive(request.Context())
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	jsonutil.WriteJSONResponse(responseWriter, survey.BuildForm(questions, batchSize), http.StatusOK)
}

func (h *Handler) GetQuestionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	question, err := h.Store.Get(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	jsonutil.WriteJSONResponse(responseWriter, question, http.StatusOK)
}

func (h *Handler) CreateQuestionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[CreateQuestionBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	question := data.question()
	question.Normalize()
	if err := question.Check(); err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	created, err := h.Store.Create(request.Context(), question)
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	h.invalidate(request.Context())

	jsonutil.WriteJSONResponse(responseWriter, created, http.StatusCreated)
}

func (h *Handler) UpdateQuestionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[UpdateQuestionBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	question, err := h.Store.Get(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	data.apply(&question)
	question.Normalize()
	if err := question.Check(); err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	updated, err := h.Store.Update(request.Context(), question)
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	h.invalidate(request.Context())

	jsonutil.WriteJSONResponse(responseWriter, updated, http.StatusOK)
}

func (h *Handler) DeleteQuestionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	if err := h.Store.Delete(request.Context(), chi.URLParam(request, "id")); err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	h.invalidate(request.Context())

	jsonutil.WriteMessage(responseWriter, "Question deleted successfully", http.StatusOK)
}

func (h *Handler) ReorderQuestionsHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[ReorderBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	if err := checkReorder(data.QuestionOrders); err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	questions, err := h.Store.Reorder(request.Context(), data.QuestionOrders)
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	h.invalidate(request.Context())

	jsonutil.WriteJSONResponse(responseWriter, questions, http.StatusOK)
}

func (h *Handler) ToggleQuestionHandler(responseWriter http.ResponseWriter, request *http.Request) {
	question, err := h.Store.Toggle(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	h.invalidate(request.Context())

	jsonutil.WriteJSONResponse(responseWriter, question, http.StatusOK)
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(ctx); err != nil {
		h.Log.Warn("error invalidating dashboard cache", zap.Error(err))
	}
}

// checkReorder rejects a batch that assigns one order twice or moves one
// question twice. Collisions with questions outside the batch are left to
// the store.
func checkReorder(changes []OrderChange) error {
	verr := custom_errors.NewValidationError("invalid reorder")

	ids := make(map[string]struct{}, len(changes))
	orders := make(map[int]struct{}, len(changes))
	for _, change := range changes {
		if _, dup := ids[change.ID]; dup {
			verr.Add("question " + change.ID + " appears more than once")
		}
		ids[change.ID] = struct{}{}

		if _, dup := orders[*change.Order]; dup {
			verr.Add("Order " + strconv.Itoa(*change.Order) + " is already in use.")
		}
		orders[*change.Order] = struct{}{}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
