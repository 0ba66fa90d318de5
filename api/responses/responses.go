package responses

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/api/jsonutil"
	"github.com/Adedunmol/stresspulse/queue"
	"github.com/Adedunmol/stresspulse/survey"
)

const NotificationTemplate = "response_received"

// QuestionSource supplies the questions a submission is validated against.
type QuestionSource interface {
	ListActive(ctx context.Context) ([]survey.Question, error)
}

// CacheInvalidator drops derived data that a new or deleted response makes
// stale.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type Handler struct {
	Store     Store
	Questions QuestionSource
	Queue     queue.Queue
	Cache     CacheInvalidator
	// NotifyEmail receives a mail per submission. Empty disables it.
	NotifyEmail string
	Log         *zap.Logger
}

func (h *Handler) SubmitResponseHandler(responseWriter http.ResponseWriter, request *http.Request) {
	submission, err := jsonutil.UnmarshalJsonResponse[survey.Submission](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	active, err := h.Questions.ListActive(request.Context())
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	record, err := survey.Validate(active, submission)
	if err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	response, err := h.Store.Create(request.Context(), record)
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	h.invalidate(request.Context())
	h.notify(response)

	jsonutil.WriteMessage(responseWriter, "Response submitted successfully!", http.StatusCreated)
}

func (h *Handler) ListResponsesHandler(responseWriter http.ResponseWriter, request *http.Request) {
	filter, page, err := ParseListQuery(request.URL.Query())
	if err != nil {
		jsonutil.WriteError(responseWriter, err)
		return
	}

	items, total, err := h.Store.List(request.Context(), filter, page)
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	response := ListResponse{
		Responses:  items,
		Pagination: survey.NewPagination(page, total),
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) GetResponseHandler(responseWriter http.ResponseWriter, request *http.Request) {
	response, err := h.Store.Get(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

func (h *Handler) DeleteResponseHandler(responseWriter http.ResponseWriter, request *http.Request) {
	if err := h.Store.Delete(request.Context(), chi.URLParam(request, "id")); err != nil {
		jsonutil.ReportError(responseWriter, h.Log, err)
		return
	}

	h.invalidate(request.Context())

	jsonutil.WriteMessage(responseWriter, "Response deleted successfully", http.StatusOK)
}

// invalidate never fails the request: a stale summary expires on its own.
func (h *Handler) invalidate(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(ctx); err != nil {
		h.Log.Warn("error invalidating dashboard cache", zap.Error(err))
	}
}

func (h *Handler) notify(response survey.Response) {
	if h.Queue == nil || h.NotifyEmail == "" {
		return
	}

	payload := &queue.EmailDeliveryPayload{
		Name:     NotificationTemplate,
		Template: NotificationTemplate,
		Subject:  "New survey response",
		Email:    h.NotifyEmail,
		Data: NotificationData{
			ResponseID:     response.ID,
			TotalQuestions: response.TotalQuestions,
			CompletedAt:    response.CompletedAt.Format(time.RFC1123),
			Age:            response.Age,
			Gender:         response.Gender,
			Occupation:     response.Occupation,
		},
	}

	if err := h.Queue.Enqueue(payload); err != nil {
		h.Log.Error("error enqueueing response notification", zap.String("response_id", response.ID), zap.Error(err))
	}
}
