package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func WriteJSONResponse(responseWriter http.ResponseWriter, data interface{}, statusCode int) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(statusCode)
	_ = json.NewEncoder(responseWriter).Encode(data)
}

func WriteMessage(responseWriter http.ResponseWriter, message string, statusCode int) {
	status := "success"
	if statusCode >= http.StatusBadRequest {
		status = "error"
	}
	WriteJSONResponse(responseWriter, Response{Status: status, Message: message}, statusCode)
}

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var verr *custom_errors.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, custom_errors.ErrSurveyUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, custom_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, custom_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, custom_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, custom_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// WriteError writes err as a JSON error body. Validation errors carry the
// full list of violations.
func WriteError(responseWriter http.ResponseWriter, err error) {
	response := Response{Status: "error", Message: err.Error()}

	var verr *custom_errors.ValidationError
	if errors.As(err, &verr) {
		response.Message = verr.Message
		response.Errors = verr.Errors
	}

	WriteJSONResponse(responseWriter, response, StatusFor(err))
}

// ReportError is WriteError that also logs failures the client cannot fix.
func ReportError(responseWriter http.ResponseWriter, log *zap.Logger, err error) {
	if StatusFor(err) >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	WriteError(responseWriter, err)
}

// UnmarshalJsonResponse decodes the request body into T and runs its
// validate tags. Both malformed JSON and tag failures come back as
// *custom_errors.ValidationError.
func UnmarshalJsonResponse[T any](request *http.Request) (T, error) {
	var data T

	body := http.MaxBytesReader(nil, request.Body, maxBodyBytes)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return data, custom_errors.NewValidationError("request body is required")
		}
		return data, custom_errors.NewValidationError("invalid request body", err.Error())
	}

	if err := Validate(data); err != nil {
		return data, err
	}
	return data, nil
}

// Validate runs the validate struct tags on v.
func Validate(v interface{}) error {
	if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Struct {
		return nil
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return custom_errors.NewValidationError("invalid request body", err.Error())
	}

	verr := custom_errors.NewValidationError("validation failed")
	for _, fe := range fieldErrs {
		verr.Add(describe(fe))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	field := strings.SplitN(fe.Namespace(), ".", 2)
	name := fe.Field()
	if len(field) == 2 {
		name = field[1]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", name)
	}
	return fmt.Sprintf("%s failed the %s check", name, fe.Tag())
}
