package responses

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
	"github.com/Adedunmol/stresspulse/survey"
)

// Filter narrows a response listing. Zero values match everything.
type Filter struct {
	Age        *int
	Gender     string
	Occupation string
}

type ListResponse struct {
	Responses  []survey.Response `json:"responses"`
	Pagination survey.Pagination `json:"pagination"`
}

type NotificationData struct {
	ResponseID     string
	TotalQuestions int
	CompletedAt    string
	Age            *int   `json:",omitempty"`
	Gender         string `json:",omitempty"`
	Occupation     string `json:",omitempty"`
}

// ParseListQuery reads the filter and page from the query string. Page and
// limit fall back to their defaults when absent; limit is capped.
func ParseListQuery(values url.Values) (Filter, survey.Page, error) {
	verr := custom_errors.NewValidationError("invalid query parameters")

	filter := Filter{
		Gender:     strings.TrimSpace(values.Get("gender")),
		Occupation: strings.TrimSpace(values.Get("occupation")),
	}

	if raw := strings.TrimSpace(values.Get("age")); raw != "" {
		age, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || age < 0 {
			verr.Add("age must be a non-negative whole number")
		} else {
			n := int(age)
			filter.Age = &n
		}
	}

	page := survey.Page{Page: survey.DefaultPage, Limit: survey.DefaultLimit}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			verr.Add("page must be a whole number of at least 1")
		} else {
			page.Page = int(n)
		}
	}

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			verr.Add("limit must be a whole number of at least 1")
		} else {
			page.Limit = min(int(n), survey.MaxLimit)
		}
	}

	// the store addresses rows with a 32-bit offset
	if !verr.HasErrors() && page.Offset() > math.MaxInt32 {
		verr.Add("page is out of range")
	}

	if verr.HasErrors() {
		return Filter{}, survey.Page{}, verr
	}
	return filter, page, nil
}
