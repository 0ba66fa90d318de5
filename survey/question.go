// Package survey holds the questionnaire model and the pure parts of the
// submission pipeline: answer decoding, validation, alias resolution and
// response aggregation. Nothing in here touches the network or the database.
package survey

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
)

type QuestionType string

const (
	TypeText     QuestionType = "text"
	TypeRadio    QuestionType = "radio"
	TypeCheckbox QuestionType = "checkbox"
)

func (t QuestionType) Valid() bool {
	switch t {
	case TypeText, TypeRadio, TypeCheckbox:
		return true
	}
	return false
}

// HasOptions reports whether answers to this type are picked from Options.
func (t QuestionType) HasOptions() bool {
	return t == TypeRadio || t == TypeCheckbox
}

type Category string

const (
	CategoryDemographics Category = "demographics"
	CategoryStress       Category = "stress"
	CategoryCoping       Category = "coping"
	CategoryGeneral      Category = "general"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryDemographics, CategoryStress, CategoryCoping, CategoryGeneral:
		return true
	}
	return false
}

type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Rules are optional constraints applied to text answers.
type Rules struct {
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

func (r *Rules) IsZero() bool {
	return r == nil || (r.MinLength == nil && r.MaxLength == nil && r.Pattern == "")
}

type Question struct {
	ID           string       `json:"id"`
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
	Options      []Option     `json:"options"`
	IsRequired   bool         `json:"isRequired"`
	Order        int          `json:"order"`
	IsActive     bool         `json:"isActive"`
	Category     Category     `json:"category"`
	FieldKey     string       `json:"fieldKey,omitempty"`
	Validation   *Rules       `json:"validation,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

var agePattern = regexp.MustCompile(`(?i)age`)

// IsAgeQuestion reports whether answers to q feed the well-known "age" field.
func (q Question) IsAgeQuestion() bool {
	return q.FieldKey == FieldAge || agePattern.MatchString(q.QuestionText)
}

func (q Question) hasOptionValue(v string) bool {
	for _, o := range q.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Normalize trims free text and fills defaults for an admin-supplied question.
func (q *Question) Normalize() {
	q.QuestionText = strings.TrimSpace(q.QuestionText)
	q.FieldKey = strings.TrimSpace(q.FieldKey)
	if q.QuestionType == "" {
		q.QuestionType = TypeText
	}
	if q.Category == "" {
		q.Category = CategoryGeneral
	}
	for i := range q.Options {
		q.Options[i].Text = strings.TrimSpace(q.Options[i].Text)
		q.Options[i].Value = strings.TrimSpace(q.Options[i].Value)
	}
	if q.Options == nil {
		q.Options = []Option{}
	}
	if q.Validation.IsZero() {
		q.Validation = nil
	}
}

// Check validates a question definition before it is written.
func (q Question) Check() error {
	verr := custom_errors.NewValidationError("invalid question")

	if q.QuestionText == "" {
		verr.Add("questionText is required")
	}
	if !q.QuestionType.Valid() {
		verr.Add(fmt.Sprintf("questionType %q is not one of text, radio, checkbox", q.QuestionType))
	}
	if !q.Category.Valid() {
		verr.Add(fmt.Sprintf("category %q is not one of demographics, stress, coping, general", q.Category))
	}
	if q.QuestionType.HasOptions() && len(q.Options) == 0 {
		verr.Add(fmt.Sprintf("options are required for %s questions", q.QuestionType))
	}

	seen := make(map[string]struct{}, len(q.Options))
	for i, o := range q.Options {
		if o.Text == "" || o.Value == "" {
			verr.Add(fmt.Sprintf("option %d needs both text and value", i+1))
			continue
		}
		if _, dup := seen[o.Value]; dup {
			verr.Add(fmt.Sprintf("option value %q is used more than once", o.Value))
		}
		seen[o.Value] = struct{}{}
	}

	if q.Validation != nil {
		r := q.Validation
		if r.MinLength != nil && *r.MinLength < 0 {
			verr.Add("validation.minLength must not be negative")
		}
		if r.MaxLength != nil && *r.MaxLength < 0 {
			verr.Add("validation.maxLength must not be negative")
		}
		if r.MinLength != nil && r.MaxLength != nil && *r.MinLength > *r.MaxLength {
			verr.Add("validation.minLength must not exceed validation.maxLength")
		}
		if r.Pattern != "" {
			if _, err := regexp.Compile(r.Pattern); err != nil {
				verr.Add(fmt.Sprintf("validation.pattern does not compile: %v", err))
			}
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// SortQuestions orders questions by Order, then by creation time.
func SortQuestions(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		if qs[i].Order != qs[j].Order {
			return qs[i].Order < qs[j].Order
		}
		return qs[i].CreatedAt.Before(qs[j].CreatedAt)
	})
}

// FindQuestion picks the question at the given order position if order is
// set, otherwise the first question whose text matches pattern.
func FindQuestion(qs []Question, order *int, pattern *regexp.Regexp) (Question, bool) {
	if order != nil {
		for _, q := range qs {
			if q.Order == *order {
				return q, true
			}
		}
		return Question{}, false
	}
	if pattern == nil {
		return Question{}, false
	}
	for _, q := range qs {
		if pattern.MatchString(q.QuestionText) {
			return q, true
		}
	}
	return Question{}, false
}
