package survey

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Adedunmol/stresspulse/api/custom_errors"
)

// Validate checks a submission against the active questions and builds the
// record to store. All violations are collected before it fails.
func Validate(active []Question, sub Submission) (Record, error) {
	if len(active) == 0 {
		return Record{}, custom_errors.ErrSurveyUnavailable
	}

	questions := make([]Question, len(active))
	copy(questions, active)
	SortQuestions(questions)

	verr := custom_errors.NewValidationError("validation failed")
	record := Record{
		Answers:        make(map[string]Answer, len(questions)),
		TotalQuestions: len(questions),
		QuestionIDs:    make([]string, 0, len(questions)),
	}

	for _, q := range questions {
		record.QuestionIDs = append(record.QuestionIDs, q.ID)

		a := sub[q.ID]
		if !answered(q, a) {
			if q.IsRequired {
				verr.Add(fmt.Sprintf(`"%s" is required`, q.QuestionText))
			}
			continue
		}

		a, err := conform(q, a)
		if err != nil {
			verr.Add(err.Error())
			continue
		}
		record.Answers[q.ID] = a

		alias, ok, err := ResolveAlias(q, a)
		if err != nil {
			verr.Add(err.Error())
			continue
		}
		if ok {
			record.Answers[alias.Key] = alias.Value
		}
	}

	if verr.HasErrors() {
		return Record{}, verr
	}
	return record, nil
}

func answered(q Question, a Answer) bool {
	if q.QuestionType == TypeCheckbox {
		return a.IsList() && len(a.Choices) > 0
	}
	if !a.Present() {
		return false
	}
	if a.IsTextual() {
		return strings.TrimSpace(a.Text) != ""
	}
	return true
}

// conform checks an answered value against the question type and returns it
// in its stored form.
func conform(q Question, a Answer) (Answer, error) {
	switch q.QuestionType {
	case TypeRadio:
		if !a.IsTextual() {
			return a, fmt.Errorf(`"%s" takes a single option`, q.QuestionText)
		}
		if !q.hasOptionValue(a.Text) {
			return a, fmt.Errorf(`"%s" has an invalid option selected`, q.QuestionText)
		}
		return Choice(a.Text), nil

	case TypeCheckbox:
		for _, v := range a.Choices {
			if !q.hasOptionValue(v) {
				return a, fmt.Errorf(`"%s" has invalid options selected`, q.QuestionText)
			}
		}
		return a, nil

	default:
		if a.IsList() {
			return a, fmt.Errorf(`"%s" must be a single value`, q.QuestionText)
		}
		if a.IsTextual() && q.Validation != nil {
			if err := checkRules(q, a.Text); err != nil {
				return a, err
			}
		}
		return a, nil
	}
}

func checkRules(q Question, s string) error {
	r := q.Validation
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	if r.MinLength != nil && n < *r.MinLength {
		return fmt.Errorf(`"%s" must be at least %d characters`, q.QuestionText, *r.MinLength)
	}
	if r.MaxLength != nil && n > *r.MaxLength {
		return fmt.Errorf(`"%s" must be at most %d characters`, q.QuestionText, *r.MaxLength)
	}
	if r.Pattern != "" {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf(`"%s" has an unusable validation pattern`, q.QuestionText)
		}
		if !re.MatchString(s) {
			return fmt.Errorf(`"%s" is not in the expected format`, q.QuestionText)
		}
	}
	return nil
}
