package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type AnswerKind int

const (
	KindNone AnswerKind = iota
	KindText
	KindChoice
	KindMultiChoice
	KindNumber
)

// Answer is a single submitted value. On the wire it is a JSON string, an
// array of strings or a number.
type Answer struct {
	Kind    AnswerKind
	Text    string
	Choices []string
	Number  float64
}

func Text(s string) Answer { return Answer{Kind: KindText, Text: s} }
func Choice(s string) Answer { return Answer{Kind: KindChoice, Text: s} }
func MultiChoice(vs ...string) Answer { return Answer{Kind: KindMultiChoice, Choices: vs} }
func Number(n float64) Answer { return Answer{Kind: KindNumber, Number: n} }
func (a Answer) Present() bool { return a.Kind != KindNone }
func (a Answer) IsTextual() bool { return a.Kind == KindText || a.Kind == KindChoice }
func (a Answer) IsList() bool { return a.Kind == KindMultiChoice }

// String renders a scalar answer; lists are joined with ", ".
func (a Answer) String() string {
	switch a.Kind {
	case KindText, KindChoice:
		return a.Text
	case KindMultiChoice:
		return strings.Join(a.Choices, ", ")
	case KindNumber:
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	}
	return ""
}

// Votes returns the individual values an answer contributes to a tally.
func (a Answer) Votes() []string {
	switch a.Kind {
	case KindMultiChoice:
		return a.Choices
	case KindNone:
		return nil
	}
	s := a.String()
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return []string{s}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindText, KindChoice:
		return json.Marshal(a.Text)
	case KindMultiChoice:
		if a.Choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.Choices)
	case KindNumber:
		if math.IsNaN(a.Number) || math.IsInf(a.Number, 0) {
			return nil, fmt.Errorf("answer number %v is not representable", a.Number)
		}
		return []byte(strconv.FormatFloat(a.Number, 'f', -1, 64)), nil
	}
	return []byte("null"), nil
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Text(s)
	case '[':
		var vs []string
		if err := json.Unmarshal(data, &vs); err != nil {
			return fmt.Errorf("answer list must contain only strings")
		}
		if vs == nil {
			vs = []string{}
		}
		*a = MultiChoice(vs...)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer must be a string, a list of strings or a number")
		}
		*a = Number(n)
	}
	return nil
}

// Submission is the answer map sent by a respondent, keyed by question id.
type Submission map[string]Answer

// Record is a validated submission ready to be stored.
type Record struct {
	Answers        map[string]Answer
	TotalQuestions int
	QuestionIDs    []string
}

// Age returns the well-known age value, if any.
func (r Record) Age() (int, bool) {
	a, ok := r.Answers[FieldAge]
	if !ok || a.Kind != KindNumber {
		return 0, false
	}
	return int(a.Number), true
}

// WellKnown returns the textual value stored under a well-known key.
func (r Record) WellKnown(key string) (string, bool) {
	a, ok := r.Answers[key]
	if !ok || !a.Present() {
		return "", false
	}
	return a.String(), true
}

// Response is a stored submission.
type Response struct {
	ID             string            `json:"id"`
	Answers        map[string]Answer `json:"answers"`
	TotalQuestions int               `json:"totalQuestions"`
	QuestionIDs    []string          `json:"questionIds"`
	Age            *int              `json:"age,omitempty"`
	Gender         string            `json:"gender,omitempty"`
	Occupation     string            `json:"occupation,omitempty"`
	CompletedAt    time.Time         `json:"completedAt"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}
