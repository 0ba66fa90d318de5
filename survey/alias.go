package survey

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Well-known answer keys duplicated at the top level of a response.
const (
	FieldAge        = "age"
	FieldGender     = "gender"
	FieldOccupation = "occupation"
)

// Alias is an extra answer-map entry derived from a question's answer.
type Alias struct {
	Key   string
	Value Answer
}

// ResolveAlias returns the well-known entry, if any, that the answer to q
// should also be stored under. Age questions yield a non-negative integer
// under "age"; other questions with a field key duplicate the value as is.
func ResolveAlias(q Question, a Answer) (Alias, bool, error) {
	if q.IsAgeQuestion() {
		age, err := parseAge(a)
		if err != nil {
			return Alias{}, false, fmt.Errorf(`"%s" must be a non-negative whole number`, q.QuestionText)
		}
		return Alias{Key: FieldAge, Value: Number(float64(age))}, true, nil
	}
	if q.FieldKey != "" {
		return Alias{Key: q.FieldKey, Value: a}, true, nil
	}
	return Alias{}, false, nil
}

func parseAge(a Answer) (int, error) {
	switch a.Kind {
	case KindText, KindChoice:
		n, err := strconv.ParseInt(strings.TrimSpace(a.Text), 10, 32)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, fmt.Errorf("negative age %d", n)
		}
		return int(n), nil
	case KindNumber:
		if a.Number < 0 || a.Number != math.Trunc(a.Number) || a.Number > math.MaxInt32 {
			return 0, fmt.Errorf("age %v is not a non-negative integer", a.Number)
		}
		return int(a.Number), nil
	}
	return 0, fmt.Errorf("age must be a single value")
}
