package survey

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SummaryScanLimit bounds how many responses a dashboard summary reads.
const SummaryScanLimit = 1000

// Tally counts values and remembers the order they were first seen in.
// Ties are always resolved in favour of the value seen first.
type Tally struct {
	order  []string
	counts map[string]int
	total  int
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

func (t *Tally) Add(v string) {
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
	t.total++
}

func (t *Tally) Total() int { return t.total }

// Top returns the most frequent value.
func (t *Tally) Top() (string, int, bool) {
	best, bestCount := "", 0
	for _, v := range t.order {
		if c := t.counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best, bestCount, bestCount > 0
}

type Frequency struct {
	Value      string          `json:"value"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Frequencies lists every value by descending count.
func (t *Tally) Frequencies() []Frequency {
	out := make([]Frequency, 0, len(t.order))
	for _, v := range t.order {
		out = append(out, Frequency{Value: v, Count: t.counts[v], Percentage: percentage(t.counts[v], t.total)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func percentage(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

type SummaryOptions struct {
	// Category whose answers are pooled for TopCategoryAnswer.
	Category Category
	// Breakdown is the question whose answers get a full frequency table.
	Breakdown *Question
}

type Summary struct {
	TotalResponses    int64       `json:"totalResponses"`
	Scanned           int         `json:"scanned"`
	MaleCount         int         `json:"maleCount"`
	FemaleCount       int         `json:"femaleCount"`
	TopOccupation     string      `json:"topOccupation"`
	Category          Category    `json:"category"`
	TopCategoryAnswer *Frequency  `json:"topCategoryAnswer"`
	BreakdownQuestion *Question   `json:"breakdownQuestion"`
	Breakdown         []Frequency `json:"breakdown"`
}

const noOccupation = "N/A"

// Summarize computes dashboard statistics over responses. questions is the
// full question set, active or not, so historical answers still count.
func Summarize(total int64, responses []Response, questions []Question, opts SummaryOptions) Summary {
	s := Summary{
		TotalResponses:    total,
		Scanned:           len(responses),
		TopOccupation:     noOccupation,
		Category:          opts.Category,
		BreakdownQuestion: opts.Breakdown,
		Breakdown:         []Frequency{},
	}

	var categoryIDs []string
	for _, q := range questions {
		if q.Category == opts.Category {
			categoryIDs = append(categoryIDs, q.ID)
		}
	}

	occupations := NewTally()
	categoryVotes := NewTally()
	breakdown := NewTally()

	for _, r := range responses {
		switch genderOf(r) {
		case "male":
			s.MaleCount++
		case "female":
			s.FemaleCount++
		}

		if occ := occupationOf(r); occ != "" {
			occupations.Add(occ)
		}

		for _, id := range categoryIDs {
			for _, v := range r.Answers[id].Votes() {
				categoryVotes.Add(v)
			}
		}

		if opts.Breakdown != nil {
			for _, v := range r.Answers[opts.Breakdown.ID].Votes() {
				breakdown.Add(v)
			}
		}
	}

	if occ, _, ok := occupations.Top(); ok {
		s.TopOccupation = occ
	}
	if v, c, ok := categoryVotes.Top(); ok {
		s.TopCategoryAnswer = &Frequency{Value: v, Count: c, Percentage: percentage(c, categoryVotes.Total())}
	}
	if opts.Breakdown != nil {
		s.Breakdown = breakdown.Frequencies()
	}
	return s
}

func genderOf(r Response) string {
	if a, ok := r.Answers[FieldGender]; ok && a.IsTextual() {
		return a.Text
	}
	return r.Gender
}

func occupationOf(r Response) string {
	if a, ok := r.Answers[FieldOccupation]; ok && a.IsTextual() {
		return a.Text
	}
	return r.Occupation
}
