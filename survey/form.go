package survey

const (
	DefaultBatchSize = 5
	MaxBatchSize     = 50
)

type Widget string

const (
	WidgetInput         Widget = "input"
	WidgetRadioGroup    Widget = "radio-group"
	WidgetCheckboxGroup Widget = "checkbox-group"
)

func WidgetFor(t QuestionType) Widget {
	switch t {
	case TypeRadio:
		return WidgetRadioGroup
	case TypeCheckbox:
		return WidgetCheckboxGroup
	}
	return WidgetInput
}

type FormField struct {
	Question
	Widget Widget `json:"widget"`
}

type FormPage struct {
	Page      int         `json:"page"`
	Questions []FormField `json:"questions"`
}

type Form struct {
	TotalQuestions int        `json:"totalQuestions"`
	TotalPages     int        `json:"totalPages"`
	Pages          []FormPage `json:"pages"`
}

// BuildForm splits the active questions into pages of batchSize, keeping
// presentation order.
func BuildForm(active []Question, batchSize int) Form {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	questions := make([]Question, len(active))
	copy(questions, active)
	SortQuestions(questions)

	form := Form{TotalQuestions: len(questions), Pages: []FormPage{}}
	for start := 0; start < len(questions); start += batchSize {
		end := min(start+batchSize, len(questions))
		page := FormPage{Page: len(form.Pages) + 1, Questions: make([]FormField, 0, end-start)}
		for _, q := range questions[start:end] {
			page.Questions = append(page.Questions, FormField{Question: q, Widget: WidgetFor(q.QuestionType)})
		}
		form.Pages = append(form.Pages, page)
	}
	form.TotalPages = len(form.Pages)
	return form
}
