package questions

import "github.com/Adedunmol/stresspulse/survey"

type CreateQuestionBody struct {
	QuestionText string              `json:"questionText" validate:"required"`
	QuestionType survey.QuestionType `json:"questionType" validate:"omitempty,oneof=text radio checkbox"`
	Options      []survey.Option     `json:"options"`
	IsRequired   *bool               `json:"isRequired"`
	Order        *int                `json:"order"`
	IsActive     *bool               `json:"isActive"`
	Category     survey.Category     `json:"category" validate:"omitempty,oneof=demographics stress coping general"`
	FieldKey     string              `json:"fieldKey"`
	Validation   *survey.Rules       `json:"validation"`
}

// UpdateQuestionBody is a partial update: absent fields keep their value.
type UpdateQuestionBody struct {
	QuestionText *string              `json:"questionText"`
	QuestionType *survey.QuestionType `json:"questionType" validate:"omitempty,oneof=text radio checkbox"`
	Options      *[]survey.Option     `json:"options"`
	IsRequired   *bool                `json:"isRequired"`
	Order        *int                 `json:"order"`
	IsActive     *bool                `json:"isActive"`
	Category     *survey.Category     `json:"category" validate:"omitempty,oneof=demographics stress coping general"`
	FieldKey     *string              `json:"fieldKey"`
	Validation   *survey.Rules        `json:"validation"`
}

type OrderChange struct {
	ID    string `json:"id" validate:"required"`
	Order *int   `json:"order" validate:"required"`
}

type ReorderBody struct {
	QuestionOrders []OrderChange `json:"questionOrders" validate:"required,min=1,dive"`
}

func (b CreateQuestionBody) question() survey.Question {
	q := survey.Question{
		QuestionText: b.QuestionText,
		QuestionType: b.QuestionType,
		Options:      b.Options,
		IsRequired:   true,
		IsActive:     true,
		Category:     b.Category,
		FieldKey:     b.FieldKey,
		Validation:   b.Validation,
	}
	if b.IsRequired != nil {
		q.IsRequired = *b.IsRequired
	}
	if b.IsActive != nil {
		q.IsActive = *b.IsActive
	}
	if b.Order != nil {
		q.Order = *b.Order
	}
	return q
}

func (b UpdateQuestionBody) apply(q *survey.Question) {
	if b.QuestionText != nil {
		q.QuestionText = *b.QuestionText
	}
	if b.QuestionType != nil {
		q.QuestionType = *b.QuestionType
	}
	if b.Options != nil {
		q.Options = *b.Options
	}
	if b.IsRequired != nil {
		q.IsRequired = *b.IsRequired
	}
	if b.Order != nil {
		q.Order = *b.Order
	}
	if b.IsActive != nil {
		q.IsActive = *b.IsActive
	}
	if b.Category != nil {
		q.Category = *b.Category
	}
	if b.FieldKey != nil {
		q.FieldKey = *b.FieldKey
	}
	if b.Validation != nil {
		q.Validation = b.Validation
	}
}
