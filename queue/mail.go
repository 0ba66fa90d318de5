package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	mail "github.com/Adedunmol/stresspulse/api/email"
)

const TypeEmailDelivery = "mail:deliver"

type EmailDeliveryPayload struct {
	Name     string
	Template string
	Subject  string
	Email    string
	Data     any
}

func (e *EmailDeliveryPayload) Process() (*asynq.Task, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal email delivery payload: %w", err)
	}

	return asynq.NewTask(TypeEmailDelivery, payload), nil
}

func (e *EmailDeliveryPayload) ProcessorName() string {
	return e.Name
}

type Mailer interface {
	SendTemplateEmail(e mail.Email) error
}

type EmailHandler struct {
	Mailer Mailer
	Log    *zap.Logger
}

func (h *EmailHandler) HandleEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailDeliveryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// a payload that cannot be decoded will never succeed
		return fmt.Errorf("error decoding email delivery payload: %v: %w", err, asynq.SkipRetry)
	}

	emailData := mail.Email{
		Subject:  payload.Subject,
		ToAddr:   payload.Email,
		Template: payload.Template,
		Vars:     payload.Data,
	}

	if err := h.Mailer.SendTemplateEmail(emailData); err != nil {
		h.Log.Error("error sending email", zap.String("to", payload.Email), zap.Error(err))
		return fmt.Errorf("error sending email: %w", err)
	}

	h.Log.Info("email sent", zap.String("to", payload.Email), zap.String("template", payload.Template))
	return nil
}
