package queue

import (
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker runs the asynq server that drains the queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(redisURL string, mailer Mailer, log *zap.Logger) (*Worker, error) {
	opt, err := RedisOpt(redisURL)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 4,
		Logger:      log.Sugar(),
	})

	mux := asynq.NewServeMux()
	handler := &EmailHandler{Mailer: mailer, Log: log}
	mux.HandleFunc(TypeEmailDelivery, handler.HandleEmailTask)

	return &Worker{server: server, mux: mux}, nil
}

// Start begins processing in the background.
func (w *Worker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("error running queue server: %w", err)
	}
	return nil
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
