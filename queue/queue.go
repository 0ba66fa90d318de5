package queue

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Processor interface {
	Process() (*asynq.Task, error)
	ProcessorName() string
}

type Queue interface {
	Enqueue(processor Processor) error
}

// RedisOpt converts a redis:// URL into asynq connection options.
func RedisOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("error parsing redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		DB:        opts.DB,
		TLSConfig: opts.TLSConfig,
	}, nil
}

type Client struct {
	client *asynq.Client
	log    *zap.Logger
}

func NewClient(redisURL string, log *zap.Logger) (*Client, error) {
	opt, err := RedisOpt(redisURL)
	if err != nil {
		return nil, err
	}

	log.Info("setting up connection for asynq redis queue", zap.String("addr", opt.Addr))
	return &Client{client: asynq.NewClient(opt), log: log}, nil
}

func (c *Client) Enqueue(processor Processor) error {
	task, err := processor.Process()
	if err != nil {
		return fmt.Errorf("could not build %s task: %w", processor.ProcessorName(), err)
	}

	info, err := c.client.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("could not enqueue %s task: %w", processor.ProcessorName(), err)
	}

	c.log.Debug("task enqueued", zap.String("task", processor.ProcessorName()), zap.String("id", info.ID))
	return nil
}

func (c *Client) Close() error {
	c.log.Info("closing connection to asynq queue")
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("error closing connection: %w", err)
	}
	return nil
}

// NopQueue drops every task. It stands in when no Redis is configured.
type NopQueue struct {
	Log *zap.Logger
}

func (q NopQueue) Enqueue(processor Processor) error {
	if q.Log != nil {
		q.Log.Debug("no queue configured, dropping task", zap.String("task", processor.ProcessorName()))
	}
	return nil
}
