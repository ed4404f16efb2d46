package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message.
type Handler func(ctx context.Context, msg Message) error

// RetryPolicy controls how often a failing message is redelivered to the
// handler before it is skipped.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy tries a message three times, 500ms apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Backoff: 500 * time.Millisecond}

// Consumer wraps a kafka-go reader in a consumer group. Offsets are committed
// only after the handler returns, so delivery is at-least-once.
type Consumer struct {
	reader  *kafkago.Reader
	handler Handler
	retry   RetryPolicy
	logger  *slog.Logger
}

// NewConsumer creates a Consumer for topic.
func NewConsumer(cfg Config, topic string, handler Handler, retry RetryPolicy, logger *slog.Logger) (*Consumer, error) {
	dialer, err := cfg.dialer()
	if err != nil {
		return nil, err
	}
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
		Dialer:   dialer,
	})

	return &Consumer{
		reader:  r,
		handler: handler,
		retry:   retry,
		logger:  logger,
	}, nil
}

// Start consumes messages until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	cfg := c.reader.Config()
	c.logger.Info("consumer starting", "topic", cfg.Topic, "group", cfg.GroupID)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping due to context cancellation")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := deliver(ctx, c.handler, fromKafkaMessage(m), c.retry); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Skip the poison message so the partition keeps moving.
			c.logger.Error("handler failed, skipping message",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"attempts", c.retry.MaxAttempts,
				"error", err,
			)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
		}
	}
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}

// deliver calls h until it succeeds, the policy is exhausted or ctx is done.
func deliver(ctx context.Context, h Handler, msg Message, policy RetryPolicy) error {
	attempts := max(policy.MaxAttempts, 1)
	var err error
	for i := 0; i < attempts; i++ {
		if err = h(ctx, msg); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(policy.Backoff):
		}
	}
	return err
}
