package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/domain/model"
	pkgkafka "github.com/bibbank/lms/pkg/kafka"
)

// ScoreRequest is the work item carried on the credit score topic.
type ScoreRequest struct {
	BorrowerID  string    `json:"borrower_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// CreditScoreQueue implements port.CreditScoreQueue on a Kafka topic. Items
// for one borrower share a partition.
type CreditScoreQueue struct {
	producer Producer
	topic    string
}

// NewCreditScoreQueue creates a queue writing to topic.
func NewCreditScoreQueue(producer Producer, topic string) *CreditScoreQueue {
	return &CreditScoreQueue{producer: producer, topic: topic}
}

// Enqueue schedules a score computation for borrowerID.
func (q *CreditScoreQueue) Enqueue(ctx context.Context, borrowerID string) error {
	payload, err := json.Marshal(ScoreRequest{BorrowerID: borrowerID, RequestedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal score request: %w", err)
	}
	if err := q.producer.Publish(ctx, q.topic, pkgkafka.Message{
		Key:   []byte(borrowerID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("enqueue score request: %w", err)
	}
	return nil
}

// ScoreComputer is the use case behind the queue.
type ScoreComputer interface {
	Execute(ctx context.Context, req dto.ComputeCreditScoreRequest) (dto.CreditScoreResponse, error)
}

// NewScoreRequestHandler adapts uc to a consumer handler. Malformed items and
// unknown borrowers cannot succeed on retry, so they are logged and dropped;
// any other error is returned for redelivery.
func NewScoreRequestHandler(uc ScoreComputer, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, msg pkgkafka.Message) error {
		var req ScoreRequest
		if err := json.Unmarshal(msg.Value, &req); err != nil || req.BorrowerID == "" {
			logger.WarnContext(ctx, "dropping malformed score request", "key", string(msg.Key), "error", err)
			return nil
		}

		resp, err := uc.Execute(ctx, dto.ComputeCreditScoreRequest{BorrowerID: req.BorrowerID})
		switch {
		case errors.Is(err, model.ErrBorrowerNotFound):
			logger.WarnContext(ctx, "dropping score request for unknown borrower", "borrower_id", req.BorrowerID)
			return nil
		case err != nil:
			return fmt.Errorf("compute credit score for %s: %w", req.BorrowerID, err)
		}

		logger.DebugContext(ctx, "score request handled",
			"borrower_id", resp.BorrowerID,
			"credit_score", resp.CreditScore,
			"queued_for", time.Since(req.RequestedAt).String(),
		)
		return nil
	}
}
