//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/lms/internal/domain/event"
	"github.com/bibbank/lms/internal/infrastructure/kafka"
	pkgkafka "github.com/bibbank/lms/pkg/kafka"
	"github.com/bibbank/lms/pkg/testutil"
)

func TestKafkaRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	broker := testutil.NewKafkaContainer(ctx, t)
	cfg := pkgkafka.Config{Brokers: broker.Brokers, ClientID: "lms-test", ConsumerGroup: "lms-test"}

	producer, err := pkgkafka.NewProducer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = producer.Close() })

	t.Run("score requests reach the handler", func(t *testing.T) {
		uc := &fakeScoreComputer{}
		var mu sync.Mutex
		handler := kafka.NewScoreRequestHandler(uc, discard())
		locked := func(ctx context.Context, msg pkgkafka.Message) error {
			mu.Lock()
			defer mu.Unlock()
			return handler(ctx, msg)
		}

		consumer, err := pkgkafka.NewConsumer(cfg, "lms.test.scores", locked, pkgkafka.DefaultRetryPolicy, discard())
		require.NoError(t, err)
		t.Cleanup(func() { _ = consumer.Close() })

		consumeCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() { _ = consumer.Start(consumeCtx) }()

		queue := kafka.NewCreditScoreQueue(producer, "lms.test.scores")
		require.Eventually(t, func() bool {
			return queue.Enqueue(ctx, "borrower-1") == nil
		}, 30*time.Second, time.Second)

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(uc.seen) > 0 && uc.seen[0] == "borrower-1"
		}, 60*time.Second, 500*time.Millisecond)
	})

	t.Run("domain events carry their headers", func(t *testing.T) {
		received := make(chan pkgkafka.Message, 1)
		consumer, err := pkgkafka.NewConsumer(
			pkgkafka.Config{Brokers: broker.Brokers, ConsumerGroup: "lms-test-events"},
			"lms.test.events",
			func(_ context.Context, msg pkgkafka.Message) error {
				select {
				case received <- msg:
				default:
				}
				return nil
			},
			pkgkafka.DefaultRetryPolicy, discard())
		require.NoError(t, err)
		t.Cleanup(func() { _ = consumer.Close() })

		consumeCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() { _ = consumer.Start(consumeCtx) }()

		pub := kafka.NewEventPublisher(producer, "lms.test.events", discard())
		evt := event.NewLoanClosed("loan-7", "borrower-7", decimal.Zero)
		require.Eventually(t, func() bool {
			return pub.Publish(ctx, evt) == nil
		}, 30*time.Second, time.Second)

		select {
		case msg := <-received:
			assert.Equal(t, "loan-7", string(msg.Key))
			assert.Equal(t, event.TypeLoanClosed, msg.Headers["event_type"])
			var body map[string]any
			require.NoError(t, json.Unmarshal(msg.Value, &body))
			assert.Equal(t, "borrower-7", body["borrower_id"])
		case <-time.After(60 * time.Second):
			t.Fatal("event was not consumed")
		}
	})
}
