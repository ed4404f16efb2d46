package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "lms:loan-lock:"

// Releases the lock only when it is still held by the caller's token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Connect opens a Redis client and verifies it with a PING.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// RedisLocker implements port.LoanLocker with SET NX PX keys so that payment
// processing for one loan is serialised across every lmsd replica. The TTL
// bounds how long a crashed holder can block a loan.
type RedisLocker struct {
	client     goredis.UniversalClient
	ttl        time.Duration
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewRedisLocker creates a locker. A non-positive ttl defaults to 10s.
func NewRedisLocker(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		retryDelay: 25 * time.Millisecond,
		logger:     logger,
	}
}

// Lock blocks until the loan key is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, loanID string) (func(), error) {
	key := keyPrefix + loanID
	token := uuid.New().String()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("acquire lock for loan %s: %w", loanID, ctxErr)
			}
			return nil, fmt.Errorf("acquire lock for loan %s: %w", loanID, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock for loan %s: %w", loanID, ctx.Err())
		case <-time.After(l.retryDelay):
		}
	}

	return func() {
		// The caller's ctx may already be cancelled; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
			l.logger.Warn("failed to release loan lock", "loan_id", loanID, "error", err)
		}
	}, nil
}
