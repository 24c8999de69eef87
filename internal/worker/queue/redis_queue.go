package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultBlock bounds one BRPOP so the caller regains control periodically.
const DefaultBlock = 5 * time.Second

type RedisQueue struct {
	rdb       *redis.Client
	queueName string
	block     time.Duration
}

func NewRedisQueue(rdb *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{rdb: rdb, queueName: queueName, block: DefaultBlock}
}

// Push enqueues one payload (LPUSH, consumed FIFO by Pop).
func (q *RedisQueue) Push(ctx context.Context, payload string) error {
	return q.rdb.LPush(ctx, q.queueName, payload).Err()
}

// Pop blocks up to the block duration (BRPOP). An empty string with a nil
// error means nothing arrived in time.
func (q *RedisQueue) Pop(ctx context.Context) (string, error) {
	res, err := q.rdb.BRPop(ctx, q.block, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	if len(res) < 2 {
		return "", nil
	}
	return res[1], nil
}

// Len reports the number of pending payloads.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.queueName).Result()
}
