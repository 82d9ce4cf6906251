// Package server exposes the locator as a background service: an HTTP
// frontend that enqueues jobs onto a Redis list and a worker loop that
// drains it through the numeric engine, caching results back into Redis.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	jobList      = "seislocate:jobs"
	resultPrefix = "seislocate:result:"

	// DefaultRedisAddr is the cache's default local port.
	DefaultRedisAddr = "localhost:6379"
)

// resultTTL bounds how long finished job results stay in the cache.
const resultTTL = 24 * time.Hour

// Queue is the Redis-backed job queue and result cache.
type Queue struct {
	rdb *redis.Client
}

// NewQueue connects a queue client. An empty addr uses DefaultRedisAddr.
func NewQueue(addr string) *Queue {
	if addr == "" {
		addr = DefaultRedisAddr
	}
	return &Queue{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

// Close releases the client connections.
func (q *Queue) Close() error {
	return q.rdb.Close()
}

// Ping verifies the cache is reachable.
func (q *Queue) Ping(ctx context.Context) error {
	return q.rdb.Ping(ctx).Err()
}

// Enqueue pushes a job onto the work list.
func (q *Queue) Enqueue(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	if err := q.rdb.LPush(ctx, jobList, raw).Err(); err != nil {
		return fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}
	return nil
}

// Dequeue pops the oldest queued job, blocking up to timeout. A nil job with
// a nil error means the timeout elapsed with the list empty.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	vals, err := q.rdb.BRPop(ctx, timeout, jobList).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue: %w", err)
	}
	var job Job
	if err := json.Unmarshal([]byte(vals[1]), &job); err != nil {
		return nil, fmt.Errorf("decode queued job: %w", err)
	}
	return &job, nil
}

// SetResult stores a job result in the cache.
func (q *Queue) SetResult(ctx context.Context, res *Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", res.ID, err)
	}
	if err := q.rdb.Set(ctx, resultPrefix+res.ID, raw, resultTTL).Err(); err != nil {
		return fmt.Errorf("store result %s: %w", res.ID, err)
	}
	return nil
}

// Result fetches a job result; found is false for unknown ids.
func (q *Queue) Result(ctx context.Context, id string) (*Result, bool, error) {
	raw, err := q.rdb.Get(ctx, resultPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fetch result %s: %w", id, err)
	}
	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, false, fmt.Errorf("decode result %s: %w", id, err)
	}
	return &res, true, nil
}
