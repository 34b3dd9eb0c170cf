// Package idempotency replays the recorded response of a POST that is
// retried with the same Idempotency-Key.
package idempotency

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/flight-seat-reservations/internal/adapters/redis"
)

type Response struct {
	// RequestHash identifies the request the response belongs to.
	RequestHash string
	Status      int
	ContentType string
	Body        []byte
}

// Backend is the durable response store, normally Redis.
type Backend interface {
	Get(ctx context.Context, key string) (*redisadapter.IdempResponse, error)
	Set(ctx context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error
}

type Idempotency struct {
	backend Backend
	ttl     time.Duration
}

// NewIdempotency returns nil when backend is nil, which disables replay.
func NewIdempotency(backend Backend, ttl time.Duration) *Idempotency {
	if backend == nil {
		return nil
	}
	return &Idempotency{backend: backend, ttl: ttl}
}

func (i *Idempotency) Enabled() bool {
	return i != nil
}

func (i *Idempotency) Get(ctx context.Context, key string) (*Response, error) {
	if i == nil || key == "" {
		return nil, nil
	}
	stored, err := i.backend.Get(ctx, key)
	if err != nil || stored == nil {
		return nil, err
	}
	return &Response{
		RequestHash: stored.RequestHash,
		Status:      stored.Status,
		ContentType: stored.ContentType,
		Body:        stored.Result,
	}, nil
}

func (i *Idempotency) Set(ctx context.Context, key string, resp Response) error {
	if i == nil || key == "" {
		return nil
	}
	return i.backend.Set(ctx, key, redisadapter.IdempResponse{
		RequestHash: resp.RequestHash,
		Status:      resp.Status,
		ContentType: resp.ContentType,
		Result:      resp.Body,
	}, i.ttl)
}
