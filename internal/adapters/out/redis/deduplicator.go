// Package redis keeps notification task claims in redis so that every
// worker process shares one view of which tasks already ran.
package redis

import (
	"context"
	"fmt"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const DefaultService = "savannah"

type Deduplicator struct {
	client      *redis.Client
	serviceName string
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func NewDeduplicator(client *redis.Client, serviceName string) *Deduplicator {
	if serviceName == "" {
		serviceName = DefaultService
	}
	return &Deduplicator{client: client, serviceName: serviceName}
}

// Claim sets the key only if it is absent, so exactly one of several
// concurrent redeliveries wins.
func (d *Deduplicator) Claim(ctx context.Context, taskID kernel.UUID, ttl time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(taskID), time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		return false, errs.NewDependencyUnavailableError("redis", err)
	}
	return ok, nil
}

// Complete overwrites the claim so that it lives for ttl from now.
func (d *Deduplicator) Complete(ctx context.Context, taskID kernel.UUID, ttl time.Duration) error {
	if err := d.client.Set(ctx, d.key(taskID), "done", ttl).Err(); err != nil {
		return errs.NewDependencyUnavailableError("redis", err)
	}
	return nil
}

func (d *Deduplicator) Release(ctx context.Context, taskID kernel.UUID) error {
	if err := d.client.Del(ctx, d.key(taskID)).Err(); err != nil {
		return errs.NewDependencyUnavailableError("redis", err)
	}
	return nil
}

// Ping reports whether redis answers.
func (d *Deduplicator) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func (d *Deduplicator) Close() error {
	return d.client.Close()
}

func (d *Deduplicator) key(taskID kernel.UUID) string {
	return fmt.Sprintf("%s:%s:%s", d.serviceName, "notification", taskID.String())
}
