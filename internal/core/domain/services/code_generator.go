package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"
)

const (
	DefaultMaxAttempts = 8
	DefaultBaseDelay   = 5 * time.Millisecond
	DefaultMaxDelay    = 250 * time.Millisecond
)

// RetryPolicy bounds the attempts made by UniqueCodeGenerator.Issue.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Delay returns the backoff before the given retry (1-based), doubling from
// BaseDelay and capped at MaxDelay.
func (p RetryPolicy) Delay(retry int) time.Duration {
	if retry <= 0 || p.BaseDelay <= 0 {
		return 0
	}
	delay := p.BaseDelay
	for i := 1; i < retry; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// UniqueCodeGenerator is safe for concurrent use.
type UniqueCodeGenerator struct {
	policy RetryPolicy
	intN   func(n int) int
	sleep  func(ctx context.Context, d time.Duration) error
}

type GeneratorOption func(*UniqueCodeGenerator)

// WithRandom replaces the random source. intN must return a value in [0, n).
func WithRandom(intN func(n int) int) GeneratorOption {
	return func(g *UniqueCodeGenerator) {
		g.intN = intN
	}
}

// WithSleep replaces the backoff wait, mainly for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) GeneratorOption {
	return func(g *UniqueCodeGenerator) {
		g.sleep = sleep
	}
}

func NewUniqueCodeGenerator(policy RetryPolicy, opts ...GeneratorOption) (*UniqueCodeGenerator, error) {
	if policy.MaxAttempts <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("max_attempts", policy.MaxAttempts, 1, "unbounded")
	}
	if policy.BaseDelay < 0 || policy.MaxDelay < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("retry_policy", errors.New("delays must not be negative"))
	}

	g := &UniqueCodeGenerator{
		policy: policy,
		intN:   rand.IntN,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewCustomerCode draws a random CUST code.
func (g *UniqueCodeGenerator) NewCustomerCode() customer.Code {
	code, _ := customer.NewCode(g.intN(customer.CodeSpace))
	return code
}

// NewOrderNumber draws a random order number for the day of now.
func (g *UniqueCodeGenerator) NewOrderNumber(now time.Time) order.Number {
	number, _ := order.NewNumber(now, g.intN(order.NumberSpace))
	return number
}

// Issue calls attempt until it succeeds, fails with anything other than a
// conflict on paramName, or the policy runs out of attempts. attempt is
// expected to draw a fresh value on each call. Conflicts on other values
// (a duplicate email, say) are returned as is. Exhaustion yields a
// ConflictError on paramName wrapping the last collision.
func (g *UniqueCodeGenerator) Issue(ctx context.Context, paramName string, attempt func(ctx context.Context) error) error {
	var lastErr error
	for try := 1; try <= g.policy.MaxAttempts; try++ {
		if try > 1 {
			if err := g.sleep(ctx, g.jitter(g.policy.Delay(try-1))); err != nil {
				return err
			}
		}

		lastErr = attempt(ctx)
		if lastErr == nil {
			return nil
		}
		if !isConflictOn(lastErr, paramName) {
			return lastErr
		}
	}

	return errs.NewConflictErrorWithCause(
		paramName,
		fmt.Sprintf("<no free value after %d attempts>", g.policy.MaxAttempts),
		lastErr,
	)
}

func isConflictOn(err error, paramName string) bool {
	var conflict *errs.ConflictError
	return errors.As(err, &conflict) && conflict.ParamName == paramName
}

// jitter spreads d over [d/2, d].
func (g *UniqueCodeGenerator) jitter(d time.Duration) time.Duration {
	half := int(d / 2)
	if half <= 0 {
		return d
	}
	return time.Duration(half + rand.IntN(half+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
