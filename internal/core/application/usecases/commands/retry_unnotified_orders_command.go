package commands

import (
	"errors"
	"time"

	"savannah/internal/pkg/errs"
	"savannah/internal/pkg/guard"
)

var ErrRetryUnnotifiedOrdersCommandIsNotConstructed = errors.New(
	"RetryUnnotifiedOrdersCommand must be created via NewRetryUnnotifiedOrdersCommand constructor",
)

const (
	DefaultRetryMinAge    = 5 * time.Minute
	DefaultRetryMaxAge    = 24 * time.Hour
	DefaultRetryBatchSize = 100
)

// RetryUnnotifiedOrdersCommand selects orders created between maxAge and
// minAge ago whose creation message was never delivered. minAge leaves room
// for the first attempt to finish.
type RetryUnnotifiedOrdersCommand struct { //nolint:recvcheck //using for validation
	minAge    time.Duration
	maxAge    time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

func NewRetryUnnotifiedOrdersCommand(minAge, maxAge time.Duration, batchSize int) (RetryUnnotifiedOrdersCommand, error) {
	var errAge, errBatch error
	if minAge < 0 || maxAge <= minAge {
		errAge = errs.NewValueIsOutOfRangeError("max_age", maxAge, minAge, "unbounded")
	}
	if batchSize <= 0 {
		errBatch = errs.NewValueIsOutOfRangeError("batch_size", batchSize, 1, "unbounded")
	}
	if err := errors.Join(errAge, errBatch); err != nil {
		return RetryUnnotifiedOrdersCommand{}, err
	}

	return RetryUnnotifiedOrdersCommand{
		minAge:    minAge,
		maxAge:    maxAge,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RetryUnnotifiedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRetryUnnotifiedOrdersCommandIsNotConstructed)
}

func (c RetryUnnotifiedOrdersCommand) MinAge() time.Duration {
	return c.minAge
}

func (c RetryUnnotifiedOrdersCommand) MaxAge() time.Duration {
	return c.maxAge
}

func (c RetryUnnotifiedOrdersCommand) BatchSize() int {
	return c.batchSize
}
