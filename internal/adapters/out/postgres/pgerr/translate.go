// Package pgerr classifies postgres driver errors into the errs taxonomy.
package pgerr

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"regexp"

	"savannah/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	// Name used in DependencyUnavailableError.
	Dependency = "postgres"
)

var detailKey = regexp.MustCompile(`^Key \(([a-z_]+)\)=\((.*)\)`)

// Columns maps constraint names to the column reported to callers.
type Columns map[string]string

// Translate maps err to the errs taxonomy:
//   - unique violations become ConflictError naming the column
//   - foreign key violations become ValueIsInvalidError naming the column
//   - connection failures become DependencyUnavailableError
//
// Any other error is returned unchanged.
func Translate(err error, columns Columns) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			column, value := describe(pgErr, columns)
			return errs.NewConflictErrorWithCause(column, value, err)
		case foreignKeyViolation:
			column, _ := describe(pgErr, columns)
			return errs.NewValueIsInvalidErrorWithCause(column, err)
		}
		return err
	}

	if IsConnectionError(err) {
		return errs.NewDependencyUnavailableError(Dependency, err)
	}
	return err
}

// IsConnectionError reports whether err means the database could not be
// reached. Context cancellation is not a connection error.
func IsConnectionError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func describe(pgErr *pgconn.PgError, columns Columns) (column string, value string) {
	if m := detailKey.FindStringSubmatch(pgErr.Detail); m != nil {
		column, value = m[1], m[2]
	}
	if mapped, ok := columns[pgErr.ConstraintName]; ok {
		column = mapped
	}
	if column == "" {
		column = pgErr.ConstraintName
	}
	return column, value
}
