package http

import (
	"strings"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

func pathString(c echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	raw, err := pathString(c, name)
	if err != nil {
		return kernel.UUID{}, err
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	var value int
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &value); err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

func queryString(c echo.Context, name string) (string, error) {
	var value string
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &value); err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return strings.TrimSpace(value), nil
}

func queryPage(c echo.Context) (offset, limit int, err error) {
	if offset, err = queryInt(c, "offset"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

func queryOptionalUUID(c echo.Context, name string) (*kernel.UUID, error) {
	raw, err := queryString(c, name)
	if err != nil || raw == "" {
		return nil, err
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &id, nil
}

func queryOptionalStatus(c echo.Context, name string) (*order.Status, error) {
	raw, err := queryString(c, name)
	if err != nil || raw == "" {
		return nil, err
	}
	status, err := order.ParseStatus(strings.ToLower(raw))
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// queryOptionalTime accepts RFC 3339 timestamps and plain dates. A plain
// end date covers the whole day.
func queryOptionalTime(c echo.Context, name string, endOfDay bool) (*time.Time, error) {
	raw, err := queryString(c, name)
	if err != nil || raw == "" {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
