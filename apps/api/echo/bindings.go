package echoapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/deptportal/core"
)

const (
	limitParam  = "n"
	searchParam = "q"
	courseParam = "course"
)

// bindLimit reads the `n` query param, falling back to def when it is missing or not a positive integer.
func bindLimit(ctx echo.Context, def int) int {
	val := strings.TrimSpace(ctx.QueryParam(limitParam))
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// bindDate parses the named path param as a YYYY-MM-DD date.
func bindDate(ctx echo.Context, name string) (time.Time, error) {
	date, err := time.Parse(core.DateLayout, ctx.Param(name))
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a date formatted as YYYY-MM-DD"})
	}
	return date, nil
}
