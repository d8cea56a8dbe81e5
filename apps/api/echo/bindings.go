package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
)

// intParam parses a numeric path param; a malformed value reads as a miss.
func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id < 1 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// dateParam parses a 2006-01-02 path param.
func dateParam(ctx echo.Context, name string) (time.Time, error) {
	day, err := time.Parse(attendance.DateFormat, ctx.Param(name))
	if err != nil {
		return time.Time{}, core.NewValidationError(err, core.FieldError{
			Field: name, Error: "must be a valid date (2006-01-02)",
		})
	}
	return day, nil
}

// bindDateRange reads the optional inclusive date bounds off the query string.
// Missing params leave the range unbounded; an inverted range is passed
// through as-is and yields empty results downstream.
func bindDateRange(ctx echo.Context, fromParam, toParam string) (attendance.QueryRange, error) {
	var rng attendance.QueryRange

	if val := ctx.QueryParam(fromParam); val != "" {
		day, err := time.Parse(attendance.DateFormat, val)
		if err != nil {
			return rng, core.NewValidationError(err, core.FieldError{
				Field: fromParam, Error: "must be a valid date (2006-01-02)",
			})
		}
		rng.From = day
	}
	if val := ctx.QueryParam(toParam); val != "" {
		day, err := time.Parse(attendance.DateFormat, val)
		if err != nil {
			return rng, core.NewValidationError(err, core.FieldError{
				Field: toParam, Error: "must be a valid date (2006-01-02)",
			})
		}
		rng.To = day
	}
	return rng, nil
}
