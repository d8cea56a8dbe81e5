package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark, staffMiddleware())
	ag.GET("/student/:id/summary", api.studentSummary)
	ag.GET("/batch/:id/date/:date", api.listByBatchDate, staffMiddleware())
	ag.POST("/batch/:id/date/:date", api.markBatch, staffMiddleware())
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	markedByID, err := claims.UserID()
	if err != nil {
		return err
	}

	att, err := api.svc.Mark(ctx.Request().Context(), data, markedByID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *attendanceApi) markBatch(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}

	var data attendance.BulkMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkMark")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	markedByID, err := claims.UserID()
	if err != nil {
		return err
	}

	atts, err := api.svc.MarkBatch(ctx.Request().Context(), id, date, data, markedByID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, atts)
}

func (api *attendanceApi) studentSummary(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	rng, err := bindDateRange(ctx, "fromDate", "toDate")
	if err != nil {
		return err
	}

	summary, err := api.svc.SummarizeStudent(ctx.Request().Context(), id, rng)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *attendanceApi) listByBatchDate(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	date, err := dateParam(ctx, "date")
	if err != nil {
		return err
	}

	atts, err := api.svc.ListByBatchDate(ctx.Request().Context(), id, date)
	if err != nil {
		return err
	}
	if atts == nil {
		atts = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, atts)
}
