package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports", jwt, staffMiddleware())
	rg.GET("/dashboard", api.dashboard)
	rg.GET("/student-level-summary/:id", api.studentLevelSummary)
	rg.GET("/batch-attendance/:id", api.batchAttendance)
	rg.GET("/batch-attendance/:id/export", api.exportBatchAttendance)
}

// Handlers

func (api *reportApi) dashboard(ctx echo.Context) error {
	stats, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *reportApi) studentLevelSummary(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	summaries, err := api.svc.StudentLevelSummary(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *reportApi) batchAttendance(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	rng, err := bindDateRange(ctx, "from", "to")
	if err != nil {
		return err
	}

	stats, err := api.svc.BatchAttendance(ctx.Request().Context(), id, rng)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *reportApi) exportBatchAttendance(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	rng, err := bindDateRange(ctx, "from", "to")
	if err != nil {
		return err
	}

	buf, err := api.svc.ExportBatchAttendance(ctx.Request().Context(), id, rng)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("batch-%d-attendance.xlsx", id)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
