package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/academic"
)

type academicApi struct {
	svc *academic.Service
}

func registerAcademicAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *academic.Service) {
	api := academicApi{svc: svc}

	tg := g.Group("/tests", jwt)
	tg.POST("", api.record, staffMiddleware())
	tg.GET("/:id", api.retrieve, staffMiddleware())
}

// Handlers

func (api *academicApi) record(ctx echo.Context) error {
	var data academic.NewTest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err := api.svc.RecordTest(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *academicApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	t, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}
