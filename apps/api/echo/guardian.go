package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/guardian"
)

type guardianApi struct {
	svc *guardian.Service
}

func registerGuardianAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *guardian.Service) {
	api := guardianApi{svc: svc}

	gg := g.Group("/guardians", jwt, adminMiddleware())
	gg.POST("", api.link)
	gg.GET("", api.queryByUser)
	gg.GET("/:id", api.retrieve)
	gg.PUT("/:id", api.update)
	gg.DELETE("/:id", api.unlink)
}

// Handlers

func (api *guardianApi) link(ctx echo.Context) error {
	var data guardian.NewGuardian
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGuardian")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	gd, err := api.svc.Link(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, gd)
}

func (api *guardianApi) queryByUser(ctx echo.Context) error {
	userID, err := strconv.Atoi(ctx.QueryParam("user_id"))
	if err != nil || userID < 1 {
		return ctx.JSON(http.StatusOK, []guardian.Guardian{})
	}

	guardians, err := api.svc.QueryByUser(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying guardians")
	}
	return ctx.JSON(http.StatusOK, guardians)
}

func (api *guardianApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	gd, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, gd)
}

func (api *guardianApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data guardian.UpdateGuardian
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGuardian")
	}

	gd, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, gd)
}

func (api *guardianApi) unlink(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.Unlink(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
