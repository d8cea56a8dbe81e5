package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/broadcast"
	"github.com/trezcool/shule/core/user"
)

type broadcastApi struct {
	svc    *broadcast.Service
	usrSvc *user.Service
}

func registerBroadcastAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *broadcast.Service, usrSvc *user.Service) {
	api := broadcastApi{svc: svc, usrSvc: usrSvc}

	bg := g.Group("/broadcasts", jwt, adminMiddleware())
	bg.POST("", api.send)
	bg.GET("", api.query)
}

// Handlers

func (api *broadcastApi) send(ctx echo.Context) error {
	var data broadcast.NewBroadcast
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBroadcast")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	b, err := api.svc.Send(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *broadcastApi) query(ctx echo.Context) error {
	broadcasts, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying broadcasts")
	}
	return ctx.JSON(http.StatusOK, broadcasts)
}
