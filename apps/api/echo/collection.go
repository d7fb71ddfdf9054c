package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/record"
)

// validated is implemented by pointers to the portal records.
type validated[T any] interface {
	*T
	Validate() error
}

// collectionAccess holds the middleware guarding each kind of operation on a collection.
type collectionAccess struct {
	read   []echo.MiddlewareFunc
	create []echo.MiddlewareFunc
	modify []echo.MiddlewareFunc
}

type collectionApi[T record.Record[T], PT validated[T]] struct {
	coll *record.Collection[T]
}

// registerCollectionAPI exposes list, retrieve, create, update and delete endpoints for coll under g.
func registerCollectionAPI[T record.Record[T], PT validated[T]](g *echo.Group, coll *record.Collection[T], access collectionAccess) {
	api := collectionApi[T, PT]{coll: coll}

	g.GET("", api.list, access.read...)
	g.GET("/:id", api.retrieve, access.read...)
	g.POST("", api.create, access.create...)
	g.PUT("/:id", api.update, access.modify...)
	g.DELETE("/:id", api.destroy, access.modify...)
}

// Handlers

func (api collectionApi[T, PT]) list(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.coll.List(ctx.Request().Context()))
}

func (api collectionApi[T, PT]) retrieve(ctx echo.Context) error {
	rec := api.coll.Get(ctx.Request().Context(), ctx.Param("id"))
	if rec == nil {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api collectionApi[T, PT]) create(ctx echo.Context) error {
	var data T
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrapf(err, "binding to %s record", api.coll.Key())
	}
	if err := PT(&data).Validate(); err != nil {
		return err
	}

	rec, err := api.coll.Add(ctx.Request().Context(), data.WithID(""))
	if err != nil {
		return storageError(err, "adding", api.coll.Key())
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api collectionApi[T, PT]) update(ctx echo.Context) error {
	var data T
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrapf(err, "binding to %s record", api.coll.Key())
	}
	data = data.WithID(ctx.Param("id"))
	if err := PT(&data).Validate(); err != nil {
		return err
	}

	rec, err := api.coll.Update(ctx.Request().Context(), data)
	if err != nil {
		return storageError(err, "updating", api.coll.Key())
	}
	if rec == nil {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api collectionApi[T, PT]) destroy(ctx echo.Context) error {
	found, err := api.coll.Remove(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return storageError(err, "removing", api.coll.Key())
	}
	if !found {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}

// storageError wraps a failed mutation. A missing substrate cannot recover, so it shuts the server down.
func storageError(err error, op, key string) error {
	if errors.Cause(err) == record.ErrNoStorage {
		return core.NewShutdownError(op + " " + key + " record: " + err.Error())
	}
	return errors.Wrapf(err, "%s %s record", op, key)
}
