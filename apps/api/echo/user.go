package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/user"
)

type sessionApi struct {
	svc  *user.Service
	conf *core.Config
}

func registerSessionAPI(g *echo.Group, guards guards, svc *user.Service, conf *core.Config) {
	api := sessionApi{svc: svc, conf: conf}

	sg := g.Group("/session")
	sg.POST("/login", api.login)
	sg.POST("/logout", api.logout, guards.authed()...)
	sg.GET("", api.current, guards.authed()...)
	sg.PATCH("", api.updateProfile, guards.authed()...)

	ug := g.Group("/users")
	ug.POST("/register", api.register)
	ug.GET("", api.query, guards.roles(user.RoleStaff)...)
}

// Handlers

func (api *sessionApi) login(ctx echo.Context) error {
	var data user.LoginCredentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginCredentials")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	if usr == nil {
		return errInvalidCreds
	}
	token, err := GenerateToken(GetUserClaims(*usr, api.conf), api.conf.SecretKey)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: *usr})
}

func (api *sessionApi) logout(ctx echo.Context) error {
	if err := api.svc.EndSession(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "ending session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) current(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *sessionApi) updateProfile(ctx echo.Context) error {
	var data user.ProfileUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProfileUpdate")
	}
	if data.IsEmpty() {
		return api.current(ctx)
	}

	usr, err := api.svc.UpdateProfile(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	if usr == nil { // session user removed from the directory
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *sessionApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	if usr == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "username", Error: user.ErrUsernameExists.Error()})
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *sessionApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Users(ctx.Request().Context()))
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}
