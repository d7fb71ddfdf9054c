package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core/user"
)

// guards builds the middleware chains protecting the API routes.
type guards struct {
	jwt     echo.MiddlewareFunc
	session echo.MiddlewareFunc
}

func newGuards(jwt echo.MiddlewareFunc, svc *user.Service) guards {
	return guards{jwt: jwt, session: sessionMiddleware(svc)}
}

// authed requires a valid token for the current session.
func (g guards) authed() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.jwt, g.session}
}

// roles requires a valid token for the current session, held by a user with one of roles.
func (g guards) roles(roles ...user.Role) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.jwt, g.session, rolesMiddleware(roles...)}
}

// sessionMiddleware only lets through tokens issued to the user currently held in the session slot.
// That user is stored in the context.
func sessionMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			cur := svc.CurrentSession(ctx.Request().Context())
			if cur == nil || cur.ID != claims.Subject {
				return errSessionEnded
			}
			ctx.Set(contextUserKey, *cur)
			return next(ctx)
		}
	}
}

func rolesMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if usr.HasRole(roles...) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
