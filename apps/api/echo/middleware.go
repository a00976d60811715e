package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/user"
)

func adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if !claims.IsAdmin {
			return errHttpForbidden
		}
		return next(ctx)
	}
}

// ctxUserOrAdminMiddleware loads the `:id` user into the context when it is the current user, or the current user is an admin.
// Anyone else gets a 404.
func ctxUserOrAdminMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := bindID(ctx)
			if err != nil {
				return err
			}
			ctxUsr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			if id == ctxUsr.ID || ctxUsr.IsAdmin() {
				if usr, err := svc.Get(ctx.Request().Context(), id); err == nil {
					ctx.Set(contextObjectKey, usr)
					return next(ctx)
				} else if !core.IsNotFound(err) {
					return errors.Wrap(err, "finding user by ID")
				}
			}
			return errHttpNotFound
		}
	}
}
