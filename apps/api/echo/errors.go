package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/user"
)

var (
	errMissingToken         = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
	errInvalidToken         = echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired jwt")
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// statusFor maps err onto its HTTP status and response body. ok is false for server errors.
func statusFor(err error) (code int, message interface{}, ok bool) {
	var (
		httpErr *echo.HTTPError
		vErr    *core.ValidationError
		riErr   *core.ReferentialIntegrityError
		nfErr   *core.NotFoundError
		ucErr   *core.UniquenessConflictError
	)
	switch {
	case errors.Is(err, user.ErrAuthenticationFailed):
		return errAuthenticationFailed.Code, errAuthenticationFailed.Message, true
	case errors.Is(err, user.ErrAccountDeactivated):
		return errAccountDeactivated.Code, errAccountDeactivated.Message, true
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message, true
	case errors.As(err, &vErr):
		if len(vErr.Fields) > 0 {
			fldErrs := make(map[string]string, len(vErr.Fields))
			for _, fErr := range vErr.Fields {
				fldErrs[fErr.Field] = fErr.Error
			}
			return http.StatusBadRequest, fldErrs, true
		}
		return http.StatusBadRequest, vErr.Error(), true
	case errors.As(err, &riErr):
		return http.StatusUnprocessableEntity, riErr.Error(), true
	case errors.As(err, &nfErr):
		return http.StatusNotFound, nfErr.Error(), true
	case errors.As(err, &ucErr):
		return http.StatusConflict, ucErr.Error(), true
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message, ok := statusFor(err)
		if !ok { // any other error is a server error
			fields := map[string]interface{}{
				"method":     ctx.Request().Method,
				"path":       ctx.Path(),
				"request_id": ctx.Response().Header().Get(echo.HeaderXRequestID),
			}
			if usr, uOk := ctx.Get(contextUserKey).(user.User); uOk {
				logger.Error(http.StatusText(code), errors.Wrap(err, "handling request"), fields, usr)
			} else {
				logger.Error(http.StatusText(code), errors.Wrap(err, "handling request"), fields)
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
			if ctx.Echo().Debug {
				message = err.Error()
			}
		}
		if m, isStr := message.(string); isStr {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
