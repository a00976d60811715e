package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/user"
)

const contextObjectKey = "object"

var errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")

type userApi struct {
	conf *core.Config
	svc  *user.Service
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, conf *core.Config, svc *user.Service) {
	api := userApi{conf: conf, svc: svc}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.GET("/me", api.me)
	ag.GET("", api.query, adminMiddleware)
	ag.POST("", api.create, adminMiddleware)
	ag.GET("/roles", api.queryRoles, adminMiddleware)

	// detail endpoints
	dg := ag.Group("/:id", ctxUserOrAdminMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy, adminMiddleware)
}

func (api userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(ctx, api.conf, api.svc, data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api userApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api userApi) query(ctx echo.Context) error {
	var (
		filter user.QueryFilter
		page   core.PageRequest
	)
	b := newQueryBinder(ctx)
	b.page(&page)
	bindUserFilter(b, &filter)
	if err := b.bindErr(); err != nil {
		return err
	}

	users, err := api.svc.List(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.RoleAdmin.Values())
}

func (api userApi) retrieve(ctx echo.Context) error {
	usr, ok := ctx.Get(contextObjectKey).(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api userApi) update(ctx echo.Context) error {
	usr, ok := ctx.Get(contextObjectKey).(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	var data user.UpdateUser
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// `IsActive`, `Role` and `Email` can only be changed by admin
	if !ctxUsr.IsAdmin() && (data.IsActive != nil || data.Role != nil || data.Email != nil) {
		return errHttpForbidden
	}

	usr, err = api.svc.Update(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api userApi) destroy(ctx echo.Context) error {
	usr, ok := ctx.Get(contextObjectKey).(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	// ctxUser cannot delete themselves
	ctxUsr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.ID == ctxUsr.ID {
		return errHttpForbidden
	}

	if err = api.svc.Delete(ctx.Request().Context(), usr.ID); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	var flds []core.FieldError
	if lr.Email == "" {
		flds = append(flds, core.FieldError{Field: "email", Error: "this field is required"})
	}
	if lr.Password == "" {
		flds = append(flds, core.FieldError{Field: "password", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}
