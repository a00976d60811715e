package echoapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/user"
)

const (
	contextClaimsKey = "userToken"
	contextUserKey   = "user"
	tokenAudience    = "schooladmin"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	OrigIssuedAt int64     `json:"oriat,omitempty"`
	Email        string    `json:"email,omitempty"`
	Role         user.Role `json:"role,omitempty"`
	IsAdmin      bool      `json:"is_admin,omitempty"`
}

// UserID is the id of the user the token was issued to.
func (c Claims) UserID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}

// GetUserClaims returns fresh claims for usr. origIat is kept on refresh, so that refreshes expire.
func GetUserClaims(conf *core.Config, usr user.User, origIat ...int64) *Claims {
	now := time.Now()
	oriat := now.Unix()
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.FormatInt(usr.ID, 10),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.Server.JWTExpirationDelta)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OrigIssuedAt: oriat,
		Email:        usr.Email,
		Role:         usr.Role,
		IsAdmin:      usr.IsAdmin(),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func parseToken(conf *core.Config, raw string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(conf.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(tokenAudience),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// jwtMiddleware authenticates the request with its bearer token and stores the claims in the context.
func jwtMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(auth, "Bearer ")
			if !found || strings.TrimSpace(raw) == "" {
				return errMissingToken
			}
			claims, err := parseToken(conf, strings.TrimSpace(raw))
			if err != nil {
				return errInvalidToken.WithInternal(err)
			}
			ctx.Set(contextClaimsKey, *claims)
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(Claims); ok {
		return claims, nil
	}
	return Claims{}, errUnauthorized
}

// getContextUser loads the authenticated user once per request.
func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}
	usr, err := svc.Get(ctx.Request().Context(), claims.UserID())
	if err != nil {
		if core.IsNotFound(err) {
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

func authenticate(ctx echo.Context, conf *core.Config, svc *user.Service, email, pwd string) (*Claims, error) {
	usr, err := svc.Authenticate(ctx.Request().Context(), email, pwd)
	if err != nil {
		return nil, err
	}
	ctx.Set(contextUserKey, usr)
	return GetUserClaims(conf, usr), nil
}

func refreshToken(ctx echo.Context, conf *core.Config, svc *user.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	usr, err := getContextUser(ctx, svc)
	if err != nil {
		return "", err
	}

	// check if user is still active
	if !usr.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	return GenerateToken(conf, GetUserClaims(conf, usr, claims.OrigIssuedAt))
}
