package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/session"
	"github.com/aastu-its/interntrack/core/staff"
)

const contextTokenKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	core.Session
	OrigIssuedAt int64 `json:"oriat,omitempty"`
}

type tokenIssuer struct {
	appName      string
	key          []byte
	expiration   time.Duration
	refreshDelta time.Duration
	nowFunc      func() time.Time
}

func newTokenIssuer(conf *core.Config) *tokenIssuer {
	return &tokenIssuer{
		appName:      conf.AppName,
		key:          []byte(conf.SecretKey),
		expiration:   conf.Server.JWTExpirationDelta,
		refreshDelta: conf.Server.JWTRefreshExpirationDelta,
		nowFunc:      time.Now,
	}
}

func (ti *tokenIssuer) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    ti.key,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func (ti *tokenIssuer) claims(sess core.Session, origIat ...int64) *Claims {
	now := ti.nowFunc()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    ti.appName,
			Subject:   sess.ID,
			ExpiresAt: now.Add(ti.expiration).Unix(),
			IssuedAt:  nownix,
		},
		Session:      sess,
		OrigIssuedAt: oriat,
	}
}

func (ti *tokenIssuer) generate(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString(ti.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// refresh issues a new token for the session of the current one, until the refresh delta is over.
func (ti *tokenIssuer) refresh(claims Claims) (string, error) {
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(ti.refreshDelta)
	if ti.nowFunc().After(expTime) {
		return "", errRefreshExpired
	}
	return ti.generate(ti.claims(claims.Session, claims.OrigIssuedAt))
}

// GenerateToken returns a signed token for sess. It is what a successful login responds with.
func GenerateToken(conf *core.Config, sess core.Session) (string, error) {
	ti := newTokenIssuer(conf)
	return ti.generate(ti.claims(sess))
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (core.Session, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Session{}, err
	}
	return claims.Session, nil
}

type authApi struct {
	tokens   *tokenIssuer
	sessions *session.Resolver
	validate *validator.Validate
}

func registerAuthAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	tokens *tokenIssuer,
	sessions *session.Resolver,
	validate *validator.Validate,
) {
	api := authApi{
		tokens:   tokens,
		sessions: sessions,
		validate: validate,
	}

	g.GET("/roles", api.queryRoles)

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, err := api.sessions.Authenticate(ctx.Request().Context(), session.Credentials{
		Role:       data.Role,
		Identifier: data.Identifier,
		Password:   data.Password,
	})
	if err != nil {
		if isAuthFailure(err) {
			return core.NewValidationError(errors.Cause(err))
		}
		return errors.Wrap(err, "authenticating")
	}

	token, err := api.tokens.generate(api.tokens.claims(sess))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		Session:  sess,
		Redirect: sess.Role.DashboardPath(),
	})
}

func isAuthFailure(err error) bool {
	switch cause := errors.Cause(err); cause {
	case core.ErrInvalidCredentials, core.ErrUnknownRole, session.ErrInvalidAdminCredentials,
		company.ErrNoVerifiedAccount, company.ErrNotVerified:
		return true
	default:
		_, ok := cause.(staff.NoAccountError)
		return ok
	}
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	token, err := api.tokens.refresh(claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Session: claims.Session})
}

func (api *authApi) queryRoles(ctx echo.Context) error {
	roles := make([]RoleResponse, 0, len(core.Roles))
	for _, r := range core.Roles {
		roles = append(roles, RoleResponse{Role: r, Dashboard: r.DashboardPath()})
	}
	return ctx.JSON(http.StatusOK, roles)
}
