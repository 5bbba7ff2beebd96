package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Middleware gates protected routes behind token resolution and the role gate
type Middleware interface {
	ProtectedRoute(required ...UserRole) router.MiddlewareFunc
}

// ErrMissingAuthHeader is returned when the request carries no bearer token
var ErrMissingAuthHeader = errors.New("missing or malformed JWT", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// RouteAuthenticator adapts the Authenticator to HTTP routes
type RouteAuthenticator struct {
	auth         Authenticator
	cfg          Config
	Logger       Logger
	ErrorHandler router.ErrorHandler
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) *RouteAuthenticator {
	a := &RouteAuthenticator{
		auth:   auther,
		cfg:    cfg,
		Logger: defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a
}

// ProtectedRoute resolves the bearer token into an identity, runs the role
// gate against the route's declared requirement, and stores the identity in
// router locals and the request context for downstream handlers.
func (a *RouteAuthenticator) ProtectedRoute(required ...UserRole) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw, err := ExtractBearerToken(ctx, a.cfg.GetAuthScheme())
			if err != nil {
				return a.ErrorHandler(ctx, err)
			}

			identity, err := a.auth.IdentityFromToken(ctx.Context(), raw)
			if err != nil {
				return a.ErrorHandler(ctx, err)
			}

			if err := Authorize(identity, required...); err != nil {
				return a.ErrorHandler(ctx, err)
			}

			ctx.Locals(a.cfg.GetContextKey(), identity)
			ctx.SetContext(WithIdentityContext(ctx.Context(), identity))

			return next(ctx)
		}
	}
}

// ExtractBearerToken pulls the opaque token string out of the Authorization
// header. The core only needs the raw string; parsing happens in the codec.
func ExtractBearerToken(ctx router.Context, scheme string) (string, error) {
	header := ctx.Header(router.HeaderAuthorization)
	if header == "" {
		return "", ErrMissingAuthHeader
	}

	if scheme == "" {
		return header, nil
	}

	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", ErrMissingAuthHeader
	}

	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", ErrMissingAuthHeader
	}

	return token, nil
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	return WriteError(c, a.Logger, err)
}

// WriteError maps a structured error onto the HTTP response. Expected auth
// outcomes keep their message and text code; anything uncategorized becomes
// an opaque internal failure with the cause preserved in the logs.
func WriteError(c router.Context, logger Logger, err error) error {
	if logger == nil {
		logger = defLogger{}
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		logger.Error("unexpected transport error: %v", err)
		richErr = errors.Wrap(err, errors.CategoryInternal, "an unexpected error occurred").
			WithCode(errors.CodeInternal)
	}

	code := richErr.Code
	if code == 0 {
		code = errors.CodeInternal
	}

	message := richErr.Message
	if richErr.Category == errors.CategoryInternal {
		logger.Error("internal error surfaced to transport: %v", err)
		message = "an unexpected error occurred"
	}

	return c.JSON(code, map[string]any{
		"error": map[string]any{
			"message":   message,
			"text_code": richErr.TextCode,
		},
	})
}

var _ Middleware = (*RouteAuthenticator)(nil)
