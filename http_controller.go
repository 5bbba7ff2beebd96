package auth

import (
	stderrors "errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the authentication endpoints. The status check is
// behind ProtectedRoute with no role requirement: any resolved identity may
// ask about itself.
func RegisterAuthRoutes[T any](app router.Router[T], auther Middleware, opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Register, controller.RegisterPost).
		SetName("auth.register.post")

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login.post")

	app.
		Get(controller.Routes.CheckStatus,
			controller.CheckStatus,
			auther.ProtectedRoute(),
		).
		SetName("auth.check-status.get")
}

type AuthControllerRoutes struct {
	Login       string
	Register    string
	CheckStatus string
}

type AuthController struct {
	Debug      bool
	Logger     Logger
	Auther     Authenticator
	ContextKey string
	Routes     *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		ContextKey: "user",
		Routes: &AuthControllerRoutes{
			Login:       "/auth/login",
			Register:    "/auth/register",
			CheckStatus: "/auth/check-status",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithControllerAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func WithControllerContextKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if key != "" {
			c.ContextKey = key
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// AuthResponse is the body returned by register, login, and check-status
type AuthResponse struct {
	ID       string     `json:"id"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	Roles    []UserRole `json:"roles"`
	Token    string     `json:"token"`
}

func newAuthResponse(identity Identity, token string) AuthResponse {
	return AuthResponse{
		ID:       identity.ID(),
		Email:    identity.Email(),
		FullName: identity.FullName(),
		Roles:    identity.Roles(),
		Token:    token,
	}
}

// RegisterRequest payload
type RegisterRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	FullName string `form:"full_name" json:"full_name"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 50)),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
	)
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: %v", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: %v", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error":      "failed to validate request body",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	identity, token, err := a.Auther.Register(ctx.Context(), payload.Email, payload.Password, payload.FullName)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(fiber.StatusCreated, newAuthResponse(identity, token))
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"error":      "failed to validate request body",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	identity, token, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(fiber.StatusOK, newAuthResponse(identity, token))
}

// CheckStatus returns the resolved identity with a fresh token so clients can
// renew before the current one expires.
func (a *AuthController) CheckStatus(ctx router.Context) error {
	identity, ok := GetRouterIdentity(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, a.Logger, ErrMissingIdentity)
	}

	token, err := a.Auther.TokenFor(identity)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(fiber.StatusOK, newAuthResponse(identity, token))
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field-to-message map for JSON responses
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}

	var verrs validation.Errors
	if stderrors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}
