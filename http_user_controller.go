package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

// RegisterUserRoutes mounts the user management endpoints behind the admin
// role gate.
func RegisterUserRoutes[T any](app router.Router[T], auther Middleware, opts ...UserControllerOption) {

	controller := NewUserController(opts...)

	app.
		Delete(controller.Routes.Remove,
			controller.RemoveUser,
			auther.ProtectedRoute(RoleAdmin),
		).
		SetName("user.remove.delete")
}

type UserControllerRoutes struct {
	Remove string
}

type UserController struct {
	Logger Logger
	Repo   RepositoryManager
	Routes *UserControllerRoutes
}

type UserControllerOption func(*UserController) *UserController

func NewUserController(opts ...UserControllerOption) *UserController {
	c := &UserController{
		Logger: defLogger{},
		Routes: &UserControllerRoutes{
			Remove: "/user/:id",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in user controller...")
	}

	return c
}

func WithUserControllerRepo(repo RepositoryManager) UserControllerOption {
	return func(c *UserController) *UserController {
		c.Repo = repo
		return c
	}
}

func WithUserControllerLogger(logger Logger) UserControllerOption {
	return func(c *UserController) *UserController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithUserControllerRoutes(routes *UserControllerRoutes) UserControllerOption {
	return func(c *UserController) *UserController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func (u *UserController) RemoveUser(ctx router.Context) error {
	id := ctx.Param("id")

	if err := u.Repo.Users().RemoveUser(ctx.Context(), id); err != nil {
		u.Logger.Error("remove user %s: %v", id, err)
		return WriteError(ctx, u.Logger, err)
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"deleted": id,
	})
}
