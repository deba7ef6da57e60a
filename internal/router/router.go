package router

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/handler"
	"fintrack/internal/logging"
	"fintrack/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	entryHandler *handler.EntryHandler,
) {
	e.HTTPErrorHandler = ErrorHandler
	e.Use(logging.RequestLogger(logrus.StandardLogger()))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Middleware is attached per route: group middleware would also run for
	// unmatched paths and turn their 404 into a 401.
	secured := []echo.MiddlewareFunc{Authenticate(authService), RequireUser(authService)}

	v1 := e.Group("/api/v1")

	// Public routes
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/users", userHandler.CreateUser)

	v1.GET("/auth/me", authHandler.Me, secured...)
	v1.POST("/auth/logout", authHandler.Logout, secured...)

	v1.GET("/users", userHandler.ListUsers, secured...)
	v1.GET("/users/:id", userHandler.GetUser, secured...)
	v1.PATCH("/users/:id", userHandler.UpdateUser, secured...)
	v1.PUT("/users/:id", userHandler.UpdateUser, secured...)
	v1.DELETE("/users/:id", userHandler.DeleteUser, secured...)

	v1.GET("/categories", categoryHandler.ListCategories, secured...)
	v1.POST("/categories", categoryHandler.CreateCategory, secured...)
	v1.GET("/categories/:id", categoryHandler.GetCategory, secured...)
	v1.PATCH("/categories/:id", categoryHandler.UpdateCategory, secured...)
	v1.PUT("/categories/:id", categoryHandler.UpdateCategory, secured...)
	v1.DELETE("/categories/:id", categoryHandler.DeleteCategory, secured...)

	v1.GET("/entries", entryHandler.ListEntries, secured...)
	v1.POST("/entries", entryHandler.CreateEntry, secured...)
	v1.GET("/entries/:id", entryHandler.GetEntry, secured...)
	v1.PATCH("/entries/:id", entryHandler.UpdateEntry, secured...)
	v1.PUT("/entries/:id", entryHandler.UpdateEntry, secured...)
	v1.DELETE("/entries/:id", entryHandler.DeleteEntry, secured...)

	e.RouteNotFound("/*", handler.NotFound)
}

// Authenticate verifies the bearer token and stores its claims in the context.
func Authenticate(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ContextKeyClaims,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (any, error) {
			return authService.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return handler.Fail(c, errors.ErrUnauthorized)
		},
	})
}

// RequireUser rejects tokens whose user no longer exists and stores the user id.
func RequireUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(handler.ContextKeyClaims).(*auth.Claims)
			if !ok {
				return handler.Fail(c, errors.ErrUnauthorized)
			}
			if _, err := authService.Me(c.Request().Context(), claims.UserID); err != nil {
				return handler.Fail(c, err)
			}
			c.Set(handler.ContextKeyUserID, claims.UserID)
			return next(c)
		}
	}
}

// ErrorHandler renders every error as a JSON body. Errors that carry no body of
// their own, such as those raised by echo's router, get the generic one for
// their status. An unmatched method is reported like an unmatched route.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
		logrus.WithError(err).Error("unhandled error")
	}

	status := he.Code
	body := he.Message
	if status == http.StatusMethodNotAllowed {
		status = http.StatusNotFound
		body = nil
	}
	if _, isText := body.(string); isText || body == nil {
		body = errors.ResponseFor(status)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logrus.WithError(err).Error("write error response")
	}
}
