package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devhaven/account-api/internal/domain"
	"github.com/devhaven/account-api/internal/service"
	"github.com/devhaven/account-api/internal/util"
)

const (
	contextUserKey  = "auth.user"
	contextTokenKey = "auth.token"

	sessionCookieName = "token"
)

// RequireAuth resolves the session token before the wrapped handler runs.
// Missing cookie, bad signature, expired token and deleted user all produce
// the same generic 401 so callers cannot tell which check failed.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, util.Error(service.ErrNotAuthorized.Error()))
			}
			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Error(service.ErrNotAuthorized.Error()))
			}
			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

// sessionToken pulls the credential from the token cookie, falling back to a
// bearer Authorization header for non-browser clients.
func sessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextUserKey).(*domain.User)
	return user, ok
}
