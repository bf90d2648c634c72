package middleware

import (
	"net/http"
	"strings"

	"coworking_app_go/config"
	"coworking_app_go/db"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyPrincipal is the context key for the authenticated principal
	ContextKeyPrincipal = "principal"
	// ContextKeyConfig is the context key under which cmd/server stores the config
	ContextKeyConfig = "config"
)

// RequireAuth is middleware that requires a valid bearer token.
// The principal is re-read from the store so a deleted user loses access immediately.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cfg, ok := c.Get(ContextKeyConfig).(*config.Config)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "configuration not available")
			}

			token := bearerToken(c.Request())
			if token == "" {
				return services.UnauthorizedError("missing bearer token")
			}

			claims, err := services.ParseToken(cfg.JWTSecret, token)
			if err != nil {
				return err
			}

			principal, err := services.ResolvePrincipal(db.DB, claims.Role, claims.Subject)
			if err != nil {
				return err
			}

			c.Set(ContextKeyPrincipal, principal)
			return next(c)
		}
	}
}

// RequireRole is middleware that requires one of the given roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := GetCurrentPrincipal(c)
			if principal == nil {
				return services.UnauthorizedError("not authenticated")
			}

			for _, role := range roles {
				if principal.Role == role {
					return next(c)
				}
			}
			return services.ForbiddenError("insufficient permissions")
		}
	}
}

// GetCurrentPrincipal retrieves the authenticated principal from context
func GetCurrentPrincipal(c echo.Context) *services.Principal {
	principal, ok := c.Get(ContextKeyPrincipal).(*services.Principal)
	if !ok {
		return nil
	}
	return principal
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
