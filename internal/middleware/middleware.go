package middleware

import (
	"net/http"
	"strings"

	"campus-events/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

func extractClaims(c echo.Context) (*service.CustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	claims, err := service.VerifyAccessToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims, nil
}

// RequireAuth 驗證 Bearer token，成功時把 claims 放進 context
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := extractClaims(c)
		if err != nil {
			return err
		}
		c.Set(ContextUserKey, claims)
		return next(c)
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireAuth(func(c echo.Context) error {
		claims, _ := ClaimsFrom(c)
		if !claims.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	})
}

// ClaimsFrom 取出 RequireAuth 放入的 claims；路由未經 RequireAuth 時 ok 為 false
func ClaimsFrom(c echo.Context) (claims *service.CustomClaims, ok bool) {
	claims, ok = c.Get(ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims != nil
}
