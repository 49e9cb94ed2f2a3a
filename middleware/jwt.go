package middleware

import (
	"net/http"
	"strings"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/utils"
	"github.com/labstack/echo/v4"
)

func JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c)
			if !ok {
				return utils.FailMessage(c, http.StatusUnauthorized, "Authorization header is required")
			}

			claims, err := utils.ValidateJWT(tokenString)
			if err != nil {
				return utils.FailMessage(c, http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("user_email", claims.Email)
			c.Set("user_role", claims.Role)

			return next(c)
		}
	}
}

// OptionalJWT sets the caller's identity when a valid bearer token is
// present but lets anonymous requests through. Used on public listing
// routes where privileged callers get wider status filtering.
func OptionalJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tokenString, ok := bearerToken(c); ok {
				if claims, err := utils.ValidateJWT(tokenString); err == nil {
					c.Set("user_id", claims.UserID)
					c.Set("user_email", claims.Email)
					c.Set("user_role", claims.Role)
				}
			}
			return next(c)
		}
	}
}

// RequireRole rejects authenticated callers whose role is not allowed.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("user_role").(string)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return utils.FailMessage(c, http.StatusForbidden, "Access denied")
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
