package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// tokenCookieName is the HTTP-only cookie the browser SPA carries its
// access token in. API clients use the Authorization header instead;
// the header wins when both are present.
const tokenCookieName = "token"

// JWTAuth returns an Echo middleware that validates an access token
// and injects its subject and role claims into the request context.
// Handlers downstream read them via c.Get("user_id") and c.Get("role").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerOrCookie(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing access token"})
			}

			// Parse with HS256 and our secret; reject tokens signed
			// with any other algorithm.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid claims"})
			}

			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}

// bearerOrCookie extracts the raw token string from the Authorization
// header, falling back to the session cookie.
func bearerOrCookie(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := c.Cookie(tokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
