package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"house-admin/internal/observability"
	"house-admin/internal/security"
	"house-admin/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	ContextUserKey = "user"
	ContextCSRFKey = "csrf"

	SessionCookie = "SESSION"
	CSRFCookie    = "_csrf"
	CSRFField     = "_csrf"
	CSRFHeader    = "X-CSRF-Token"

	LoginPath   = "/login"
	WebhookPath = "/stripe/webhook"
)

// extractClaims reads the session token from the SESSION cookie, then from
// an Authorization bearer header, and verifies it with secret.
func extractClaims(c echo.Context, secret string) (*service.CustomClaims, error) {
	var tokenString string
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		tokenString = cookie.Value
	} else {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
		}
		tokenString = parts[1]
	}
	claims, err := service.VerifyAccessToken(secret, tokenString)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
	}
	return claims, nil
}

// Authenticate stores the principal under ContextUserKey when the request
// carries a session signed with secret. Anything else continues as anonymous.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := extractClaims(c, secret); err == nil {
				c.Set(ContextUserKey, claims)
			}
			return next(c)
		}
	}
}

// Principal returns the authenticated user, or nil for anonymous requests.
func Principal(c echo.Context) *service.CustomClaims {
	claims, _ := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims
}

// Authorize enforces rules. Anonymous requests that need a login are sent
// to the login page; authenticated ones lacking a role get 403.
func Authorize(rules []security.Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch d := security.DecideRequest(rules, c.Request(), Principal(c)); d {
			case security.Login:
				observability.ObserveDenied(d.String())
				return c.Redirect(http.StatusFound, LoginPath)
			case security.Forbidden:
				observability.ObserveDenied(d.String())
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}

// CSRF checks a double-submit token on unsafe methods. The payment webhook
// is called by a third party and is exempt; the exemption follows the route
// that matched, not the decoded URL.
func CSRF(secure bool) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == WebhookPath
		},
		TokenLookup:    "header:" + CSRFHeader + ",form:" + CSRFField,
		ContextKey:     ContextCSRFKey,
		CookieName:     CSRFCookie,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// CSRFToken returns the token the CSRF middleware placed on the context.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(ContextCSRFKey).(string)
	return token
}

func SetSession(c echo.Context, token string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(service.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
