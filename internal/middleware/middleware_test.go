package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"house-admin/internal/model"
	"house-admin/internal/security"
	"house-admin/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func pathContext(path string, claims *service.CustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}
	return c, rec
}

func TestExtractClaims(t *testing.T) {
	// missing header
	ctx, _ := newContext("")
	_, err := extractClaims(ctx, "testsecret")
	require.Error(t, err)

	// bad format
	ctx, _ = newContext("BadHeader")
	_, err = extractClaims(ctx, "testsecret")
	require.Error(t, err)

	// invalid token
	ctx, _ = newContext("Bearer invalid")
	_, err = extractClaims(ctx, "testsecret")
	require.Error(t, err)

	// valid token
	tok, err := service.IssueAccessToken("testsecret", model.User{ID: 1, Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)
	ctx, _ = newContext("Bearer " + tok)
	claims, err := extractClaims(ctx, "testsecret")
	require.NoError(t, err)
	require.Equal(t, 1, claims.UserID)
	require.True(t, claims.IsAdmin())

	// cookie wins over header
	userTok, err := service.IssueAccessToken("testsecret", model.User{ID: 9, Role: model.RoleGeneral}, time.Minute)
	require.NoError(t, err)
	ctx, _ = newContext("Bearer " + tok)
	ctx.Request().AddCookie(&http.Cookie{Name: SessionCookie, Value: userTok})
	claims, err = extractClaims(ctx, "testsecret")
	require.NoError(t, err)
	require.Equal(t, 9, claims.UserID)
}

func TestAuthenticate(t *testing.T) {
	tok, err := service.IssueAccessToken("secret", model.User{ID: 2}, time.Minute)
	require.NoError(t, err)

	ctx, rec := newContext("")
	ctx.Request().AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	called := false
	handler := Authenticate("secret")(func(c echo.Context) error {
		called = true
		require.Equal(t, 2, Principal(c).UserID)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// bad token continues anonymously
	ctx, _ = newContext("Bearer invalid")
	called = false
	err = Authenticate("secret")(func(c echo.Context) error {
		called = true
		require.Nil(t, Principal(c))
		return nil
	})(ctx)
	require.NoError(t, err)
	require.True(t, called)

	// a token signed with another secret continues anonymously
	ctx, _ = newContext("")
	ctx.Request().AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	err = Authenticate("rotated")(func(c echo.Context) error {
		require.Nil(t, Principal(c))
		return nil
	})(ctx)
	require.NoError(t, err)
}

func TestAuthorize(t *testing.T) {
	mw := Authorize(security.DefaultRules())
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	// anonymous on admin area is sent to login
	ctx, rec := pathContext("/admin/houses", nil)
	require.NoError(t, mw(ok)(ctx))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, LoginPath, rec.Header().Get(echo.HeaderLocation))

	// general user is forbidden
	ctx, _ = pathContext("/admin/houses", &service.CustomClaims{UserID: 2, Role: model.RoleGeneral})
	err := mw(ok)(ctx)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusForbidden, he.Code)

	// admin passes
	ctx, rec = pathContext("/admin/houses", &service.CustomClaims{UserID: 1, Role: model.RoleAdmin})
	require.NoError(t, mw(ok)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	// public page
	ctx, rec = pathContext("/houses/1", nil)
	require.NoError(t, mw(ok)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	// an escaped slash decodes to a public path but routes into the admin area
	ctx, rec = pathContext("/admin/houses/..%2F..%2Fhouses/delete", nil)
	require.Equal(t, "/admin/houses/../../houses/delete", ctx.Request().URL.Path)
	require.NoError(t, mw(func(echo.Context) error {
		t.Fatal("reached the handler")
		return nil
	})(ctx))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, LoginPath, rec.Header().Get(echo.HeaderLocation))
}

func TestCSRF(t *testing.T) {
	e := echo.New()
	e.Use(CSRF(false))
	e.GET("/form", func(c echo.Context) error { return c.String(http.StatusOK, CSRFToken(c)) })
	e.POST("/submit", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.POST(WebhookPath, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// GET hands out a token and a cookie
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)
	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CSRFCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)

	// POST without token is rejected
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submit", nil))
	require.Contains(t, []int{http.StatusBadRequest, http.StatusForbidden}, rec.Code)

	// POST with form token and cookie passes
	form := url.Values{CSRFField: {token}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// webhook needs no token
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader("{}")))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionCookies(t *testing.T) {
	ctx, rec := newContext("")
	SetSession(ctx, "tok", true)
	ck := rec.Result().Cookies()[0]
	require.Equal(t, SessionCookie, ck.Name)
	require.Equal(t, "tok", ck.Value)
	require.True(t, ck.HttpOnly)
	require.True(t, ck.Secure)
	require.Equal(t, int(service.SessionTTL.Seconds()), ck.MaxAge)

	ctx, rec = newContext("")
	ClearSession(ctx)
	ck = rec.Result().Cookies()[0]
	require.Equal(t, -1, ck.MaxAge)
}
