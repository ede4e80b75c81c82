// File: internal/handler/auth/login.go
package auth

import (
	"errors"
	"net/http"

	"house-admin/internal/database"
	"house-admin/internal/form"
	"house-admin/internal/middleware"
	"house-admin/internal/service"
	"house-admin/internal/store"

	"github.com/labstack/echo/v4"
)

const (
	loginFailedPath = "/login?error"
	loggedInPath    = "/?loggedIn"
	loggedOutPath   = "/?loggedOut"
)

var (
	getUserByEmail   = store.GetUserByEmail
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
)

// LoginPageHandler 顯示登入頁面，帶 ?error 時顯示登入失敗訊息
func LoginPageHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		_, failed := c.QueryParams()["error"]
		return c.Render(http.StatusOK, "auth/login", echo.Map{"error": failed})
	}
}

// LoginHandler 使用 username(Email)/password 驗證，成功後以 jwtSecret 簽發令牌並寫入 SESSION cookie
func LoginHandler(db database.DB, jwtSecret string, secureCookie bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req form.LoginForm
		if err := c.Bind(&req); err != nil {
			return c.Redirect(http.StatusFound, loginFailedPath)
		}
		if err := c.Validate(&req); err != nil {
			return c.Redirect(http.StatusFound, loginFailedPath)
		}

		// 撈使用者資料
		user, err := getUserByEmail(c.Request().Context(), db, req.Username)
		if errors.Is(err, store.ErrNotFound) {
			return c.Redirect(http.StatusFound, loginFailedPath)
		}
		if err != nil {
			return err
		}

		// 驗證密碼與帳號狀態
		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.Redirect(http.StatusFound, loginFailedPath)
		}

		// 發行 session 令牌
		token, err := issueAccessToken(jwtSecret, *user, service.SessionTTL)
		if err != nil {
			return err
		}
		middleware.SetSession(c, token, secureCookie)
		return c.Redirect(http.StatusFound, loggedInPath)
	}
}

// LogoutHandler 清除 SESSION cookie
func LogoutHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		middleware.ClearSession(c)
		return c.Redirect(http.StatusFound, loggedOutPath)
	}
}
