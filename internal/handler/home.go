// File: internal/handler/home.go
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HomeHandler renders the top page. "?loggedIn" and "?loggedOut" show a
// notice after login and logout.
func HomeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		q := c.QueryParams()
		_, loggedIn := q["loggedIn"]
		_, loggedOut := q["loggedOut"]
		return c.Render(http.StatusOK, "index", echo.Map{
			"loggedIn":  loggedIn,
			"loggedOut": loggedOut,
		})
	}
}
