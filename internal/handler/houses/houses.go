// File: internal/handler/houses/houses.go

// Package houses serves the public house listing.
package houses

import (
	"net/http"

	"house-admin/internal/database"
	"house-admin/internal/handler"

	"github.com/labstack/echo/v4"
)

var (
	housePage = handler.HousePage
	loadHouse = handler.LoadHouse
)

// IndexHandler 公開的房屋列表，可用 keyword 搜尋名稱
func IndexHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, keyword, err := housePage(c, db)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "houses/index", echo.Map{
			"housePage": page,
			"keyword":   keyword,
			"baseURL":   "/houses",
		})
	}
}

// ShowHandler 公開的房屋詳細頁
func ShowHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		h, err := loadHouse(c, db)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "houses/show", echo.Map{"house": h})
	}
}
