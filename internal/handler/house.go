// File: internal/handler/house.go
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"house-admin/internal/database"
	"house-admin/internal/model"
	"house-admin/internal/pagination"
	"house-admin/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listHouses   = store.ListHouses
	searchHouses = store.SearchHousesByName
	getHouseByID = store.GetHouseByID
)

// HousePage 依查詢字串載入房屋分頁。非空的 "keyword" 會原樣
// （不 trim）用來篩選名稱包含它的房屋，並原樣回傳給畫面。
func HousePage(c echo.Context, db database.DB) (pagination.Page[model.House], string, error) {
	keyword := c.QueryParam("keyword")
	p := pagination.FromQuery(c.QueryParams(), pagination.Default())
	ctx := c.Request().Context()
	if keyword != "" {
		page, err := searchHouses(ctx, db, keyword, p)
		return page, keyword, err
	}
	page, err := listHouses(ctx, db, p)
	return page, keyword, err
}

// HouseID parses the ":id" path parameter.
func HouseID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid house id")
	}
	return id, nil
}

// LoadHouse fetches the house named by the path, answering 400 or 404 when
// it cannot.
func LoadHouse(c echo.Context, db database.DB) (*model.House, error) {
	id, err := HouseID(c)
	if err != nil {
		return nil, err
	}
	h, err := getHouseByID(c.Request().Context(), db, id)
	if err != nil {
		return nil, HouseError(err)
	}
	return h, nil
}

// HouseError turns store.ErrNotFound into a 404 and passes anything else on.
func HouseError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "house not found")
	}
	return err
}
