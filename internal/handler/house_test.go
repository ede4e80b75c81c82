package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"house-admin/internal/database"
	"house-admin/internal/model"
	"house-admin/internal/pagination"
	"house-admin/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	name string
	data echo.Map
}

func (r *recordingRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	r.name = name
	r.data, _ = data.(echo.Map)
	_, err := io.WriteString(w, name)
	return err
}

func restore() {
	listHouses = store.ListHouses
	searchHouses = store.SearchHousesByName
	getHouseByID = store.GetHouseByID
}

func newGetCtx(target string) (echo.Context, *httptest.ResponseRecorder, *recordingRenderer) {
	e := echo.New()
	r := &recordingRenderer{}
	e.Renderer = r
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, r
}

func newIDCtx(id string) echo.Context {
	c, _, _ := newGetCtx("/houses/" + id)
	c.SetPath("/houses/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestHousePage(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		t.Cleanup(restore)
		var got pagination.Pageable
		listHouses = func(_ context.Context, _ database.DB, p pagination.Pageable) (pagination.Page[model.House], error) {
			got = p
			return pagination.NewPage([]model.House{{ID: 1}}, p, 1), nil
		}
		searchHouses = func(context.Context, database.DB, string, pagination.Pageable) (pagination.Page[model.House], error) {
			t.Fatal("search with empty keyword")
			return pagination.Page[model.House]{}, nil
		}
		c, _, _ := newGetCtx("/houses?keyword=&page=2&size=500&sort=price,desc")
		page, keyword, err := HousePage(c, &database.FakeDB{})
		require.NoError(t, err)
		require.Empty(t, keyword)
		require.Len(t, page.Content, 1)
		require.Equal(t, pagination.Pageable{Page: 2, Size: pagination.MaxSize, Sort: "price", Direction: pagination.DESC}, got)
	})

	t.Run("search uses the keyword as sent", func(t *testing.T) {
		t.Cleanup(restore)
		for _, kw := range []string{"Kyoto", "Kyoto ", " ", " Kyoto  Villa"} {
			var gotKeyword string
			listHouses = func(context.Context, database.DB, pagination.Pageable) (pagination.Page[model.House], error) {
				t.Fatalf("listed instead of searching %q", kw)
				return pagination.Page[model.House]{}, nil
			}
			searchHouses = func(_ context.Context, _ database.DB, q string, p pagination.Pageable) (pagination.Page[model.House], error) {
				gotKeyword = q
				return pagination.NewPage[model.House](nil, p, 0), nil
			}
			c, _, _ := newGetCtx("/houses?" + url.Values{"keyword": {kw}}.Encode())
			_, keyword, err := HousePage(c, &database.FakeDB{})
			require.NoError(t, err)
			require.Equal(t, kw, keyword)
			require.Equal(t, kw, gotKeyword)
		}
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		listHouses = func(context.Context, database.DB, pagination.Pageable) (pagination.Page[model.House], error) {
			return pagination.Page[model.House]{}, errors.New("down")
		}
		c, _, _ := newGetCtx("/houses")
		_, _, err := HousePage(c, &database.FakeDB{})
		require.Error(t, err)
	})
}

func TestHouseID(t *testing.T) {
	id, err := HouseID(newIDCtx("12"))
	require.NoError(t, err)
	require.Equal(t, 12, id)

	for _, bad := range []string{"abc", "0", "-1", ""} {
		_, err := HouseID(newIDCtx(bad))
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, bad)
		require.Equal(t, http.StatusBadRequest, he.Code)
	}
}

func TestLoadHouse(t *testing.T) {
	t.Cleanup(restore)
	getHouseByID = func(_ context.Context, _ database.DB, id int) (*model.House, error) {
		switch id {
		case 1:
			return &model.House{ID: 1}, nil
		case 2:
			return nil, fmt.Errorf("GetHouseByID: %w", store.ErrNotFound)
		}
		return nil, errors.New("down")
	}

	h, err := LoadHouse(newIDCtx("1"), &database.FakeDB{})
	require.NoError(t, err)
	require.Equal(t, 1, h.ID)

	_, err = LoadHouse(newIDCtx("2"), &database.FakeDB{})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusNotFound, he.Code)

	_, err = LoadHouse(newIDCtx("3"), &database.FakeDB{})
	require.EqualError(t, err, "down")

	_, err = LoadHouse(newIDCtx("x"), &database.FakeDB{})
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestHomeHandler(t *testing.T) {
	c, rec, r := newGetCtx("/?loggedIn")
	require.NoError(t, HomeHandler()(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "index", r.name)
	require.Equal(t, true, r.data["loggedIn"])
	require.Equal(t, false, r.data["loggedOut"])
}
