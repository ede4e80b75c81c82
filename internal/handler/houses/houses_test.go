package houses

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"house-admin/internal/database"
	"house-admin/internal/handler"
	"house-admin/internal/model"
	"house-admin/internal/pagination"

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
	housePage = handler.HousePage
	loadHouse = handler.LoadHouse
}

func newCtx(target string) (echo.Context, *httptest.ResponseRecorder, *recordingRenderer) {
	e := echo.New()
	r := &recordingRenderer{}
	e.Renderer = r
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec), rec, r
}

func TestIndexHandler(t *testing.T) {
	t.Cleanup(restore)
	housePage = func(echo.Context, database.DB) (pagination.Page[model.House], string, error) {
		return pagination.NewPage([]model.House{{ID: 2}}, pagination.Default(), 1), "Inn", nil
	}
	c, rec, r := newCtx("/houses?keyword=Inn")
	require.NoError(t, IndexHandler(&database.FakeDB{})(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "houses/index", r.name)
	require.Equal(t, "Inn", r.data["keyword"])
	require.Equal(t, "/houses", r.data["baseURL"])

	housePage = func(echo.Context, database.DB) (pagination.Page[model.House], string, error) {
		return pagination.Page[model.House]{}, "", errors.New("down")
	}
	c, _, _ = newCtx("/houses")
	require.Error(t, IndexHandler(&database.FakeDB{})(c))
}

func TestShowHandler(t *testing.T) {
	t.Cleanup(restore)
	loadHouse = func(echo.Context, database.DB) (*model.House, error) {
		return &model.House{ID: 2, Name: "Kyoto Inn"}, nil
	}
	c, rec, r := newCtx("/houses/2")
	require.NoError(t, ShowHandler(&database.FakeDB{})(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "houses/show", r.name)
	require.Equal(t, "Kyoto Inn", r.data["house"].(*model.House).Name)

	loadHouse = func(echo.Context, database.DB) (*model.House, error) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "house not found")
	}
	c, _, _ = newCtx("/houses/3")
	var he *echo.HTTPError
	require.ErrorAs(t, ShowHandler(&database.FakeDB{})(c), &he)
	require.Equal(t, http.StatusNotFound, he.Code)
}
