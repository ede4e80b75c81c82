// File: internal/handler/admin/houses.go

// Package admin serves the house management pages under /admin/houses.
package admin

import (
	"net/http"

	"house-admin/internal/database"
	"house-admin/internal/flash"
	"house-admin/internal/form"
	"house-admin/internal/handler"
	"house-admin/internal/service"
	"house-admin/internal/storage"
	"house-admin/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const housesPath = "/admin/houses"

var (
	registerHouse    = service.RegisterHouse
	editHouse        = service.EditHouse
	deleteHouse      = service.DeleteHouse
	imageFromRequest = form.ImageFromRequest
	housePage        = handler.HousePage
)

// IndexHandler lists houses, optionally filtered by keyword, with any
// pending flash message.
func IndexHandler(db database.DB, fl flash.Flasher) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, keyword, err := housePage(c, db)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "admin/houses/index", echo.Map{
			"housePage": page,
			"keyword":   keyword,
			"baseURL":   housesPath,
			"flash":     popFlash(c, fl),
		})
	}
}

func ShowHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		h, err := handler.LoadHouse(c, db)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "admin/houses/show", echo.Map{"house": h})
	}
}

func RegisterHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "admin/houses/register", echo.Map{
			"form":   form.HouseRegisterForm{},
			"errors": form.Errors(nil),
		})
	}
}

// CreateHandler validates the register form and stores a new house. An
// invalid form is shown again with 422 and nothing is stored. Every form
// field binds as a string, so Bind fails only on a malformed body.
func CreateHandler(db database.DB, images storage.ImageStore, fl flash.Flasher) echo.HandlerFunc {
	return func(c echo.Context) error {
		var f form.HouseRegisterForm
		if err := c.Bind(&f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
		}
		image, err := imageFromRequest(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
		}
		errs, err := form.ValidateHouse(c.Validate, &f.HouseFields, image)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			return c.Render(http.StatusUnprocessableEntity, "admin/houses/register", echo.Map{
				"form":   f,
				"errors": errs,
			})
		}

		if _, err := registerHouse(c.Request().Context(), db, images, f.HouseFields, image); err != nil {
			return err
		}
		putFlash(c, fl, "House registered.")
		return c.Redirect(http.StatusFound, housesPath)
	}
}

func EditHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		h, err := handler.LoadHouse(c, db)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "admin/houses/edit", echo.Map{
			"form":      form.NewHouseEditForm(h),
			"errors":    form.Errors(nil),
			"imageName": h.ImageName,
		})
	}
}

// UpdateHandler overwrites house :id from the edit form. Without a new
// image the current one is kept.
func UpdateHandler(db database.DB, images storage.ImageStore, wp worker.Pool, fl flash.Flasher) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.HouseID(c)
		if err != nil {
			return err
		}
		var f form.HouseEditForm
		if err := c.Bind(&f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
		}
		f.ID = id
		image, err := imageFromRequest(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
		}
		errs, err := form.ValidateHouse(c.Validate, &f.HouseFields, image)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			current, err := handler.LoadHouse(c, db)
			if err != nil {
				return err
			}
			return c.Render(http.StatusUnprocessableEntity, "admin/houses/edit", echo.Map{
				"form":      f,
				"errors":    errs,
				"imageName": current.ImageName,
			})
		}

		if _, err := editHouse(c.Request().Context(), db, images, wp, id, f.HouseFields, image); err != nil {
			return handler.HouseError(err)
		}
		putFlash(c, fl, "House updated.")
		return c.Redirect(http.StatusFound, housesPath)
	}
}

func DeleteHandler(db database.DB, images storage.ImageStore, wp worker.Pool, fl flash.Flasher) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.HouseID(c)
		if err != nil {
			return err
		}
		if err := deleteHouse(c.Request().Context(), db, images, wp, id); err != nil {
			return handler.HouseError(err)
		}
		putFlash(c, fl, "House deleted.")
		return c.Redirect(http.StatusFound, housesPath)
	}
}

// putFlash logs a failed store instead of failing the request.
func putFlash(c echo.Context, fl flash.Flasher, text string) {
	if err := fl.Put(c, flash.Success, text); err != nil {
		log.Warn().Err(err).Msg("store flash message")
	}
}

func popFlash(c echo.Context, fl flash.Flasher) flash.Messages {
	msgs, err := fl.Pop(c)
	if err != nil {
		log.Warn().Err(err).Msg("read flash message")
	}
	return msgs
}
