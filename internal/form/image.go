// File: internal/form/image.go
package form

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

const ImageField = "imageFile"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ImageUpload 為尚未存檔的上傳圖片。
// Ext 由 CheckImage 依偵測到的內容類型填入（例如 ".png"），
// 與使用者提供的檔名無關。
type ImageUpload struct {
	Filename string
	Size     int64
	Ext      string
	Open     func() (io.ReadCloser, error)
}

func imageFromHeader(fh *multipart.FileHeader) *ImageUpload {
	return &ImageUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// ImageFromRequest returns the uploaded "imageFile", or nil when the
// request carries none (or an empty one).
func ImageFromRequest(c echo.Context) (*ImageUpload, error) {
	fh, err := c.FormFile(ImageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Filename == "" || fh.Size == 0 {
		return nil, nil
	}
	return imageFromHeader(fh), nil
}

// CheckImage sniffs the upload and rejects anything but JPEG, PNG, GIF and
// WebP. On success it records the extension of the detected type in img.Ext.
func CheckImage(img *ImageUpload) *FieldError {
	fe := &FieldError{Field: ImageField, Message: "must be a JPEG, PNG, GIF or WebP image"}
	r, err := img.Open()
	if err != nil {
		return fe
	}
	defer r.Close()
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return fe
	}
	for _, t := range allowedImageTypes {
		if mt.Is(t) {
			img.Ext = mt.Extension()
			return nil
		}
	}
	return fe
}
