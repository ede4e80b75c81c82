// File: internal/form/house.go
package form

import (
	"strconv"

	"house-admin/internal/model"
)

// HouseFields 為新增與編輯表單共用的欄位。
// Price 與 Capacity 以原始字串綁定，非數字或超出 int32 範圍時回報欄位錯誤，
// 不會在綁定階段就失敗。其餘字串依原樣保存，不做 trim。
type HouseFields struct {
	Name        string `form:"name" validate:"notblank,max=255"`
	Description string `form:"description" validate:"notblank"`
	Price       string `form:"price" validate:"notblank,int32min=1"`
	Capacity    string `form:"capacity" validate:"notblank,int32min=1"`
	PostalCode  string `form:"postalCode" validate:"notblank,max=20"`
	Address     string `form:"address" validate:"notblank,max=255"`
	PhoneNumber string `form:"phoneNumber" validate:"notblank,max=30"`
}

// ToHouse maps the fields onto a new record without id, image or timestamps.
// Call it only after ValidateHouse reported no errors.
func (f HouseFields) ToHouse() *model.House {
	price, _ := strconv.Atoi(f.Price)
	capacity, _ := strconv.Atoi(f.Capacity)
	return &model.House{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		Capacity:    capacity,
		PostalCode:  f.PostalCode,
		Address:     f.Address,
		PhoneNumber: f.PhoneNumber,
	}
}

// HouseRegisterForm is submitted by the register page. The image arrives
// as the multipart file "imageFile" and is read separately.
type HouseRegisterForm struct {
	HouseFields
}

// HouseEditForm is submitted by the edit page. ID is filled from the path
// and only echoed back to the view; the posted id is never bound.
type HouseEditForm struct {
	ID int `form:"-"`
	HouseFields
}

// NewHouseEditForm pre-populates the edit form from h. The image field is
// left empty.
func NewHouseEditForm(h *model.House) HouseEditForm {
	return HouseEditForm{
		ID: h.ID,
		HouseFields: HouseFields{
			Name:        h.Name,
			Description: h.Description,
			Price:       strconv.Itoa(h.Price),
			Capacity:    strconv.Itoa(h.Capacity),
			PostalCode:  h.PostalCode,
			Address:     h.Address,
			PhoneNumber: h.PhoneNumber,
		},
	}
}

// ValidateHouse 以 validate（通常為 echo.Context.Validate）檢查欄位，
// 並檢查選填的圖片上傳，回傳所有欄位錯誤。
func ValidateHouse(validate func(any) error, f *HouseFields, image *ImageUpload) (Errors, error) {
	errs, err := FieldErrors(validate(f))
	if err != nil {
		return nil, err
	}
	if image != nil {
		if fe := CheckImage(image); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs, nil
}

// LoginForm is posted by the login page. Username is the account email.
type LoginForm struct {
	Username string `form:"username" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}
