// File: internal/model/house.go
package model

import "time"

// House is one lodging listing. CreatedAt and UpdatedAt are maintained by
// the database and never written by the application.
type House struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ImageName   string    `db:"image_name" json:"image_name,omitempty"`
	Description string    `db:"description" json:"description"`
	Price       int       `db:"price" json:"price"`
	Capacity    int       `db:"capacity" json:"capacity"`
	PostalCode  string    `db:"postal_code" json:"postal_code"`
	Address     string    `db:"address" json:"address"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
