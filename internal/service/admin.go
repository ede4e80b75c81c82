// File: internal/service/admin.go
package service

import (
	"context"
	"fmt"
	"strings"

	"house-admin/internal/database"
	"house-admin/internal/model"
	"house-admin/internal/store"
)

var upsertAdmin = store.UpsertAdmin

// EnsureAdmin makes sure an enabled admin account with the given email and
// password exists.
func EnsureAdmin(ctx context.Context, db database.DB, email, password string) (*model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("EnsureAdmin: %w", err)
	}
	name, _, _ := strings.Cut(email, "@")
	return upsertAdmin(ctx, db, &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
}
