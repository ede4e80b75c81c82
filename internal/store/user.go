package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"house-admin/internal/database"
	"house-admin/internal/model"

	"github.com/jackc/pgx/v5"
)

// GetUserByEmail looks a user up by login name. Emails are compared in
// lower case.
func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, enabled, created_at
		 FROM users WHERE email = $1`,
		strings.ToLower(email),
	)
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Enabled,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
		}
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

// UpsertAdmin creates the admin account or resets its password, role and
// enabled flag when the email already exists.
func UpsertAdmin(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, enabled)
		 VALUES ($1, $2, $3, $4, TRUE)
		 ON CONFLICT (email) DO UPDATE
		 SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role, enabled = TRUE
		 RETURNING id, created_at`,
		u.Name,
		strings.ToLower(u.Email),
		u.PasswordHash,
		model.RoleAdmin,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("UpsertAdmin: %w", err)
	}
	u.Email = strings.ToLower(u.Email)
	u.Role = model.RoleAdmin
	u.Enabled = true
	return u, nil
}
