// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"house-admin/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
)

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// SessionTTL is how long a login stays valid.
const SessionTTL = 24 * time.Hour

// CustomClaims is the session principal carried in the signed token.
type CustomClaims struct {
	UserID int    `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *CustomClaims) IsAdmin() bool { return c.Role == model.RoleAdmin }

// HasRole 判斷 principal 是否具備指定角色
func (c *CustomClaims) HasRole(role string) bool { return c.Role == role }

// AuthenticateUser 驗證使用者已啟用且密碼正確
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	if !user.Enabled {
		return ErrUserDisabled
	}
	return nil
}

var errNoSecret = errors.New("JWT secret not set")

// IssueAccessToken 依據使用者資訊與 TTL 以 secret（來自 config.JWTSecret）簽發 JWT
func IssueAccessToken(secret string, user model.User, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errNoSecret
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 以 secret 驗證並解析 JWT 令牌
func VerifyAccessToken(secret, tokenString string) (*CustomClaims, error) {
	if secret == "" {
		return nil, errNoSecret
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
