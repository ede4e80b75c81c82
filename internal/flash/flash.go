// File: internal/flash/flash.go

// Package flash keeps one-shot messages across a redirect. Messages live in
// the cache under a random id carried by the FLASH cookie.
package flash

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"house-admin/internal/cache"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	CookieName = "FLASH"
	keyPrefix  = "flash:"
	ttl        = 5 * time.Minute
)

const (
	Success = "successMessage"
	Error   = "errorMessage"
)

var (
	jsonMarshal   = json.Marshal
	jsonUnmarshal = json.Unmarshal
	newID         = uuid.NewString
)

// Messages maps a kind (Success, Error) to its text.
type Messages map[string]string

// Flasher stores a message for the next request and pops pending ones.
type Flasher interface {
	Put(c echo.Context, kind, text string) error
	Pop(c echo.Context) (Messages, error)
}

// Store is a Flasher backed by the cache.
type Store struct {
	cache  cache.Cache
	secure bool
}

func NewStore(c cache.Cache, secure bool) *Store {
	return &Store{cache: c, secure: secure}
}

func (s *Store) Put(c echo.Context, kind, text string) error {
	ctx := c.Request().Context()
	id := s.id(c)
	msgs := Messages{}
	if id == "" {
		id = newID()
	} else if pending, err := s.load(c, id); err == nil {
		msgs = pending
	}
	msgs[kind] = text

	data, err := jsonMarshal(msgs)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, keyPrefix+id, data, ttl).Err(); err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop 回傳待顯示的訊息並將其清除；沒有訊息不算錯誤。
// 快取刪除失敗時仍回傳已讀到的訊息並清除 cookie，同時回報錯誤，
// 殘留的 key 會在 ttl 後過期。
func (s *Store) Pop(c echo.Context) (Messages, error) {
	id := s.id(c)
	if id == "" {
		return Messages{}, nil
	}
	msgs, err := s.load(c, id)
	if err != nil {
		return Messages{}, err
	}
	c.SetCookie(&http.Cookie{
		Name:   CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.cache.Del(c.Request().Context(), keyPrefix+id).Err(); err != nil {
		return msgs, fmt.Errorf("Pop: forget %s: %w", id, err)
	}
	return msgs, nil
}

func (s *Store) id(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Store) load(c echo.Context, id string) (Messages, error) {
	raw, err := s.cache.Get(c.Request().Context(), keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Messages{}, nil
	}
	if err != nil {
		return nil, err
	}
	msgs := Messages{}
	if err := jsonUnmarshal(raw, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
