// File: internal/pagination/pagination.go

// Package pagination models page requests (page, size, sort) and the pages
// returned for them.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

const (
	DefaultSize = 10
	MaxSize     = 100
	// MaxOffset bounds Page*Size so the offset fits every int and a
	// Postgres OFFSET.
	MaxOffset = math.MaxInt32
)

// Pageable is a zero-based page request.
type Pageable struct {
	Page      int
	Size      int
	Sort      string
	Direction Direction
}

// Default is page 0, size 10, sorted by id ascending.
func Default() Pageable {
	return Pageable{Page: 0, Size: DefaultSize, Sort: "id", Direction: ASC}
}

// Offset 為此頁第一筆的位置，不會超過 MaxOffset，也不會是負數。
func (p Pageable) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > MaxOffset/p.Size {
		return MaxOffset / p.Size * p.Size
	}
	return p.Page * p.Size
}

// FromQuery 從查詢字串讀取 page、size 與 sort（"field" 或
// "field,asc|desc"）。缺少或格式錯誤的值沿用 def；size 限制在
// 1..MaxSize，page 限制在 Page*Size 不超過 MaxOffset 的範圍內。
func FromQuery(q url.Values, def Pageable) Pageable {
	p := def
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 {
		p.Size = v
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Page > MaxOffset/p.Size {
		p.Page = MaxOffset / p.Size
	}
	if s := strings.TrimSpace(q.Get("sort")); s != "" {
		field, dir, _ := strings.Cut(s, ",")
		if field = strings.TrimSpace(field); field != "" {
			p.Sort = field
			p.Direction = ASC
		}
		switch strings.ToUpper(strings.TrimSpace(dir)) {
		case string(DESC):
			p.Direction = DESC
		case string(ASC):
			p.Direction = ASC
		}
	}
	return p
}

// Page is one slice of a larger result.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
	Sort          string
	Direction     Direction
}

func NewPage[T any](content []T, p Pageable, total int64) Page[T] {
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		Number:        p.Page,
		Size:          p.Size,
		TotalElements: total,
		TotalPages:    pages,
		Sort:          p.Sort,
		Direction:     p.Direction,
	}
}

func (p Page[T]) IsFirst() bool     { return p.Number == 0 }
func (p Page[T]) IsLast() bool      { return p.Number+1 >= p.TotalPages }
func (p Page[T]) HasPrevious() bool { return p.Number > 0 }
func (p Page[T]) HasNext() bool     { return p.Number+1 < p.TotalPages }
func (p Page[T]) Previous() int     { return p.Number - 1 }
func (p Page[T]) Next() int         { return p.Number + 1 }

// SortParam renders the sort back into the "field,dir" query form.
func (p Page[T]) SortParam() string {
	return p.Sort + "," + strings.ToLower(string(p.Direction))
}
