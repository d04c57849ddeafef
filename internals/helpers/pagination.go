package helper

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"`
}

// Paging is the parsed ?page / ?per_page pair, ready for Offset/Limit.
type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

// ResolvePaging reads ?page and ?per_page (or ?limit). maxPerPage of 0 means unbounded.
func ResolvePaging(c *fiber.Ctx, defaultPerPage, maxPerPage int) Paging {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	perPage := queryInt(c, "per_page", 0)
	if perPage <= 0 {
		perPage = queryInt(c, "limit", defaultPerPage)
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}

	return Paging{Page: page, PerPage: perPage, Offset: (page - 1) * perPage, Limit: perPage}
}

// Pagination builds the response block for a page of total rows.
func (p Paging) Pagination(total int64) *Pagination {
	per := p.PerPage
	if per <= 0 {
		per = DefaultPerPage
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	pages := int((total + int64(per) - 1) / int64(per))
	if pages == 0 {
		pages = 1
	}
	return &Pagination{
		Page:       page,
		PerPage:    per,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func lenOf(v any) int {
	if v == nil {
		return 0
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	default:
		return 0
	}
}
