package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a 1-indexed page request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// New clamps page and limit into range, substituting defaultLimit when limit is not positive.
func New(page, limit, defaultLimit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// FromQuery reads ?page= and the given limit key from the query string.
func FromQuery(c *fiber.Ctx, limitKey string, defaultLimit int) Params {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query(limitKey))
	return New(page, limit, defaultLimit)
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Page is one slice of a listing plus the counts needed to render page controls.
type Page[T any] struct {
	Items       []T
	Total       int64
	TotalPages  int
	CurrentPage int
}

// NewPage builds a Page, normalizing nil items to an empty slice.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, TotalPages: TotalPages(total, p.Limit), CurrentPage: p.Page}
}

// Body renders the page under the resource's collection key.
func (p Page[T]) Body(key string) fiber.Map {
	return fiber.Map{
		key:           p.Items,
		"total":       p.Total,
		"totalPages":  p.TotalPages,
		"currentPage": p.CurrentPage,
	}
}

// Find counts the rows matched by q and loads the requested page in the given order.
// q must already carry its Model and filters.
func Find[T any](q *gorm.DB, p Params, orders ...interface{}) (Page[T], error) {
	base := q.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return Page[T]{}, err
	}
	list := base
	for _, o := range orders {
		list = list.Order(o)
	}
	var items []T
	if err := list.Offset(p.Offset()).Limit(p.Limit).Find(&items).Error; err != nil {
		return Page[T]{}, err
	}
	return NewPage(items, total, p), nil
}
