package listing

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query is the search and pagination input shared by every list endpoint.
type Query struct {
	Search string `json:"search"`
	Status string `json:"status,omitempty"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

// Normalize clamps page to >= 1 and limit to [1, MaxLimit], falling back to
// defaultLimit when limit is unset.
func (q Query) Normalize(defaultLimit int) Query {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Status = strings.TrimSpace(q.Status)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q Query) Offset() int32 {
	q = q.Normalize(q.Limit)
	return int32((q.Page - 1) * q.Limit)
}

func (q Query) Values() url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// QueryFromValues reads a Query from url values, ignoring malformed numbers.
func QueryFromValues(values url.Values) Query {
	return Query{
		Search: values.Get("search"),
		Status: values.Get("status"),
		Page:   cast.ToInt(values.Get("page")),
		Limit:  cast.ToInt(values.Get("limit")),
	}
}

func QueryFromRequest(r *http.Request) Query {
	return QueryFromValues(r.URL.Query())
}

// Page is one page of a listing together with the numbers needed to render
// pagination controls.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPage[T any](items []T, total int64, q Query) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if q.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.Limit)))
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
	}
}

// Map converts the items of a page keeping its pagination numbers.
func Map[T any, R any](p Page[T], f func(T) R) Page[R] {
	items := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, f(item))
	}
	return Page[R]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p Page[T]) HasPrev() bool {
	return p.Page > 1
}
