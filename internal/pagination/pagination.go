// Package pagination splits ordered listings into fixed-size pages.
//
// Page numbers are 1-based. A number that cannot be parsed means the first
// page and a number outside the available range is clamped to the nearest
// valid page, so callers never have to handle an "empty page" error. An empty
// listing still has one (empty) page.
package pagination

import (
	"context"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of posts shown on every listing page.
const DefaultPageSize = 10

// Page is one slice of a listing together with the metadata templates need
// to render navigation.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Number     int   `json:"number"`
	NumPages   int   `json:"num_pages"`
	TotalItems int64 `json:"total_items"`
	PageSize   int   `json:"page_size"`
}

func (p *Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p *Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page[T]) NextPageNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

func (p *Page[T]) PreviousPageNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

// PageRange lists every page number, for numbered navigation links.
func (p *Page[T]) PageRange() []int {
	out := make([]int, p.NumPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// ParseNumber reads a raw "page" query value. Anything that is not a
// positive integer yields 1; the upper bound is applied in Paginate.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NumPages returns how many pages total items fill; never less than one.
func NumPages(total int64, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Clamp moves number into [1, numPages].
func Clamp(number, numPages int) int {
	if number < 1 {
		return 1
	}
	if number > numPages {
		return numPages
	}
	return number
}

// CountFunc reports the total number of items in the listing.
type CountFunc func(ctx context.Context) (int64, error)

// FetchFunc loads the items of one page window.
type FetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Paginate counts the listing, clamps number and fetches the matching window.
func Paginate[T any](ctx context.Context, number, size int, count CountFunc, fetch FetchFunc[T]) (*Page[T], error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}
	numPages := NumPages(total, size)
	number = Clamp(number, numPages)

	page := &Page[T]{
		Number:     number,
		NumPages:   numPages,
		TotalItems: total,
		PageSize:   size,
	}
	if total == 0 {
		page.Items = []T{}
		return page, nil
	}
	items, err := fetch(ctx, (number-1)*size, size)
	if err != nil {
		return nil, err
	}
	page.Items = items
	return page, nil
}
