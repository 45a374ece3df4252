// Package listview implements the list mechanics every admin screen shares:
// case-insensitive substring filtering over a few text fields, then slicing
// the filtered collection into fixed-size pages. Everything runs on the
// fully loaded in-memory collection; the backend is never asked to search.
package listview

import "strings"

// DefaultPageSize matches the card grids on the admin screens.
const DefaultPageSize = 9

// Filter keeps the items whose searchable fields contain the query,
// case-insensitively. An empty or blank query keeps everything.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	var out []T
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items into pages of the given size and returns page number
// `page` (1-based). TotalPages is ceil(len(items)/size); a page past the end
// comes back empty rather than failing.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	pages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
	}
}
