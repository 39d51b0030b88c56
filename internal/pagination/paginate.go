// Package pagination slices ordered sequences into fixed-size pages.
package pagination

// Paginate returns page number page (1-based) of items, size entries per
// page. A page past the end of the sequence yields an empty slice, not an
// error. Page numbers below 1 are treated as 1.
func Paginate[T any](items []T, size, page int) []T {
	if size <= 0 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
