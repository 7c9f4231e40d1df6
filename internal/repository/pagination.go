package repository

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePage clamps page and limit to their allowed ranges. Handlers
// call it before building list requests so the page info they echo back
// matches what the query actually applied.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
