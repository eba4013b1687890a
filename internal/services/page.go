package services

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a clamped offset/limit pair.
type Page struct {
	Offset int
	Limit  int
}

// NewPage clamps offset to >= 0 and limit to [1, MaxLimit].
// Callers pass DefaultLimit when the client sent no limit.
func NewPage(offset, limit int) Page {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Offset: offset, Limit: limit}
}

// List is one page of results plus the independent total count.
type List[T any] struct {
	Items  []T
	Offset int
	Limit  int
	Total  int64
}
