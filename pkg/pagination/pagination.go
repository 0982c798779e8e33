package pagination

import "context"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows a single page can request.
	MaxLimit = 100
	// drainLimit is the page size used when draining the remainder at once.
	drainLimit = 99_999
)

// Page holds the offset cursor passed to list endpoints.
type Page struct {
	Skip  int
	Limit int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// FetchFunc loads one page of results.
type FetchFunc[T any] func(ctx context.Context, page Page) ([]T, error)

// Paginator advances an offset cursor over a list endpoint. Once a fetch
// returns fewer items than requested the cursor latches exhausted and all
// further calls return an empty slice without issuing requests.
type Paginator[T any] struct {
	next      Page
	fetch     FetchFunc[T]
	exhausted bool
}

// New builds a paginator starting at the given cursor.
func New[T any](start Page, fetch FetchFunc[T]) *Paginator[T] {
	start.Limit = NormalizeLimit(start.Limit)
	if start.Skip < 0 {
		start.Skip = 0
	}
	return &Paginator[T]{next: start, fetch: fetch}
}

// Next loads the next page and advances the cursor.
func (p *Paginator[T]) Next(ctx context.Context) ([]T, error) {
	if p.exhausted {
		return []T{}, nil
	}
	data, err := p.fetch(ctx, p.next)
	if err != nil {
		return nil, err
	}
	if len(data) < p.next.Limit {
		p.exhausted = true
	}
	p.next.Skip += p.next.Limit
	return data, nil
}

// Max drains everything left after the current cursor in a single request
// and latches the paginator exhausted.
func (p *Paginator[T]) Max(ctx context.Context) ([]T, error) {
	if p.exhausted {
		return []T{}, nil
	}
	page := Page{Skip: p.next.Skip, Limit: drainLimit}
	data, err := p.fetch(ctx, page)
	if err != nil {
		return nil, err
	}
	p.exhausted = true
	return data, nil
}

// Exhausted reports whether the cursor reached the end of the sequence.
func (p *Paginator[T]) Exhausted() bool {
	return p.exhausted
}
