package catalog

import (
	"context"
	"time"
)

// Item is one active listing returned as price evidence.
type Item struct {
	ID       string
	Title    string
	Price    int
	Location string
}

// Listing is the full catalog row. Item is the projection of it that
// searches return.
type Listing struct {
	ID        string
	Title     string
	Price     int
	Category  string
	Condition string
	Location  string
	Status    string
	CreatedAt time.Time
}

// Query narrows the active-listing search. Keywords match the title as a
// case-insensitive OR; with no keywords the category alone filters.
type Query struct {
	Category string
	Keywords []string
}

// Searcher is the comparable-item search capability the pricing engine
// consumes. Zero results are a normal outcome, not an error.
type Searcher interface {
	SearchActive(ctx context.Context, q Query, limit int) ([]Item, error)
	Platform() string
}
