package grid

import (
	"context"

	"github.com/google/uuid"
)

// Page is one page of results.
type Page[T any] struct {
	Items []T
	Total int   // rows matching the filters, independent of paging
	State State // the state the page was fetched for
}

// Feed produces pages of rows for a state. Implementations issue exactly one
// query per call and must honour ctx cancellation.
type Feed[T any] interface {
	Fetch(ctx context.Context, s State) (Page[T], error)
}

// FeedFunc adapts a function to the Feed interface.
type FeedFunc[T any] func(ctx context.Context, s State) (Page[T], error)

// Fetch calls f.
func (f FeedFunc[T]) Fetch(ctx context.Context, s State) (Page[T], error) {
	return f(ctx, s)
}

// Token identifies one dispatched fetch. The zero Token means none.
type Token struct {
	id uuid.UUID
}

func newToken() Token {
	return Token{id: uuid.New()}
}

// IsZero reports whether t is the zero Token.
func (t Token) IsZero() bool {
	return t.id == uuid.Nil
}

func (t Token) String() string {
	if t.IsZero() {
		return "none"
	}
	return t.id.String()
}
