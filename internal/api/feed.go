package api

import (
	"context"
	"strings"

	"github.com/five82/odonto/internal/grid"
)

// Feed is a grid.Feed backed by a collection endpoint.
type Feed[T any] struct {
	client    *Client
	resource  string
	def       grid.Definition
	conv      grid.Convention
	relations []string
}

// FeedOption configures a Feed.
type FeedOption func(*feedOptions)

type feedOptions struct {
	conv      grid.Convention
	relations []string
}

// WithRelations asks the API to embed related records, sent as populate=a,b.
func WithRelations(relations ...string) FeedOption {
	return func(o *feedOptions) { o.relations = append(o.relations, relations...) }
}

// WithConvention overrides the paging parameter names.
func WithConvention(conv grid.Convention) FeedOption {
	return func(o *feedOptions) { o.conv = conv }
}

// NewFeed returns a feed listing resource for grids built from def.
func NewFeed[T any](c *Client, resource string, def grid.Definition, opts ...FeedOption) *Feed[T] {
	o := feedOptions{conv: grid.DefaultConvention}
	for _, opt := range opts {
		opt(&o)
	}
	return &Feed[T]{
		client:    c,
		resource:  resource,
		def:       def,
		conv:      o.conv,
		relations: o.relations,
	}
}

// Fetch implements grid.Feed.
func (f *Feed[T]) Fetch(ctx context.Context, s grid.State) (grid.Page[T], error) {
	query := grid.QueryValues(s, f.def, f.conv)
	if len(f.relations) > 0 {
		query.Set("populate", strings.Join(f.relations, ","))
	}
	result, err := List[T](ctx, f.client, f.resource, query)
	if err != nil {
		return grid.Page[T]{}, err
	}
	return grid.Page[T]{Items: result.Items, Total: result.Total, State: s}, nil
}

var _ grid.Feed[Case] = (*Feed[Case])(nil)
