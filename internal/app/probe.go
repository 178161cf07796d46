package app

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/five82/odonto/internal/api"
)

const probeTimeout = 3 * time.Second

// ensureAPIAvailable fetches a single user so startup fails fast when the
// API is down or rejects the token.
func ensureAPIAvailable(ctx context.Context, client *api.Client) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	query := url.Values{"page": {"1"}, "limit": {"1"}}
	if _, err := api.List[api.User](ctx, client, api.ResourceUsers, query); err != nil {
		return fmt.Errorf("api unreachable at %s: %w", client.BaseURL(), err)
	}
	return nil
}
