package country

import (
	"context"
	"errors"
)

// ErrUpstreamFailure is returned for any failed lookup against the
// country-data API. The cause is wrapped for logging.
var ErrUpstreamFailure = errors.New("country upstream failure")

// Upstream is a minimal abstraction over the external country-data API.
// path is relative to the API base, e.g. "/alpha/lk".
type Upstream interface {
	Get(ctx context.Context, path string) ([]byte, error)
}
