package rbdf

import "errors"

// Collaborator failures are the only errors a route search returns.
// Unknown places and expired query deadlines are reported on the
// RouteSearchResults instead.
var (
	ErrCatalogUnavailable   = errors.New("trip catalog unavailable")
	ErrDirectoryUnavailable = errors.New("place directory unavailable")
)
