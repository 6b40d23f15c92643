package thesportsdb

import crerr "github.com/cockroachdb/errors"

// Failure taxonomy for upstream calls. Callers branch on these with
// errors.Is; the client never retries on its own.
var (
	ErrRateLimited = crerr.New("thesportsdb: rate limited")
	ErrNotFound    = crerr.New("thesportsdb: resource not found")
	ErrUnavailable = crerr.New("thesportsdb: upstream unavailable")
	ErrMalformed   = crerr.New("thesportsdb: malformed response")
)
