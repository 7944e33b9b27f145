package domain

import "errors"

var (
	// ErrNotFound is returned by profile stores when no record exists
	// for the requested user ID.
	ErrNotFound = errors.New("not found")

	// ErrBadSourceIP indicates the trigger-supplied source address could
	// not be parsed. This is infrastructure misconfiguration, not an
	// authorization decision.
	ErrBadSourceIP = errors.New("bad source ip")

	// ErrBadAllowList indicates a stored profile carries a CIDR that
	// does not parse. Stored data is trusted input; a malformed range is
	// an upstream fault, not a silent deny.
	ErrBadAllowList = errors.New("bad allow list")
)
