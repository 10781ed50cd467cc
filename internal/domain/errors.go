package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrLockHeld      = errors.New("lock already held")
	ErrEmptyUniverse = errors.New("tradable intersection is empty")
	ErrNoDirection   = errors.New("prices equal, no trade direction")
	ErrNoBalance     = errors.New("available balance is not positive")
	ErrBadSizing     = errors.New("computed order size is not positive")
	ErrMissingCreds  = errors.New("missing API credentials")
	ErrVenueResponse = errors.New("unexpected venue response")
)
