package vecseed

import "errors"

// ErrUnknownBackend is returned for an unrecognized index backend.
var ErrUnknownBackend = errors.New("unknown index backend")
