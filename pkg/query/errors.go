package query

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks misuse of the query contract, as opposed to bad user data.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrInvalidSortField     = fmt.Errorf("%w: unsupported sort field", ErrInvalidArgument)
	ErrInvalidSortDirection = fmt.Errorf("%w: unsupported sort direction", ErrInvalidArgument)
)
