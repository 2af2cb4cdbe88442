package fmp

import (
	"errors"
	"fmt"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrAccessForbidden    = errors.New("access forbidden")
	ErrRateLimited        = errors.New("too many requests, retry later")
	ErrMalformedResponse  = errors.New("failed to fetch data")
)

// StatusError is returned for non-success responses that have no dedicated sentinel.
type StatusError struct {
	StatusCode int
	Message    string // "message"/"Error Message" from the response body, if any
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// UserMessage maps any fetch error to the message shown in place of the table.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	for _, sentinel := range []error{
		ErrCredentialNotFound,
		ErrInvalidCredential,
		ErrAccessForbidden,
		ErrRateLimited,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}

	return ErrMalformedResponse.Error()
}
