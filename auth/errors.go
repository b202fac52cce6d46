package auth

import "errors"

// AuthenticationError carries a user-displayable reason for a failed sign-in
// or sign-up. It never corresponds to a state mutation.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ErrNotAuthenticated is returned by RefreshRole when no identity is present.
var ErrNotAuthenticated = errors.New("not authenticated")
