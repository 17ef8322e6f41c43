package store

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrNoSession           = errors.New("no active session")
	ErrPopupBlocked        = errors.New("sign-in popup blocked")
	ErrPopupClosed         = errors.New("sign-in cancelled")
	ErrNetworkFailure      = errors.New("network request failed")
	ErrUnauthorizedDomain  = errors.New("domain not authorized for sign-in")
	ErrOperationNotAllowed = errors.New("sign-in method not enabled")
)
