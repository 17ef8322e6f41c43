package auth

import (
	"errors"

	"github.com/medico-health/portal-api/internal/store"
)

// UserMessage maps known provider and flow errors to the phrasing the
// portal shows. Unknown errors surface verbatim.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, store.ErrEmailTaken):
		return "This email is already registered. Please log in or use a different email."
	case errors.Is(err, store.ErrPopupBlocked):
		return "Please allow popups for this site and try again."
	case errors.Is(err, store.ErrPopupClosed):
		return "Sign-in was cancelled. Please try again."
	case errors.Is(err, store.ErrNetworkFailure):
		return "Please check your internet connection and try again."
	case errors.Is(err, store.ErrUnauthorizedDomain):
		return "This domain is not authorized for sign-in. Please contact support."
	case errors.Is(err, store.ErrOperationNotAllowed):
		return "This sign-in method is not properly configured. Please contact support."
	case errors.Is(err, ErrProfileNotFound):
		return "Account data not found. Please contact support."
	case errors.Is(err, ErrAccountNotFound):
		return "Account not found. Please register first or use the correct login method."
	}

	var mismatch *RoleMismatchError
	if errors.As(err, &mismatch) {
		return "You are registered as a " + string(mismatch.Registered) + ", not a " + string(mismatch.Selected) + "."
	}

	return err.Error()
}
