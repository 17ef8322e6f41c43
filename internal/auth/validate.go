package auth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/medico-health/portal-api/internal/profile"
)

// RegisterInput is the full registration form.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Role            profile.Role
	License         string
	Specialization  string
	AcceptedTerms   bool
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a non-empty list of field-level failures. It
// blocks submission before any backend call.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Field + ": " + e.Message
	}
	return strings.Join(msgs, "; ")
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func ValidateRegistration(in RegisterInput) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(in.FirstName) == "" {
		errs = append(errs, ValidationError{Field: "firstName", Message: "First name is required"})
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs = append(errs, ValidationError{Field: "lastName", Message: "Last name is required"})
	}
	if strings.TrimSpace(in.Email) == "" {
		errs = append(errs, ValidationError{Field: "email", Message: "Email is required"})
	}

	if msg := passwordMessage(in.Password); msg != "" {
		errs = append(errs, ValidationError{Field: "password", Message: msg})
	}
	if in.ConfirmPassword != in.Password {
		errs = append(errs, ValidationError{Field: "confirmPassword", Message: "Passwords don't match"})
	}

	if !phonePattern.MatchString(in.Phone) {
		errs = append(errs, ValidationError{Field: "phone", Message: "Please enter a valid phone number"})
	}

	if _, err := profile.ParseRole(string(in.Role)); err != nil {
		errs = append(errs, ValidationError{Field: "role", Message: "Role must be patient or doctor"})
	}

	if !in.AcceptedTerms {
		errs = append(errs, ValidationError{Field: "terms", Message: "You must agree to the terms of service"})
	}

	return errs
}

func passwordMessage(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		return "Password must contain at least one uppercase letter"
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		return "Password must contain at least one number"
	}
	return ""
}
