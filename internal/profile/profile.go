// Package profile defines the application-level user record stored in
// the document store, one per authenticated identity.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medico-health/portal-api/internal/store"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"

	// Auth provider values recorded on the profile.
	ProviderPassword = "password"
	ProviderSocial   = "social"
)

var ErrMalformedProfile = errors.New("malformed user profile")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

// UserProfile describes a registered person. Role is immutable after
// creation: no update path in this codebase writes it.
type UserProfile struct {
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Role           Role      `json:"role"`
	AuthProvider   string    `json:"auth_provider"`
	License        string    `json:"license,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileCompleted reports whether a doctor has filled in the fields
// required before their dashboard unlocks. Always true for patients.
func (p *UserProfile) ProfileCompleted() bool {
	if p.Role != RoleDoctor {
		return true
	}
	return p.License != "" && p.Specialization != ""
}

// FromDocument validates and decodes a stored document. Documents
// missing the role field or carrying an unknown role are rejected as
// malformed rather than trusted at read time.
func FromDocument(doc store.Document) (*UserProfile, error) {
	roleStr, ok := doc["role"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing role", ErrMalformedProfile)
	}
	role, err := ParseRole(roleStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProfile, err)
	}

	return &UserProfile{
		FirstName:      docString(doc, "firstName"),
		LastName:       docString(doc, "lastName"),
		Email:          docString(doc, "email"),
		Phone:          docString(doc, "phone"),
		Role:           role,
		AuthProvider:   docString(doc, "authProvider"),
		License:        docString(doc, "license"),
		Specialization: docString(doc, "specialization"),
		CreatedAt:      docTime(doc, "createdAt"),
		UpdatedAt:      docTime(doc, "updatedAt"),
	}, nil
}

// ToDocument encodes the profile with the field names the document
// store uses.
func (p *UserProfile) ToDocument() store.Document {
	doc := store.Document{
		"firstName":    p.FirstName,
		"lastName":     p.LastName,
		"email":        p.Email,
		"phone":        p.Phone,
		"role":         string(p.Role),
		"authProvider": p.AuthProvider,
		"createdAt":    p.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":    p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.Role == RoleDoctor {
		doc["license"] = p.License
		doc["specialization"] = p.Specialization
		doc["profileCompleted"] = p.ProfileCompleted()
	}
	return doc
}

// SplitDisplayName derives first/last name from a provider display
// name: everything before the first space is the first name, the rest
// is the last name. An empty display name falls back to the
// placeholders the portal shows for social accounts.
func SplitDisplayName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Google", "User"
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func docString(doc store.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docTime(doc store.Document, key string) time.Time {
	switch v := doc[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
