package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/medico-health/portal-api/internal/store"
)

func TestFromDocumentRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &UserProfile{
		FirstName:      "Dana",
		LastName:       "Reyes",
		Email:          "dana@example.com",
		Phone:          "+15551234567",
		Role:           RoleDoctor,
		AuthProvider:   ProviderPassword,
		License:        "MD-42",
		Specialization: "Cardiology",
		CreatedAt:      created,
		UpdatedAt:      created,
	}

	got, err := FromDocument(p.ToDocument())
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if *got != *p {
		t.Fatalf("round trip changed the profile:\n got %+v\nwant %+v", got, p)
	}
}

func TestFromDocumentRejectsMalformed(t *testing.T) {
	cases := map[string]store.Document{
		"missing role":     {"firstName": "Pat"},
		"unknown role":     {"role": "admin"},
		"non-string role":  {"role": 7},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromDocument(doc); !errors.Is(err, ErrMalformedProfile) {
				t.Fatalf("err = %v, want ErrMalformedProfile", err)
			}
		})
	}
}

func TestFromDocumentToleratesMissingOptionalFields(t *testing.T) {
	p, err := FromDocument(store.Document{"role": "patient"})
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if p.Role != RolePatient || p.FirstName != "" {
		t.Fatalf("profile = %+v", p)
	}
	if !p.CreatedAt.IsZero() {
		t.Fatalf("createdAt = %v, want zero", p.CreatedAt)
	}
}

func TestToDocumentOmitsDoctorFieldsForPatients(t *testing.T) {
	p := &UserProfile{Role: RolePatient}
	doc := p.ToDocument()
	for _, key := range []string{"license", "specialization", "profileCompleted"} {
		if _, ok := doc[key]; ok {
			t.Fatalf("patient document carries %q", key)
		}
	}
}

func TestProfileCompleted(t *testing.T) {
	cases := []struct {
		name string
		p    UserProfile
		want bool
	}{
		{"patient", UserProfile{Role: RolePatient}, true},
		{"doctor complete", UserProfile{Role: RoleDoctor, License: "MD-1", Specialization: "Cardiology"}, true},
		{"doctor no license", UserProfile{Role: RoleDoctor, Specialization: "Cardiology"}, false},
		{"doctor no specialization", UserProfile{Role: RoleDoctor, License: "MD-1"}, false},
		{"doctor empty", UserProfile{Role: RoleDoctor}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.ProfileCompleted(); got != tc.want {
				t.Fatalf("ProfileCompleted() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSplitDisplayName(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"Jane Smith", "Jane", "Smith"},
		{"Jane Anne Smith", "Jane", "Anne Smith"},
		{"Cher", "Cher", ""},
		{"  Jane Smith  ", "Jane", "Smith"},
		{"", "Google", "User"},
		{"   ", "Google", "User"},
	}
	for _, tc := range cases {
		first, last := SplitDisplayName(tc.in)
		if first != tc.first || last != tc.last {
			t.Errorf("SplitDisplayName(%q) = %q, %q; want %q, %q", tc.in, first, last, tc.first, tc.last)
		}
	}
}

func TestParseRole(t *testing.T) {
	if _, err := ParseRole("patient"); err != nil {
		t.Fatalf("patient rejected: %v", err)
	}
	if _, err := ParseRole("doctor"); err != nil {
		t.Fatalf("doctor rejected: %v", err)
	}
	if _, err := ParseRole("admin"); err == nil {
		t.Fatal("admin accepted")
	}
	if _, err := ParseRole(""); err == nil {
		t.Fatal("empty role accepted")
	}
}
