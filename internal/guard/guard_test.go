package guard

import (
	"testing"

	"github.com/medico-health/portal-api/internal/profile"
	"github.com/medico-health/portal-api/internal/session"
	"github.com/medico-health/portal-api/internal/store"
)

func roleOf(r profile.Role) *profile.Role { return &r }

func TestEvaluateDecisionTable(t *testing.T) {
	id := &store.Identity{Key: "u1", Email: "u1@example.com"}
	patientProfile := &profile.UserProfile{Role: profile.RolePatient}
	doctorProfile := &profile.UserProfile{Role: profile.RoleDoctor}

	tests := []struct {
		name     string
		state    session.State
		required *profile.Role
		decision Decision
		reason   Reason
	}{
		{
			name:     "loading renders placeholder regardless of role",
			state:    session.State{Loading: true},
			required: roleOf(profile.RoleDoctor),
			decision: Loading,
		},
		{
			name:     "loading with identity still loading",
			state:    session.State{Identity: id, Loading: true},
			required: nil,
			decision: Loading,
		},
		{
			name:     "no identity denies",
			state:    session.State{},
			required: nil,
			decision: Denied,
			reason:   ReasonNotAuthenticated,
		},
		{
			name:     "no identity denies role-gated page",
			state:    session.State{},
			required: roleOf(profile.RolePatient),
			decision: Denied,
			reason:   ReasonNotAuthenticated,
		},
		{
			name:     "identity without required role allows",
			state:    session.State{Identity: id},
			required: nil,
			decision: Allowed,
		},
		{
			name:     "identity without profile allows ungated page",
			state:    session.State{Identity: id},
			required: nil,
			decision: Allowed,
		},
		{
			name:     "missing profile denies role-gated page",
			state:    session.State{Identity: id},
			required: roleOf(profile.RolePatient),
			decision: Denied,
			reason:   ReasonProfileMissing,
		},
		{
			name:     "role mismatch denies",
			state:    session.State{Identity: id, Profile: patientProfile},
			required: roleOf(profile.RoleDoctor),
			decision: Denied,
			reason:   ReasonRoleMismatch,
		},
		{
			name:     "role mismatch denies the other way",
			state:    session.State{Identity: id, Profile: doctorProfile},
			required: roleOf(profile.RolePatient),
			decision: Denied,
			reason:   ReasonRoleMismatch,
		},
		{
			name:     "matching patient role allows",
			state:    session.State{Identity: id, Profile: patientProfile},
			required: roleOf(profile.RolePatient),
			decision: Allowed,
		},
		{
			name:     "matching doctor role allows",
			state:    session.State{Identity: id, Profile: doctorProfile},
			required: roleOf(profile.RoleDoctor),
			decision: Allowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.state, tt.required)
			if got.Decision != tt.decision {
				t.Fatalf("decision = %v, want %v", got.Decision, tt.decision)
			}
			if got.Reason != tt.reason {
				t.Fatalf("reason = %v, want %v", got.Reason, tt.reason)
			}
		})
	}
}
