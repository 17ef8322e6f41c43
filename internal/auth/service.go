// Package auth implements the credential, social, and registration
// flows against the session backend, including the role checks that
// gate navigation after a successful sign-in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medico-health/portal-api/internal/config"
	"github.com/medico-health/portal-api/internal/profile"
	"github.com/medico-health/portal-api/internal/session"
	"github.com/medico-health/portal-api/internal/store"
)

var (
	// ErrProfileNotFound: the provider authenticated the identity but
	// no profile document exists for it.
	ErrProfileNotFound = errors.New("account data not found")

	// ErrAccountNotFound: social sign-in in login mode hit an
	// identity with no profile; the session has been torn down.
	ErrAccountNotFound = errors.New("account not found, please register first")
)

// RoleMismatchError reports a sign-in whose stored role differs from
// the role the user selected.
//
// The two flows handle it differently, deliberately: a credential
// login committed to a role before authenticating, so the session
// stays alive and only navigation is denied; a social login's role
// choice is validated only after the provider hand-off, so the
// mismatched session is torn down (SignedOut=true) rather than left
// dangling.
type RoleMismatchError struct {
	Registered profile.Role
	Selected   profile.Role
	SignedOut  bool
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("you are registered as a %s, not a %s", e.Registered, e.Selected)
}

type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLogin, ModeRegister:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// Outcome is a successful flow result: where to navigate and what to
// tell the user.
type Outcome struct {
	Target           string
	Notice           string
	Token            string
	VerificationSent bool
	Identity         store.Identity
	Profile          *profile.UserProfile
}

type Service struct {
	store    store.SessionStore
	sessions *session.Manager
	cfg      *config.Config
	now      func() time.Time
}

func NewService(st store.SessionStore, sessions *session.Manager, cfg *config.Config) *Service {
	return &Service{store: st, sessions: sessions, cfg: cfg, now: time.Now}
}

// SignIn runs the credential flow: authenticate, resolve the profile,
// check the selected role. A role mismatch or missing profile fails
// without signing the session out.
func (s *Service) SignIn(ctx context.Context, email, password string, selected profile.Role) (*Outcome, error) {
	id, err := s.store.SignInWithCredential(ctx, email, password)
	if err != nil {
		return nil, err
	}

	p, err := s.lookupProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}

	if p.Role != selected {
		return nil, &RoleMismatchError{Registered: p.Role, Selected: selected}
	}

	token, err := s.Token(id, p.Role)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Target:   dashboardFor(p.Role),
		Notice:   fmt.Sprintf("Welcome back, %s!", p.FirstName),
		Token:    token,
		Identity: id,
		Profile:  p,
	}, nil
}

// SocialSignIn reconciles a provider identity against the profile
// store. Login mode requires an existing, role-matching profile;
// register mode creates one when absent. Any conflict tears the
// fresh session down before reporting failure.
func (s *Service) SocialSignIn(ctx context.Context, providerToken string, selected profile.Role, mode Mode) (*Outcome, error) {
	id, err := s.store.SignInWithSocial(ctx, providerToken)
	if err != nil {
		return nil, err
	}

	p, err := s.lookupProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if p != nil {
		if p.Role != selected {
			s.forceSignOut(ctx)
			return nil, &RoleMismatchError{Registered: p.Role, Selected: selected, SignedOut: true}
		}

		// An existing, role-matching profile behaves as a login in
		// both modes.
		token, err := s.Token(id, p.Role)
		if err != nil {
			return nil, err
		}
		return &Outcome{
			Target:   landingFor(p),
			Notice:   fmt.Sprintf("Welcome back, %s!", p.FirstName),
			Token:    token,
			Identity: id,
			Profile:  p,
		}, nil
	}

	if mode == ModeLogin {
		s.forceSignOut(ctx)
		return nil, ErrAccountNotFound
	}

	first, last := profile.SplitDisplayName(id.DisplayName)
	now := s.now().UTC()
	p = &profile.UserProfile{
		FirstName:    first,
		LastName:     last,
		Email:        id.Email,
		Role:         selected,
		AuthProvider: profile.ProviderSocial,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.SetDocument(ctx, store.UsersCollection, id.Key, p.ToDocument()); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	// The session manager resolved an absent profile when the
	// sign-in event fired; pick up the one just written.
	if err := s.sessions.RefreshProfile(ctx); err != nil {
		slog.Warn("profile refresh after social registration failed", "user", id.Key, "error", err)
	}

	token, err := s.Token(id, p.Role)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Target:   landingFor(p),
		Notice:   fmt.Sprintf("Welcome, %s!", first),
		Token:    token,
		Identity: id,
		Profile:  p,
	}, nil
}

// Register creates a credential account and its profile document.
// Local validation runs first; no backend call is made when it fails.
// The verification mail is best-effort: a send failure is logged and
// reported via VerificationSent, never fatal.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Outcome, error) {
	if errs := ValidateRegistration(in); len(errs) > 0 {
		return nil, errs
	}

	id, err := s.store.CreateAccount(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	sent := true
	if err := s.store.SendVerificationEmail(ctx, id); err != nil {
		sent = false
		slog.Warn("verification email failed", "user", id.Key, "error", err)
	}

	now := s.now().UTC()
	p := &profile.UserProfile{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		AuthProvider: profile.ProviderPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Role == profile.RoleDoctor {
		p.License = in.License
		p.Specialization = in.Specialization
	}
	if err := s.store.SetDocument(ctx, store.UsersCollection, id.Key, p.ToDocument()); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	return &Outcome{
		Target:           RouteLogin,
		Notice:           "Please check your email to verify your account before logging in.",
		VerificationSent: sent,
		Identity:         id,
		Profile:          p,
	}, nil
}

// CompleteDoctorProfile fills in the license and specialization of
// the signed-in doctor and refreshes the session's profile snapshot.
// Role is never written here.
func (s *Service) CompleteDoctorProfile(ctx context.Context, license, specialization string) (*Outcome, error) {
	snap := s.sessions.Snapshot()
	if snap.Identity == nil {
		return nil, store.ErrNoSession
	}
	if snap.Profile == nil {
		return nil, ErrProfileNotFound
	}
	if snap.Profile.Role != profile.RoleDoctor {
		return nil, &RoleMismatchError{Registered: snap.Profile.Role, Selected: profile.RoleDoctor}
	}

	var errs ValidationErrors
	if license == "" {
		errs = append(errs, ValidationError{Field: "license", Message: "License number is required"})
	}
	if specialization == "" {
		errs = append(errs, ValidationError{Field: "specialization", Message: "Specialization is required"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	fields := store.Document{
		"license":          license,
		"specialization":   specialization,
		"profileCompleted": true,
		"updatedAt":        s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.UpdateDocument(ctx, store.UsersCollection, snap.Identity.Key, fields); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	if err := s.sessions.RefreshProfile(ctx); err != nil {
		slog.Warn("profile refresh after completion failed", "user", snap.Identity.Key, "error", err)
	}

	return &Outcome{Target: RouteDoctorDashboard, Notice: "Profile completed."}, nil
}

// Token mints the portal's HS256 access token for a signed-in
// identity.
func (s *Service) Token(id store.Identity, role profile.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":   id.Key,
		"email": id.Email,
		"role":  string(role),
		"iat":   s.now().Unix(),
		"exp":   s.now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// lookupProfile returns nil for an absent profile and logs-and-nils a
// malformed one.
func (s *Service) lookupProfile(ctx context.Context, id store.Identity) (*profile.UserProfile, error) {
	doc, err := s.store.GetDocument(ctx, store.UsersCollection, id.Key)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	p, err := profile.FromDocument(doc)
	if err != nil {
		slog.Warn("rejecting stored profile", "user", id.Key, "error", err)
		return nil, nil
	}
	return p, nil
}

func (s *Service) forceSignOut(ctx context.Context) {
	if err := s.store.SignOut(ctx); err != nil {
		slog.Warn("forced sign-out failed", "error", err)
	}
}

func dashboardFor(role profile.Role) string {
	if role == profile.RoleDoctor {
		return RouteDoctorDashboard
	}
	return RoutePatientDashboard
}

// landingFor routes doctors with an incomplete profile to the
// completion page instead of their dashboard.
func landingFor(p *profile.UserProfile) string {
	if p.Role == profile.RoleDoctor && !p.ProfileCompleted() {
		return RouteDoctorProfileCompletion
	}
	return dashboardFor(p.Role)
}
