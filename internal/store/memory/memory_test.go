package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/medico-health/portal-api/internal/store"
)

func TestCreateAccountRejectsDuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateAccount(ctx, "pat@example.com", "Sup3rSecret"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	// Email comparison is case-insensitive.
	if _, err := s.CreateAccount(ctx, "Pat@Example.com", "Other1Secret"); !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestCreateAccountDoesNotEstablishSession(t *testing.T) {
	s := New()
	var events int
	defer s.OnSessionChanged(func(*store.Identity) { events++ })()

	if _, err := s.CreateAccount(context.Background(), "pat@example.com", "Sup3rSecret"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if events != 0 {
		t.Fatalf("CreateAccount emitted %d session events", events)
	}
}

func TestSignInWithCredential(t *testing.T) {
	s := New()
	ctx := context.Background()
	created, _ := s.CreateAccount(ctx, "pat@example.com", "Sup3rSecret")

	var got *store.Identity
	defer s.OnSessionChanged(func(id *store.Identity) { got = id })()

	id, err := s.SignInWithCredential(ctx, "PAT@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("SignInWithCredential failed: %v", err)
	}
	if id.Key != created.Key {
		t.Fatalf("identity = %+v, want %+v", id, created)
	}
	if got == nil || got.Key != created.Key {
		t.Fatalf("session event = %+v", got)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.CreateAccount(ctx, "pat@example.com", "Sup3rSecret")

	if _, err := s.SignInWithCredential(ctx, "pat@example.com", "nope"); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.SignInWithCredential(ctx, "nobody@example.com", "Sup3rSecret"); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSocialAccountRejectsPasswordSignIn(t *testing.T) {
	s := New()
	s.AddSocialUser("tok-1", "jane@example.com", "Jane Smith")

	_, err := s.SignInWithCredential(context.Background(), "jane@example.com", "anything")
	if !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignInWithSocial(t *testing.T) {
	s := New()
	s.AddSocialUser("tok-1", "jane@example.com", "Jane Smith")

	id, err := s.SignInWithSocial(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("SignInWithSocial failed: %v", err)
	}
	if id.Email != "jane@example.com" || id.DisplayName != "Jane Smith" {
		t.Fatalf("identity = %+v", id)
	}

	if _, err := s.SignInWithSocial(context.Background(), "tok-unknown"); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignOutIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.CreateAccount(ctx, "pat@example.com", "Sup3rSecret")
	s.SignInWithCredential(ctx, "pat@example.com", "Sup3rSecret")

	var nilEvents int
	defer s.OnSessionChanged(func(id *store.Identity) {
		if id == nil {
			nilEvents++
		}
	})()

	for i := 0; i < 3; i++ {
		if err := s.SignOut(ctx); err != nil {
			t.Fatalf("SignOut failed: %v", err)
		}
	}
	// Only the transition out of an active session emits.
	if nilEvents != 1 {
		t.Fatalf("nilEvents = %d, want 1", nilEvents)
	}
}

func TestVerificationEmailCountingAndInjectedFailure(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, _ := s.CreateAccount(ctx, "pat@example.com", "Sup3rSecret")

	if err := s.SendVerificationEmail(ctx, id); err != nil {
		t.Fatalf("SendVerificationEmail failed: %v", err)
	}
	if got := s.VerificationEmails(id); got != 1 {
		t.Fatalf("VerificationEmails = %d, want 1", got)
	}

	boom := errors.New("smtp down")
	s.FailVerificationWith(boom)
	if err := s.SendVerificationEmail(ctx, id); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want injected failure", err)
	}
	if got := s.VerificationEmails(id); got != 1 {
		t.Fatalf("failed send was counted: %d", got)
	}
}

func TestDocumentsAreCopiedOnReadAndWrite(t *testing.T) {
	s := New()
	ctx := context.Background()

	doc := store.Document{"role": "patient", "firstName": "Pat"}
	if err := s.SetDocument(ctx, store.UsersCollection, "u1", doc); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	// Mutating the caller's map after the write must not leak in.
	doc["firstName"] = "Mallory"

	got, err := s.GetDocument(ctx, store.UsersCollection, "u1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got["firstName"] != "Pat" {
		t.Fatalf("stored document aliased the input: %v", got)
	}

	// Mutating a read result must not change the store either.
	got["firstName"] = "Trudy"
	again, _ := s.GetDocument(ctx, store.UsersCollection, "u1")
	if again["firstName"] != "Pat" {
		t.Fatalf("read result aliased the stored document: %v", again)
	}
}

func TestUpdateDocument(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpdateDocument(ctx, store.UsersCollection, "missing", store.Document{"a": 1}); !errors.Is(err, store.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want ErrDocumentNotFound", err)
	}

	s.SetDocument(ctx, store.UsersCollection, "u1", store.Document{"role": "doctor", "license": ""})
	if err := s.UpdateDocument(ctx, store.UsersCollection, "u1", store.Document{"license": "MD-1"}); err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}

	got, _ := s.GetDocument(ctx, store.UsersCollection, "u1")
	if got["license"] != "MD-1" || got["role"] != "doctor" {
		t.Fatalf("document = %v", got)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetDocument(context.Background(), store.UsersCollection, "nope"); !errors.Is(err, store.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want ErrDocumentNotFound", err)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.CreateAccount(ctx, "pat@example.com", "Sup3rSecret")

	var events int
	cancel := s.OnSessionChanged(func(*store.Identity) { events++ })

	s.SignInWithCredential(ctx, "pat@example.com", "Sup3rSecret")
	cancel()
	s.SignOut(ctx)

	if events != 1 {
		t.Fatalf("events = %d, want 1 (none after unsubscribe)", events)
	}
}
