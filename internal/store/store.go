// Package store defines the contract for the managed identity and
// document backend the portal consumes. The backend is an external
// collaborator; this package only describes its surface and provides
// the shared session-event plumbing implementations use.
package store

import "context"

// Identity is the authenticated principal reference issued by the
// identity provider. Key is opaque and stable for the lifetime of the
// account.
type Identity struct {
	Key         string
	Email       string
	DisplayName string
}

// Document is a schemaless keyed record in the document store.
type Document map[string]any

// UsersCollection holds one UserProfile document per identity key.
const UsersCollection = "users"

// SessionStore is the combined identity + document backend.
//
// Session-change callbacks must be delivered in the order the
// sign-in/sign-out operations complete, and each callback must run to
// completion before the next event is delivered. A nil identity means
// the session ended.
type SessionStore interface {
	AuthStore
	DocumentStore
}

// AuthStore is the identity half of the backend.
type AuthStore interface {
	// SignInWithCredential authenticates an email/password pair and
	// establishes the current session.
	SignInWithCredential(ctx context.Context, email, password string) (Identity, error)

	// SignInWithSocial exchanges a provider credential (the ID token
	// the browser obtained from the provider's consent flow) for an
	// identity and establishes the current session.
	SignInWithSocial(ctx context.Context, providerToken string) (Identity, error)

	// CreateAccount registers a new credential account. It does not
	// establish a session; the caller is expected to direct the user
	// to sign in afterwards.
	CreateAccount(ctx context.Context, email, password string) (Identity, error)

	// SendVerificationEmail asks the provider to mail a verification
	// link for the given identity.
	SendVerificationEmail(ctx context.Context, id Identity) error

	// SignOut ends the current session. Idempotent.
	SignOut(ctx context.Context) error

	// OnSessionChanged registers a callback invoked on every session
	// transition. The returned function removes the subscription.
	OnSessionChanged(fn func(*Identity)) (unsubscribe func())
}

// DocumentStore is the keyed document half of the backend.
type DocumentStore interface {
	// GetDocument returns the document at collection/key, or
	// ErrDocumentNotFound when absent.
	GetDocument(ctx context.Context, collection, key string) (Document, error)

	// SetDocument writes the full document at collection/key,
	// creating or replacing it.
	SetDocument(ctx context.Context, collection, key string, doc Document) error

	// UpdateDocument merges fields into an existing document.
	// Returns ErrDocumentNotFound when the document does not exist.
	UpdateDocument(ctx context.Context, collection, key string, fields Document) error
}
