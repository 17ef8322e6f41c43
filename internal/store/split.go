package store

// Split composes separate identity and document backends into one
// SessionStore. Production deployments pair the identity provider's
// REST adapter with the Firestore document adapter this way.
type Split struct {
	AuthStore
	DocumentStore
}

var _ SessionStore = Split{}
