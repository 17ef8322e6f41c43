// Package memory is a fully in-process SessionStore. It backs local
// development and is the standard test double for the auth and
// session packages.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medico-health/portal-api/internal/store"
)

type account struct {
	identity     store.Identity
	passwordHash []byte
	social       bool
}

type Store struct {
	hub *store.Hub

	mu        sync.RWMutex
	accounts  map[string]*account // identity key -> account
	byEmail   map[string]string   // lowercased email -> identity key
	byToken   map[string]store.Identity
	docs      map[string]map[string]store.Document
	current   *store.Identity
	mailCount map[string]int
	mailErr   error
}

func New() *Store {
	return &Store{
		hub:       store.NewHub(),
		accounts:  make(map[string]*account),
		byEmail:   make(map[string]string),
		byToken:   make(map[string]store.Identity),
		docs:      make(map[string]map[string]store.Document),
		mailCount: make(map[string]int),
	}
}

var _ store.SessionStore = (*Store)(nil)

func (s *Store) CreateAccount(_ context.Context, email, password string) (store.Identity, error) {
	s.mu.Lock()
	key := strings.ToLower(email)
	if _, exists := s.byEmail[key]; exists {
		s.mu.Unlock()
		return store.Identity{}, store.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.mu.Unlock()
		return store.Identity{}, fmt.Errorf("hashing password: %w", err)
	}

	id := store.Identity{Key: uuid.NewString(), Email: email}
	s.accounts[id.Key] = &account{identity: id, passwordHash: hash}
	s.byEmail[key] = id.Key
	s.mu.Unlock()
	return id, nil
}

func (s *Store) SignInWithCredential(_ context.Context, email, password string) (store.Identity, error) {
	s.mu.Lock()
	key, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		s.mu.Unlock()
		return store.Identity{}, store.ErrInvalidCredentials
	}
	acct := s.accounts[key]
	if acct.social || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) != nil {
		s.mu.Unlock()
		return store.Identity{}, store.ErrInvalidCredentials
	}
	id := acct.identity
	s.current = &id
	s.mu.Unlock()

	s.hub.Emit(&id)
	return id, nil
}

// AddSocialUser registers a provider credential the store will accept
// in SignInWithSocial. Test and dev seeding hook.
func (s *Store) AddSocialUser(providerToken, email, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	id, ok := s.byToken[providerToken]
	if !ok {
		if existing, has := s.byEmail[key]; has {
			id = s.accounts[existing].identity
		} else {
			id = store.Identity{Key: uuid.NewString(), Email: email, DisplayName: displayName}
			s.accounts[id.Key] = &account{identity: id, social: true}
			s.byEmail[key] = id.Key
		}
		id.DisplayName = displayName
		s.byToken[providerToken] = id
	}
}

func (s *Store) SignInWithSocial(_ context.Context, providerToken string) (store.Identity, error) {
	s.mu.Lock()
	id, ok := s.byToken[providerToken]
	if !ok {
		s.mu.Unlock()
		return store.Identity{}, store.ErrInvalidCredentials
	}
	s.current = &id
	s.mu.Unlock()

	s.hub.Emit(&id)
	return id, nil
}

// FailVerificationWith makes subsequent SendVerificationEmail calls
// return err. Pass nil to restore normal behavior.
func (s *Store) FailVerificationWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mailErr = err
}

func (s *Store) SendVerificationEmail(_ context.Context, id store.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mailErr != nil {
		return s.mailErr
	}
	s.mailCount[id.Key]++
	return nil
}

// VerificationEmails reports how many verification mails were sent to
// the identity.
func (s *Store) VerificationEmails(id store.Identity) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mailCount[id.Key]
}

func (s *Store) SignOut(_ context.Context) error {
	s.mu.Lock()
	wasActive := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if wasActive {
		s.hub.Emit(nil)
	}
	return nil
}

func (s *Store) OnSessionChanged(fn func(*store.Identity)) func() {
	return s.hub.Subscribe(fn)
}

func (s *Store) GetDocument(_ context.Context, collection, key string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[collection][key]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return copyDoc(doc), nil
}

func (s *Store) SetDocument(_ context.Context, collection, key string, doc store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]store.Document)
	}
	s.docs[collection][key] = copyDoc(doc)
	return nil
}

func (s *Store) UpdateDocument(_ context.Context, collection, key string, fields store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.docs[collection][key]
	if !ok {
		return store.ErrDocumentNotFound
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

func copyDoc(doc store.Document) store.Document {
	out := make(store.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
