package session

import (
	"context"
	"fmt"
	"sync"
)

// Default cookie names the provider uses for its session tokens.
const (
	DefaultUIDCookie   = "SUID"
	DefaultTokenCookie = "SNUID"
)

// Credentials holds the two session tokens scraped from provider cookies.
type Credentials struct {
	UID   string
	Token string
}

// Valid reports whether both tokens are present.
func (c Credentials) Valid() bool {
	return c.UID != "" && c.Token != ""
}

// Store guards the process-wide credentials against concurrent
// translate/pronounce calls.
type Store struct {
	mu    sync.RWMutex
	creds Credentials
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current credentials.
func (s *Store) Get() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Set replaces the current credentials.
func (s *Store) Set(c Credentials) {
	s.mu.Lock()
	s.creds = c
	s.mu.Unlock()
}

// Clear drops the current credentials.
func (s *Store) Clear() {
	s.Set(Credentials{})
}

// Refresher scrapes fresh credentials from the provider page.
type Refresher struct {
	visitor     PageVisitor
	uidCookie   string
	tokenCookie string
	store       *Store
}

// NewRefresher creates a refresher reading the given cookie names after
// each page visit. Empty cookie names fall back to the defaults.
func NewRefresher(visitor PageVisitor, store *Store, uidCookie, tokenCookie string) *Refresher {
	if uidCookie == "" {
		uidCookie = DefaultUIDCookie
	}
	if tokenCookie == "" {
		tokenCookie = DefaultTokenCookie
	}
	return &Refresher{
		visitor:     visitor,
		uidCookie:   uidCookie,
		tokenCookie: tokenCookie,
		store:       store,
	}
}

// Refresh visits the provider page, extracts both session cookies and
// stores them. It fails if the visit errors or either cookie is missing.
func (r *Refresher) Refresh(ctx context.Context) (Credentials, error) {
	if err := r.visitor.Visit(ctx); err != nil {
		return Credentials{}, fmt.Errorf("provider page visit failed: %w", err)
	}

	uid, ok := r.visitor.Cookie(r.uidCookie)
	if !ok {
		return Credentials{}, fmt.Errorf("session cookie %q not set by provider", r.uidCookie)
	}
	token, ok := r.visitor.Cookie(r.tokenCookie)
	if !ok {
		return Credentials{}, fmt.Errorf("session cookie %q not set by provider", r.tokenCookie)
	}

	creds := Credentials{UID: uid, Token: token}
	r.store.Set(creds)
	return creds, nil
}
