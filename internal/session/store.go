package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/parceldesk/courier-client/internal/domain"
	"github.com/parceldesk/courier-client/internal/events"
)

// ErrInvalidSession reports malformed login data: an empty token or a
// principal missing its identifier or role. It never reaches the user
// beyond forcing a re-login.
var ErrInvalidSession = errors.New("invalid session data")

// Record is the persisted shape of a session. Token and principal are
// always written and cleared together; a record carrying only one of them
// is treated as absent on restore.
type Record struct {
	Token     string           `json:"token"`
	Principal domain.Principal `json:"principal"`
}

// present reports whether the record holds a complete session.
func (r Record) present() bool {
	return r.Token != "" && r.Principal.Valid()
}

// Persistence stores the session record durably so it survives process
// restarts. Save and Clear must replace the whole record in one operation.
type Persistence interface {
	Save(ctx context.Context, rec Record) error
	// Load returns the persisted record and whether one exists at all.
	Load(ctx context.Context) (Record, bool, error)
	Clear(ctx context.Context) error
}

// Store holds the current authentication token and principal. It is the
// single owner of session state: mutation happens only through SetSession
// and ClearSession, both of which persist token and principal atomically.
type Store struct {
	mu        sync.RWMutex
	token     string
	principal domain.Principal
	authed    bool

	persistence Persistence
	dispatcher  events.Dispatcher
}

// NewStore builds a store and restores any persisted session. A partially
// present persisted record (token without principal, or vice versa) is
// treated as absent and removed: when in doubt, not logged in.
func NewStore(ctx context.Context, persistence Persistence, dispatcher events.Dispatcher) (*Store, error) {
	s := &Store{persistence: persistence, dispatcher: dispatcher}

	rec, ok, err := persistence.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}
	if !rec.present() {
		_ = persistence.Clear(ctx)
		return s, nil
	}

	s.token = rec.Token
	s.principal = rec.Principal
	s.authed = true
	return s, nil
}

// SetSession stores token and principal together and persists them. It
// fails with ErrInvalidSession when the token is empty or the principal is
// malformed, leaving the previous session untouched.
func (s *Store) SetSession(ctx context.Context, token string, principal domain.Principal) error {
	if token == "" || !principal.Valid() {
		return ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistence.Save(ctx, Record{Token: token, Principal: principal}); err != nil {
		return err
	}
	s.token = token
	s.principal = principal
	s.authed = true

	s.publishChange(ctx, &principal)
	return nil
}

// ClearSession removes token and principal together. It is idempotent and
// always leaves the store unauthenticated, even when the persistence layer
// fails to delete its record.
func (s *Store) ClearSession(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasAuthed := s.authed
	s.token = ""
	s.principal = domain.Principal{}
	s.authed = false
	_ = s.persistence.Clear(ctx)

	if wasAuthed {
		s.publishChange(ctx, nil)
	}
}

// CurrentPrincipal returns the stored principal, or false when no session
// is active. It never returns a principal without a token.
func (s *Store) CurrentPrincipal() (domain.Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authed {
		return domain.Principal{}, false
	}
	return s.principal, true
}

// Token returns the bearer token, or false when no session is active.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authed {
		return "", false
	}
	return s.token, true
}

// IsAuthenticated reports whether both token and principal are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

func (s *Store) publishChange(ctx context.Context, principal *domain.Principal) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventSessionChanged,
		Timestamp: time.Now(),
		Payload:   events.SessionChangedPayload{Principal: principal},
	})
}
