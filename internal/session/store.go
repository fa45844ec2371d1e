// Package session owns process-wide authentication state. Durable storage
// is the source of truth across restarts; the in-memory copy is a cache of
// it populated at open time. Credential and identity are always written and
// cleared together.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack/internal/logger"
)

// Durable state keys. Names match the browser client this replaces, so a
// state file survives a client swap.
const (
	tokenKey    = "fintrack_token"
	identityKey = "fintrack_user"
)

// Identity is the display identity of the logged-in user.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// stateRow is one durable key/value pair in the local state database.
type stateRow struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

// TableName sets the table name for stateRow.
func (stateRow) TableName() string { return "state" }

// Store holds the current session. Safe for concurrent use.
type Store struct {
	db *gorm.DB

	mu       sync.RWMutex
	token    string
	identity *Identity
}

// Open migrates the state schema and loads any persisted session into
// memory. Corrupted or half-written state reads as logged out; it is never
// a fatal error.
func Open(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&stateRow{}); err != nil {
		return nil, fmt.Errorf("migrating session state: %w", err)
	}

	s := &Store{db: db}
	s.load()
	return s, nil
}

// OpenFile opens (creating if needed) the state database at path.
func OpenFile(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	return Open(db)
}

// load reads the persisted session. Both keys must be present and readable
// for the session to count; anything else leaves the store logged out.
func (s *Store) load() {
	var rows []stateRow
	if err := s.db.Where("key IN ?", []string{tokenKey, identityKey}).Find(&rows).Error; err != nil {
		logger.Get().Warnw("failed to read session state, starting logged out", "error", err)
		return
	}

	var token string
	var identityJSON string
	for _, row := range rows {
		switch row.Key {
		case tokenKey:
			token = row.Value
		case identityKey:
			identityJSON = row.Value
		}
	}
	if token == "" || identityJSON == "" {
		return
	}

	var identity Identity
	if err := json.Unmarshal([]byte(identityJSON), &identity); err != nil {
		logger.Get().Warnw("corrupted session identity, starting logged out", "error", err)
		return
	}

	s.token = token
	s.identity = &identity
}

// Login stores the credential and identity atomically, durably first, then
// in memory. Subsequent IsAuthenticated calls return true with no network
// round trip.
func (s *Store) Login(identity Identity, token string) error {
	identityJSON, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rows := []stateRow{
			{Key: tokenKey, Value: token},
			{Key: identityKey, Value: string(identityJSON)},
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	s.token = token
	id := identity
	s.identity = &id
	return nil
}

// Logout clears durable and in-memory state atomically. Safe to call when
// already logged out.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("key IN ?", []string{tokenKey, identityKey}).Delete(&stateRow{}).Error
	})
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	s.token = ""
	s.identity = nil
	return nil
}

// IsAuthenticated reports whether a credential is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// CurrentUser returns the logged-in identity, or nil when logged out.
func (s *Store) CurrentUser() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Token returns the current credential. It implements
// transport.CredentialSource.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// TokenExpiresAt decodes the credential as a JWT without verifying it (the
// signing key lives on the backend) and returns the expiry claim. Returns a
// zero time when logged out or when the token is opaque to the client.
func (s *Store) TokenExpiresAt() time.Time {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return time.Time{}
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
