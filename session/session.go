package session

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/aabdoo23/nucpa-balloons/models"
)

// Preference keys. Stable: they name rows in the operator's local store.
const (
	keyUserName    = "userName"
	keyUserRole    = "userRole"
	keyToken       = "token"
	keyEnvironment = "selectedEnvironment"
)

// Session is one read of the operator's persisted preferences.
type Session struct {
	UserName    string
	Role        models.Role
	Token       string
	Environment string
}

// Ready reports whether the operator has set both a display name and a
// role. Mutations are gated on this the same way the dashboard refuses to
// act before the settings dialog is filled in.
func (s Session) Ready() bool {
	return s.UserName != "" && s.Role != ""
}

// CanAdmin reports whether a login token is present. Presence is the only
// check; the backend validates the token itself.
func (s Session) CanAdmin() bool {
	return s.Token != ""
}

// Store persists operator preferences in a local single-file database.
// It is constructed once in main and handed to whatever needs it; there
// is no ambient global state.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the preference store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS preference (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create preference schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Session reads the current preferences. Missing keys read as zero values
// except the role, which defaults to courier.
func (s *Store) Session() Session {
	sess := Session{
		UserName:    s.get(keyUserName),
		Token:       s.get(keyToken),
		Environment: s.get(keyEnvironment),
	}
	if role, err := models.ParseRole(s.get(keyUserRole)); err == nil {
		sess.Role = role
	} else {
		sess.Role = models.RoleCourier
	}
	return sess
}

// SetUser persists the operator's display name and role.
func (s *Store) SetUser(name string, role models.Role) error {
	if err := s.set(keyUserName, name); err != nil {
		return err
	}
	return s.set(keyUserRole, string(role))
}

// SetToken persists the admin bearer token.
func (s *Store) SetToken(token string) error {
	return s.set(keyToken, token)
}

// ClearToken removes the admin bearer token.
func (s *Store) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM preference WHERE key = ?`, keyToken)
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// SetEnvironment persists the selected backend environment name.
func (s *Store) SetEnvironment(env string) error {
	return s.set(keyEnvironment, env)
}

// Token satisfies the apiclient token source interface.
func (s *Store) Token() string {
	return s.get(keyToken)
}

func (s *Store) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var value string
	err := s.db.QueryRow(`SELECT value FROM preference WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

func (s *Store) set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO preference (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}
