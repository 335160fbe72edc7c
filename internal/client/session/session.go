// Package session holds the client-side authentication context: a
// stored token plus cached view preferences. It is an explicit object
// handed to whoever needs it; nothing here is package-global.
package session

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenFile = "token"
	prefsFile = "prefs"

	ViewTable = "table"
	ViewCard  = "card"
)

// Session is the process-wide auth state. The token and view mode
// persist across runs; the search term lives only for this session.
// Logged-in is derived from the presence of a stored token; an expired
// token is only discovered when a request fails, at which point the
// caller clears the session.
type Session struct {
	dir        string
	token      string
	viewMode   string
	searchTerm string
}

// Load reads any persisted state from dir, creating it if needed.
func Load(dir string) (*Session, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	s := &Session{dir: dir, viewMode: ViewTable}

	if raw, err := os.ReadFile(filepath.Join(dir, tokenFile)); err == nil {
		s.token = strings.TrimSpace(string(raw))
	}
	if raw, err := os.ReadFile(filepath.Join(dir, prefsFile)); err == nil {
		if mode := strings.TrimSpace(string(raw)); mode == ViewCard || mode == ViewTable {
			s.viewMode = mode
		}
	}

	return s, nil
}

// DefaultDir is the per-user state directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "bookshelf"), nil
}

func (s *Session) LoggedIn() bool {
	return s.token != ""
}

func (s *Session) Token() string {
	return s.token
}

// Login stores the token and flips the session to logged-in.
func (s *Session) Login(token string) error {
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Logout clears the token and every cached preference, persisted and
// in-memory.
func (s *Session) Logout() error {
	s.token = ""
	s.viewMode = ViewTable
	s.searchTerm = ""

	errToken := os.Remove(filepath.Join(s.dir, tokenFile))
	errPrefs := os.Remove(filepath.Join(s.dir, prefsFile))

	if errToken != nil && !os.IsNotExist(errToken) {
		return errToken
	}
	if errPrefs != nil && !os.IsNotExist(errPrefs) {
		return errPrefs
	}
	return nil
}

func (s *Session) ViewMode() string {
	return s.viewMode
}

// SetViewMode persists the preferred listing view for the next visit.
func (s *Session) SetViewMode(mode string) error {
	if mode != ViewTable && mode != ViewCard {
		mode = ViewTable
	}
	if err := os.WriteFile(filepath.Join(s.dir, prefsFile), []byte(mode), 0o600); err != nil {
		return err
	}
	s.viewMode = mode
	return nil
}

// SearchTerm is session-scoped only; it never touches disk.
func (s *Session) SearchTerm() string {
	return s.searchTerm
}

func (s *Session) SetSearchTerm(term string) {
	s.searchTerm = term
}
