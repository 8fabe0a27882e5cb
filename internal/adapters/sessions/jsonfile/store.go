// Package jsonfile persists sessions as one JSON object mapping identity to access token.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports"
)

const (
	sessionFileMode = 0o600
	sessionDirMode  = 0o700
	tempFilePattern = ".sessions-*.json.tmp"
)

var errCorruptFile = errors.New("session file is corrupt")

type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[domain.Identity]string
}

var _ ports.CredentialStore = (*Store)(nil)

func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("session file path is empty")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session file path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		path:     filepath.Clean(absPath),
		logger:   logger.With("component", "sessions"),
		sessions: map[domain.Identity]string{},
	}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory mapping with the file contents. A missing or
// undecodable file is replaced by an empty mapping, which is written back at once.
// Any other read failure is returned and leaves both the file and the mapping alone.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.readFile()
	if err == nil {
		s.sessions = sessions
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, errCorruptFile) {
		return err
	}

	s.logger.Warn("sessions: resetting session file", "path", s.path, "error", err)
	s.sessions = map[domain.Identity]string{}
	if err := s.writeFile(); err != nil {
		return fmt.Errorf("initialize session file: %w", err)
	}
	return nil
}

func (s *Store) Exists(identity domain.Identity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[identity]
	return ok
}

func (s *Store) AccessToken(identity domain.Identity) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.sessions[identity]
	return token, ok
}

func (s *Store) Add(identity domain.Identity, accessToken string) error {
	if strings.TrimSpace(string(identity)) == "" {
		return errors.New("session identity is empty")
	}
	if accessToken == "" {
		return errors.New("session access token is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, had := s.sessions[identity]
	s.sessions[identity] = accessToken
	if err := s.writeFile(); err != nil {
		if had {
			s.sessions[identity] = previous
		} else {
			delete(s.sessions, identity)
		}
		return err
	}
	return nil
}

// Forget removes the session. Forgetting an unknown identity is not an error.
func (s *Store) Forget(identity domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, had := s.sessions[identity]
	if !had {
		return nil
	}
	delete(s.sessions, identity)
	if err := s.writeFile(); err != nil {
		s.sessions[identity] = previous
		return err
	}
	return nil
}

// List returns every session sorted by identity.
func (s *Store) List() []domain.SessionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SessionEntry, 0, len(s.sessions))
	for identity, token := range s.sessions {
		out = append(out, domain.SessionEntry{Identity: identity, AccessToken: token})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identity < out[j].Identity
	})
	return out
}

func (s *Store) readFile() (map[domain.Identity]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sessions map[domain.Identity]string
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptFile, err)
	}
	if sessions == nil {
		return nil, fmt.Errorf("%w: not a json object", errCorruptFile)
	}
	return sessions, nil
}

func (s *Store) writeFile() error {
	if err := os.MkdirAll(filepath.Dir(s.path), sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := json.Marshal(s.sessions)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false
	return nil
}
