package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"
)

const (
	// ageHeader is the prefix of age-encrypted files
	ageHeader = "age-encryption.org"

	// markerFile marks a data directory whose snapshots are encrypted
	markerFile = ".encrypted"

	// verifyFile holds verifyMagic encrypted with the current password
	verifyFile = ".encryption-verify"

	verifyMagic = `{"magic":"budgetplan-encryption-verify","version":1}`

	// MinPasswordLength is the shortest password accepted for encryption
	MinPasswordLength = 8
)

var (
	ErrLocked           = errors.New("storage is locked")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrAlreadyEncrypted = errors.New("encryption is already enabled")
	ErrNotEncrypted     = errors.New("encryption is not enabled")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// Storage reads and writes files under one data directory, transparently
// encrypting JSON snapshots once encryption has been enabled
type Storage struct {
	baseDir   string
	encrypted bool
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// New opens the data directory, creating it if needed
func New(baseDir string) (*Storage, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	s := &Storage{baseDir: baseDir}
	if _, err := os.Stat(filepath.Join(baseDir, markerFile)); err == nil {
		s.encrypted = true
	}
	return s, nil
}

// BaseDir returns the data directory
func (s *Storage) BaseDir() string {
	return s.baseDir
}

// Path resolves a file name inside the data directory
func (s *Storage) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.baseDir, name)
}

// IsEncrypted reports whether encryption is enabled for the directory
func (s *Storage) IsEncrypted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encrypted
}

// IsUnlocked reports whether files can be read and written
func (s *Storage) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.encrypted || s.identity != nil
}

// Unlock checks the password against the verification file and keeps the key in memory
func (s *Storage) Unlock(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return nil
	}
	identity, recipient, err := s.verifyPassword(password)
	if err != nil {
		return err
	}
	s.identity = identity
	s.recipient = recipient
	return nil
}

// Lock drops the key from memory
func (s *Storage) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.recipient = nil
}

// Exists reports whether a file is present
func (s *Storage) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// ReadFile reads a file, decrypting it when needed
func (s *Storage) ReadFile(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, err
	}
	if !isAgeEncrypted(data) {
		return data, nil
	}
	if s.identity == nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(name), ErrLocked)
	}
	return decryptData(data, s.identity)
}

// WriteFile atomically replaces a file. JSON files are encrypted while
// encryption is enabled; writing them while locked fails.
func (s *Storage) WriteFile(name string, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.Path(name)
	if s.encrypted && encryptable(path) {
		if s.recipient == nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(path), ErrLocked)
		}
		sealed, err := encryptData(data, s.recipient)
		if err != nil {
			return fmt.Errorf("encrypting %s: %w", filepath.Base(path), err)
		}
		data = sealed
	}
	return atomicWrite(path, data)
}

// Remove deletes a file; a missing file is not an error
func (s *Storage) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// atomicWrite writes through a temp file in the same directory and renames it into place
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// encryptable reports whether a file holds user data that should be sealed
func encryptable(path string) bool {
	base := filepath.Base(path)
	if base == markerFile || base == verifyFile {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".json")
}

func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}
