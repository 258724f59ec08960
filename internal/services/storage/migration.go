package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnableEncryption seals every JSON snapshot in the data directory with the
// password. On failure the files already sealed are restored.
func (s *Storage) EnableEncryption(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encrypted {
		return ErrAlreadyEncrypted
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	identity, recipient, err := keys(password)
	if err != nil {
		return err
	}

	verifyPath := filepath.Join(s.baseDir, verifyFile)
	sealed, err := encryptData([]byte(verifyMagic), recipient)
	if err != nil {
		return fmt.Errorf("encrypting verification file: %w", err)
	}
	if err := atomicWrite(verifyPath, sealed); err != nil {
		return fmt.Errorf("writing verification file: %w", err)
	}

	files, err := s.dataFiles(func(data []byte) bool { return !isAgeEncrypted(data) })
	if err != nil {
		os.Remove(verifyPath)
		return err
	}

	var done []string
	for _, path := range files {
		err := rewrite(path, func(data []byte) ([]byte, error) { return encryptData(data, recipient) })
		if err != nil {
			for _, p := range done {
				rewrite(p, func(data []byte) ([]byte, error) { return decryptData(data, identity) })
			}
			os.Remove(verifyPath)
			return fmt.Errorf("encrypting %s: %w", filepath.Base(path), err)
		}
		done = append(done, path)
	}

	if err := atomicWrite(filepath.Join(s.baseDir, markerFile), []byte("encrypted")); err != nil {
		return fmt.Errorf("writing marker file: %w", err)
	}

	s.encrypted = true
	s.identity = identity
	s.recipient = recipient
	return nil
}

// DisableEncryption decrypts every sealed snapshot back to plain JSON. The
// current password is required even when the storage is unlocked.
func (s *Storage) DisableEncryption(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return ErrNotEncrypted
	}
	identity, _, err := s.verifyPassword(password)
	if err != nil {
		return err
	}

	files, err := s.dataFiles(isAgeEncrypted)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := rewrite(path, func(data []byte) ([]byte, error) { return decryptData(data, identity) }); err != nil {
			return fmt.Errorf("decrypting %s: %w", filepath.Base(path), err)
		}
	}

	os.Remove(filepath.Join(s.baseDir, markerFile))
	os.Remove(filepath.Join(s.baseDir, verifyFile))

	s.encrypted = false
	s.identity = nil
	s.recipient = nil
	return nil
}

// dataFiles lists the JSON files under the data directory whose content matches keep
func (s *Storage) dataFiles(keep func([]byte) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !encryptable(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if keep(data) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning data dir: %w", err)
	}
	return files, nil
}

// rewrite transforms a file in place
func rewrite(path string, fn func([]byte) ([]byte, error)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := fn(data)
	if err != nil {
		return err
	}
	return atomicWrite(path, out)
}
