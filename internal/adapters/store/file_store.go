package store

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FileStore keeps one text file per account and collection, one entry per line:
// <dir>/<account>/rules.txt and <dir>/<account>/classifications.txt
type FileStore struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewFileStore creates a file store rooted at dir, creating dir if needed
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// List reads the non-blank lines of the collection's file. A missing file is empty.
func (s *FileStore) List(_ context.Context, accountID string, collection Collection) ([]string, error) {
	path, err := s.path(accountID, collection)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return readLines(path)
}

// Add appends a line unless the entry is already present
func (s *FileStore) Add(_ context.Context, accountID string, collection Collection, value string) error {
	path, err := s.path(accountID, collection)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := readLines(path)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line == value {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create account directory: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	prefix := ""
	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		prefix = "\n"
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := f.WriteString(prefix + value + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	s.logger.Debug("Entry appended", zap.String("path", path))
	return nil
}

// Remove rewrites the file without any line matching the entry
func (s *FileStore) Remove(_ context.Context, accountID string, collection Collection, value string) error {
	path, err := s.path(accountID, collection)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := readLines(path)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != value {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return nil
	}

	var sb strings.Builder
	for _, line := range kept {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	s.logger.Debug("Entry removed from file", zap.String("path", path))
	return nil
}

// Close does nothing
func (s *FileStore) Close() error {
	return nil
}

// path returns the file for an account's collection. Account ids must be a
// single path element.
func (s *FileStore) path(accountID string, collection Collection) (string, error) {
	if accountID == "" || accountID == "." || accountID == ".." ||
		strings.ContainsAny(accountID, `/\`) || accountID != filepath.Base(accountID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccount, accountID)
	}
	return filepath.Join(s.dir, accountID, string(collection)+".txt"), nil
}

// readLines returns the trimmed, non-blank lines of path
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	lines := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
