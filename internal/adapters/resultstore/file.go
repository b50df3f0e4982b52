// Package resultstore implements the durable result tier.
package resultstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileStore implements ports.ResultStore using a file-per-key strategy.
type FileStore struct {
	dir string
	now func() time.Time
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithNow replaces the clock used for expiry.
func WithNow(now func() time.Time) FileOption {
	return func(s *FileStore) {
		s.now = now
	}
}

type fileEntry struct {
	ExpiresAt time.Time             `json:"expiresAt,omitzero"`
	Result    domain.AnalysisResult `json:"result"`
}

// NewFileStore creates a store rooted at dir. The directory is created on first write.
func NewFileStore(dir string, opts ...FileOption) *FileStore {
	s := &FileStore{dir: filepath.Clean(dir), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves the result stored under key.
// Returns nil, nil if not found or expired.
func (s *FileStore) Get(ctx context.Context, key string) (*domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filename := s.filename(key)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "key", key)
	}

	if !entry.ExpiresAt.IsZero() && !s.now().Before(entry.ExpiresAt) {
		_ = os.Remove(filename)
		return nil, nil
	}
	return &entry.Result, nil
}

// Put stores the result under key. A non-positive ttl never expires.
func (s *FileStore) Put(ctx context.Context, key string, result domain.AnalysisResult, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := fileEntry{Result: result}
	if ttl > 0 {
		entry.ExpiresAt = s.now().Add(ttl)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	// Write to a sibling file and rename so readers never see a partial entry.
	tmp, err := os.CreateTemp(s.dir, ".result-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), s.filename(key)); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

func (s *FileStore) filename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:])+".json")
}
