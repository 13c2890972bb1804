package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/leads"
	"github.com/imrishuroy/go-leadflow/internal/logging"
)

// FileStore keeps the collection in a pretty-printed JSON array file.
type FileStore struct {
	path    string
	logger  *zap.Logger
	nowFunc func() time.Time

	initMu      sync.Mutex
	initialized bool
}

// NewFileStore returns a store for path. Nothing touches the disk until first use.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:    path,
		logger:  logging.OrNop(logger),
		nowFunc: time.Now,
	}
}

// Load reads the collection. A missing or corrupt file yields an empty collection;
// a corrupt file is first moved aside so it is not overwritten by the next save.
func (s *FileStore) Load(ctx context.Context) ([]leads.Lead, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.ensureInitialized()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []leads.Lead{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrStore, s.path, err)
	}

	var records []leads.Lead
	if err := json.Unmarshal(data, &records); err != nil {
		s.quarantine(err)
		return []leads.Lead{}, nil
	}
	return nonNil(records), nil
}

// Save atomically replaces the file with records.
func (s *FileStore) Save(ctx context.Context, records []leads.Lead) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	data, err := json.MarshalIndent(nonNil(records), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal records: %w", ErrStore, err)
	}
	if err := s.writeAtomic(data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStore, s.path, err)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *FileStore) Close() error { return nil }

// ensureInitialized creates an empty collection file on first access. Failures
// are retried on the next access.
func (s *FileStore) ensureInitialized() {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initialized {
		return
	}

	if _, err := os.Stat(s.path); err == nil {
		s.initialized = true
		return
	} else if !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("stat data file failed", zap.String("path", s.path), zap.Error(err))
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Warn("create data dir failed", zap.String("path", s.path), zap.Error(err))
		return
	}
	if err := s.writeAtomic([]byte("[]")); err != nil {
		s.logger.Warn("initialize data file failed", zap.String("path", s.path), zap.Error(err))
		return
	}
	s.logger.Info("initialized empty data file", zap.String("path", s.path))
	s.initialized = true
}

func (s *FileStore) writeAtomic(data []byte) error {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return err
	}
	return nil
}

func (s *FileStore) quarantine(cause error) {
	dst := fmt.Sprintf("%s.corrupt-%d", s.path, s.nowFunc().Unix())
	if err := os.Rename(s.path, dst); err != nil {
		s.logger.Error("corrupt data file could not be moved aside",
			zap.String("path", s.path), zap.NamedError("cause", cause), zap.Error(err))
		return
	}
	s.logger.Warn("corrupt data file moved aside, continuing with an empty collection",
		zap.String("path", s.path), zap.String("moved_to", dst), zap.Error(cause))
}
