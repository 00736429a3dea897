package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/helloamger/discussions-archiver/pkg/gh"
)

// FileStore persists the checkpoint as an indented UTF-8 JSON file.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a file-backed checkpoint store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		logger: log.With().Str("component", "checkpoint").Str("backend", "file").Logger(),
	}
}

// Load reads and parses the checkpoint file. A missing file is a normal
// first run; read or parse failures fall back to the default checkpoint
// and return the cause for the caller to log.
func (s *FileStore) Load(_ context.Context) (*Checkpoint, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		LoadsTotal.WithLabelValues("file", "miss").Inc()
		return New(), nil
	}
	if err != nil {
		LoadsTotal.WithLabelValues("file", "error").Inc()
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Checkpoint read failed, starting fresh")
		return New(), fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		LoadsTotal.WithLabelValues("file", "error").Inc()
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Checkpoint parse failed, starting fresh")
		return New(), fmt.Errorf("parse checkpoint: %w", err)
	}
	if cp.Discussions == nil {
		cp.Discussions = []gh.Discussion{}
	}

	if !cp.Consistent() {
		LoadsTotal.WithLabelValues("file", "error").Inc()
		s.logger.Warn().Str("path", s.path).Msg("Checkpoint record inconsistent, starting fresh")
		return New(), fmt.Errorf("checkpoint record inconsistent")
	}

	LoadsTotal.WithLabelValues("file", "ok").Inc()
	return &cp, nil
}

// Save serializes the checkpoint and atomically replaces the file via a
// temp-file rename, so a crash mid-write never leaves a torn record.
func (s *FileStore) Save(_ context.Context, cp *Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		SavesTotal.WithLabelValues("file", "error").Inc()
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".checkpoint-*.tmp")
	if err != nil {
		SavesTotal.WithLabelValues("file", "error").Inc()
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		SavesTotal.WithLabelValues("file", "error").Inc()
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		SavesTotal.WithLabelValues("file", "error").Inc()
		return fmt.Errorf("close checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		SavesTotal.WithLabelValues("file", "error").Inc()
		return fmt.Errorf("replace checkpoint: %w", err)
	}

	SavesTotal.WithLabelValues("file", "ok").Inc()
	SizeBytes.WithLabelValues("file").Set(float64(len(data)))

	s.logger.Debug().
		Int("total_count", cp.TotalCount).
		Bool("has_more", cp.HasMore).
		Msg("Checkpoint saved")

	return nil
}

// Clear removes the checkpoint file. An absent file is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}
