package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cerrors "construction-cost/pkg/errors"

	"construction-cost/estimation"
)

const estimateExt = ".json"

// FilesystemStore keeps each estimate as a JSON document in a flat
// directory, one file per name.
type FilesystemStore struct {
	dir    string
	logger *slog.Logger
}

func NewFilesystemStore(dir string, logger *slog.Logger) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, cerrors.NewPersistenceError("create estimate directory", err)
	}
	return &FilesystemStore{dir: dir, logger: logger.With("component", "filesystem_store")}, nil
}

func (s *FilesystemStore) path(name string) string {
	return filepath.Join(s.dir, name+estimateExt)
}

func (s *FilesystemStore) Save(_ context.Context, name string, result *estimation.EstimationResult) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return cerrors.NewPersistenceError("encode estimate", err)
	}

	// Write-then-rename so readers never observe a partial file.
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return cerrors.NewPersistenceError("write estimate", err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		os.Remove(tmp)
		return cerrors.NewPersistenceError("write estimate", err)
	}

	s.logger.Info("estimate saved", "name", name, "bytes", len(data))
	return nil
}

func (s *FilesystemStore) Load(_ context.Context, name string) (*estimation.EstimationResult, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, cerrors.NewPersistenceError(fmt.Sprintf("read estimate %q", name), err)
	}

	var result estimation.EstimationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, cerrors.NewPersistenceError(fmt.Sprintf("decode estimate %q", name), err)
	}
	return &result, nil
}

func (s *FilesystemStore) List(_ context.Context) ([]SavedEstimate, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, cerrors.NewPersistenceError("list estimates", err)
	}

	saved := []SavedEstimate{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), estimateExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), estimateExt)

		item := SavedEstimate{
			Name:      name,
			Modified:  info.ModTime(),
			SizeBytes: info.Size(),
		}
		// Listing survives an unreadable entry; the summary fields just
		// stay empty.
		if result, err := s.Load(context.Background(), name); err == nil {
			item.SquareFootage = result.Project.SquareFootage
			item.TotalCost = result.TotalCost.StringFixed(2)
		}
		saved = append(saved, item)
	}
	return saved, nil
}
