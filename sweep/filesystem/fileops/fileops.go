package fileops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"

	"github.com/rs/zerolog"
)

// Deleter permanently removes a single file
type Deleter interface {
	DeleteFile(ctx context.Context, path string) error
}

// FileOps provides low-level file system operations
type FileOps struct {
	logger  zerolog.Logger
	metrics *common.DeletionMetrics
}

// NewFileOps creates a new file operations instance
func NewFileOps(logger zerolog.Logger) *FileOps {
	return &FileOps{
		logger:  logger,
		metrics: &common.DeletionMetrics{},
	}
}

// DeleteFile permanently deletes a single regular file.
// Every failure wraps common.ErrDeletion.
func (fo *FileOps) DeleteFile(ctx context.Context, path string) error {
	// Check for context cancellation
	if err := common.CheckContext(ctx); err != nil {
		return err
	}

	if err := common.ValidatePath(path); err != nil {
		fo.metrics.RecordDeletion(false, 0)
		return fmt.Errorf("%w: invalid path: %w", common.ErrDeletion, err)
	}

	info, err := os.Lstat(path)
	if err != nil {
		fo.metrics.RecordDeletion(false, 0)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: file does not exist: %s: %w", common.ErrDeletion, path, err)
		}
		return fmt.Errorf("%w: failed to access file: %w", common.ErrDeletion, err)
	}
	if !info.Mode().IsRegular() {
		fo.metrics.RecordDeletion(false, 0)
		return fmt.Errorf("%w: %s: %w", common.ErrDeletion, path, common.ErrNotRegularFile)
	}

	if err := os.Remove(path); err != nil {
		fo.metrics.RecordDeletion(false, 0)
		return fmt.Errorf("%w: failed to delete file %s: %w", common.ErrDeletion, path, err)
	}

	fo.metrics.RecordDeletion(true, info.Size())
	fo.logger.Debug().Str("path", path).Int64("size", info.Size()).Msg("Deleted file")
	return nil
}

// GetMetrics returns deletion metrics
func (fo *FileOps) GetMetrics() map[string]interface{} {
	return fo.metrics.GetMetrics()
}
