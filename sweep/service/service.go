package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ZanzyTHEbar/dupesweep/sweep/dedupe"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/fileops"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/hasher"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/options"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"
	"github.com/ZanzyTHEbar/dupesweep/sweep/ports"
	"github.com/ZanzyTHEbar/dupesweep/sweep/query"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoInteractor is returned by SelectRoot when the service has no Interactor.
var ErrNoInteractor = errors.New("no interactor configured")

// Options bundles the per-component settings
type Options struct {
	Enumerate options.EnumerateOptions
	Hash      options.HashOptions
	Cleanup   options.CleanupOptions
}

// DefaultOptions returns the default settings for every component
func DefaultOptions() Options {
	return Options{
		Enumerate: options.DefaultEnumerateOptions(),
		Hash:      options.DefaultHashOptions(),
		Cleanup:   options.DefaultCleanupOptions(),
	}
}

// metricsReporter is implemented by components that keep running counters
type metricsReporter interface {
	GetMetrics() map[string]interface{}
}

// Service exposes the scan and cleanup pipeline. It holds no per-request state.
type Service struct {
	enumerator *filesystem.Enumerator
	grouper    *dedupe.Grouper
	cleaner    *dedupe.Cleaner
	deleter    fileops.Deleter
	interactor ports.Interactor
	enumOpts   options.EnumerateOptions
	logger     zerolog.Logger
}

// New wires the pipeline. interactor may be nil when SelectRoot is not used.
func New(opts Options, interactor ports.Interactor, logger zerolog.Logger) (*Service, error) {
	h, err := hasher.New(opts.Hash.Algorithm)
	if err != nil {
		return nil, err
	}
	return NewWithDependencies(opts, h, fileops.NewFileOps(logger), interactor, logger), nil
}

// NewWithDependencies wires the pipeline around an explicit hasher and deleter.
func NewWithDependencies(opts Options, h hasher.Hasher, d fileops.Deleter, interactor ports.Interactor, logger zerolog.Logger) *Service {
	return &Service{
		enumerator: filesystem.NewEnumerator(logger),
		grouper:    dedupe.NewGrouper(h, opts.Hash, logger),
		cleaner:    dedupe.NewCleaner(d, opts.Cleanup, logger),
		deleter:    d,
		interactor: interactor,
		enumOpts:   opts.Enumerate,
		logger:     logger,
	}
}

// SelectRoot asks the interactor for a directory to scan.
// A cancelled selection yields ("", false, nil).
func (s *Service) SelectRoot(ctx context.Context) (string, bool, error) {
	if s.interactor == nil {
		return "", false, ErrNoInteractor
	}

	path, ok, err := s.interactor.SelectDirectory(ctx, "Select a folder to scan")
	if err != nil {
		return "", false, err
	}
	if !ok || path == "" {
		return "", false, nil
	}

	path = common.NewPathUtils().NormalizePath(path)
	info, err := os.Stat(path)
	if err != nil {
		return "", false, fmt.Errorf("selected path unusable: %w", err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("selected path is not a directory: %s", path)
	}
	return path, true, nil
}

// ListFiles returns the regular files directly inside root
func (s *Service) ListFiles(ctx context.Context, root string) ([]types.FileRecord, error) {
	return s.enumerator.ListDirectory(ctx, root)
}

// FindDuplicates walks root and groups its files by content
func (s *Service) FindDuplicates(ctx context.Context, root string) (*types.ScanResult, error) {
	start := time.Now()

	enumeration, err := s.enumerator.Enumerate(ctx, root, s.enumOpts)
	if err != nil {
		return nil, err
	}

	grouping, err := s.grouper.Group(ctx, enumeration.Files)
	if err != nil {
		return nil, err
	}

	skipped := make([]common.ItemError, 0, len(enumeration.Skipped)+len(grouping.Skipped))
	skipped = append(skipped, enumeration.Skipped...)
	skipped = append(skipped, grouping.Skipped...)

	result := &types.ScanResult{
		ID:              uuid.NewString(),
		Root:            enumeration.Root,
		DuplicateFiles:  grouping.Views(),
		DuplicateGroups: grouping.Groups,
		Summary:         grouping.Summary(),
		FilesScanned:    len(enumeration.Files),
		Skipped:         skipped,
		StartedAt:       start,
		Duration:        time.Since(start),
	}
	if result.DuplicateFiles == nil {
		result.DuplicateFiles = []types.DuplicateFileView{}
	}
	if result.DuplicateGroups == nil {
		result.DuplicateGroups = []*types.DuplicateGroup{}
	}

	s.logger.Info().
		Str("root", result.Root).
		Int("files", result.FilesScanned).
		Int("groups", result.Summary.GroupCount).
		Int("duplicates", result.Summary.TotalDuplicates).
		Int64("reclaimable", result.Summary.ReclaimableBytes).
		Int("skipped", len(skipped)).
		Dur("duration", result.Duration).
		Msg("Duplicate scan completed")
	s.logger.Debug().Fields(s.enumerator.GetMetrics()).Msg("Walk metrics")

	return result, nil
}

// CleanDuplicateFiles deletes every duplicate in groups, keeping each original.
// Per-file failures are reported in the result, never as an error.
func (s *Service) CleanDuplicateFiles(ctx context.Context, groups []*types.DuplicateGroup) *types.CleanupResult {
	result := s.cleaner.Clean(ctx, groups)
	if reporter, ok := s.deleter.(metricsReporter); ok {
		s.logger.Debug().Fields(reporter.GetMetrics()).Msg("Deletion metrics")
	}
	return result
}

// Search lists root (recursively if asked) and applies the filter request
func (s *Service) Search(ctx context.Context, root string, recursive bool, req query.Request) ([]types.FileRecord, error) {
	var files []types.FileRecord
	if recursive {
		enumeration, err := s.enumerator.Enumerate(ctx, root, s.enumOpts)
		if err != nil {
			return nil, err
		}
		files = enumeration.Files
	} else {
		listed, err := s.enumerator.ListDirectory(ctx, root)
		if err != nil {
			return nil, err
		}
		files = listed
	}
	return query.Apply(files, req), nil
}
