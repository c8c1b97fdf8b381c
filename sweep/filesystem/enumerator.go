package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/options"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"

	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreChecker matches paths that should be left out of a walk
type IgnoreChecker interface {
	MatchesPath(path string) bool
}

// Enumeration is the outcome of one recursive walk
type Enumeration struct {
	Root        string
	Files       []types.FileRecord
	Directories int
	Skipped     []common.ItemError
}

// Enumerator walks directory trees and collects regular files
type Enumerator struct {
	logger    zerolog.Logger
	pathUtils *common.PathUtils
	metrics   *common.WalkMetrics
}

// NewEnumerator creates a new enumerator
func NewEnumerator(logger zerolog.Logger) *Enumerator {
	return &Enumerator{
		logger:    logger,
		pathUtils: common.NewPathUtils(),
		metrics:   &common.WalkMetrics{},
	}
}

// walkItem is one pending directory on the work-list
type walkItem struct {
	path  string
	depth int
}

// Enumerate lists every regular file under root.
// Subdirectories of a directory at depth MaxDepth are not entered, but files
// at that depth are listed. A negative MaxDepth means unlimited.
func (e *Enumerator) Enumerate(ctx context.Context, root string, opts options.EnumerateOptions) (*Enumeration, error) {
	start := time.Now()

	if err := common.ValidatePath(root); err != nil {
		e.metrics.RecordWalk(start, 0, 0, 0, false)
		return nil, fmt.Errorf("%w: %w", common.ErrFatalScan, err)
	}
	root = e.pathUtils.NormalizePath(root)

	if err := checkRoot(root); err != nil {
		e.metrics.RecordWalk(start, 0, 0, 0, false)
		return nil, err
	}

	excludes := compileExcludes(opts.ExcludePatterns)

	result := &Enumeration{Root: root}
	stack := []walkItem{{path: root, depth: 0}}

	for len(stack) > 0 {
		if err := common.CheckContext(ctx); err != nil {
			e.metrics.RecordWalk(start, len(result.Files), result.Directories, len(result.Skipped), false)
			return nil, fmt.Errorf("enumeration of %s cancelled: %w", root, err)
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(item.path)
		if err != nil {
			if item.path == root {
				e.metrics.RecordWalk(start, 0, 0, 0, false)
				return nil, fmt.Errorf("%w: failed to read %s: %w", common.ErrFatalScan, root, err)
			}
			e.logger.Warn().Str("path", item.path).Err(err).Msg("Failed to read directory, skipping subtree")
			result.Skipped = append(result.Skipped, common.NewItemError(common.ErrDirectoryRead, item.path, err))
			continue
		}
		result.Directories++

		local := e.loadIgnoreFile(item.path, opts.IgnoreFile)

		var subdirs []walkItem
		for _, entry := range entries {
			childPath := filepath.Join(item.path, entry.Name())

			if excluded(excludes, root, childPath, entry.IsDir()) || excluded(local, item.path, childPath, entry.IsDir()) {
				e.logger.Debug().Str("path", childPath).Msg("Ignoring path")
				continue
			}

			if entry.IsDir() {
				if !opts.IncludeHidden && common.IsHidden(entry.Name()) {
					continue
				}
				if opts.MaxDepth >= 0 && item.depth >= opts.MaxDepth {
					e.logger.Debug().Str("path", childPath).Int("depth", item.depth+1).Msg("Max depth reached")
					continue
				}
				subdirs = append(subdirs, walkItem{path: childPath, depth: item.depth + 1})
				continue
			}

			if err := common.CheckContext(ctx); err != nil {
				e.metrics.RecordWalk(start, len(result.Files), result.Directories, len(result.Skipped), false)
				return nil, fmt.Errorf("enumeration of %s cancelled: %w", root, err)
			}

			record, ok, err := fileRecord(entry, item.path)
			if err != nil {
				e.logger.Warn().Str("path", childPath).Err(err).Msg("Error getting file info")
				result.Skipped = append(result.Skipped, common.NewItemError(common.ErrFileStat, childPath, err))
				continue
			}
			if !ok {
				continue
			}
			record.Directory = item.path
			result.Files = append(result.Files, record)
		}

		// Push in reverse so directories pop in ReadDir (lexical) order
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	e.metrics.RecordWalk(start, len(result.Files), result.Directories, len(result.Skipped), true)
	e.logger.Debug().
		Str("root", root).
		Int("files", len(result.Files)).
		Int("directories", result.Directories).
		Int("skipped", len(result.Skipped)).
		Dur("duration", time.Since(start)).
		Msg("Enumeration completed")

	return result, nil
}

// ListDirectory returns the regular files directly inside dir.
func (e *Enumerator) ListDirectory(ctx context.Context, dir string) ([]types.FileRecord, error) {
	if err := common.ValidatePath(dir); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrFatalScan, err)
	}
	dir = e.pathUtils.NormalizePath(dir)

	if err := checkRoot(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", common.ErrFatalScan, dir, err)
	}

	files := make([]types.FileRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := common.CheckContext(ctx); err != nil {
			return nil, fmt.Errorf("listing of %s cancelled: %w", dir, err)
		}

		record, ok, err := fileRecord(entry, dir)
		if err != nil {
			e.logger.Warn().Str("path", filepath.Join(dir, entry.Name())).Err(err).Msg("Error getting file info")
			continue
		}
		if ok {
			files = append(files, record)
		}
	}

	return files, nil
}

// GetMetrics returns accumulated walk metrics
func (e *Enumerator) GetMetrics() map[string]interface{} {
	return e.metrics.GetMetrics()
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrFatalScan, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", common.ErrFatalScan, root)
	}
	return nil
}

// fileRecord converts a directory entry into a record.
// ok is false for anything that is not a regular file.
func fileRecord(entry fs.DirEntry, dir string) (types.FileRecord, bool, error) {
	if !entry.Type().IsRegular() {
		return types.FileRecord{}, false, nil
	}

	info, err := entry.Info()
	if err != nil {
		return types.FileRecord{}, false, err
	}
	if !info.Mode().IsRegular() {
		return types.FileRecord{}, false, nil
	}

	return types.FileRecord{
		Name:      entry.Name(),
		Path:      filepath.Join(dir, entry.Name()),
		Size:      info.Size(),
		Modified:  info.ModTime(),
		Extension: common.Extension(entry.Name()),
	}, true, nil
}

func compileExcludes(patterns []string) IgnoreChecker {
	if len(patterns) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(patterns...)
}

// loadIgnoreFile compiles the per-directory ignore file if one is present.
func (e *Enumerator) loadIgnoreFile(dir, name string) IgnoreChecker {
	if name == "" {
		return nil
	}

	ignorePath := filepath.Join(dir, name)
	if _, err := os.Stat(ignorePath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn().Str("path", ignorePath).Err(err).Msg("Failed to check ignore file")
		}
		return nil
	}

	ignored, err := ignore.CompileIgnoreFile(ignorePath)
	if err != nil {
		e.logger.Warn().Str("path", ignorePath).Err(err).Msg("Failed to read ignore file")
		return nil
	}
	return ignored
}

// excluded matches childPath, relative to base, against checker.
func excluded(checker IgnoreChecker, base, childPath string, isDir bool) bool {
	if checker == nil {
		return false
	}
	rel, err := filepath.Rel(base, childPath)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir && checker.MatchesPath(rel+"/") {
		return true
	}
	return checker.MatchesPath(rel)
}
