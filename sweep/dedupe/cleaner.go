package dedupe

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/fileops"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/options"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// Cleaner deletes every non-original member of duplicate groups
type Cleaner struct {
	deleter fileops.Deleter
	workers int
	logger  zerolog.Logger
}

// NewCleaner creates a cleaner. opts.Workers of 1 deletes sequentially.
func NewCleaner(deleter fileops.Deleter, opts options.CleanupOptions, logger zerolog.Logger) *Cleaner {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Cleaner{deleter: deleter, workers: workers, logger: logger}
}

// Clean deletes the duplicates of each group. Originals are never touched.
// Failures are collected in the result in target order; Clean itself never fails.
func (c *Cleaner) Clean(ctx context.Context, groups []*types.DuplicateGroup) *types.CleanupResult {
	start := time.Now()

	var targets []types.FileRecord
	for _, g := range groups {
		if g == nil {
			continue
		}
		targets = append(targets, g.Duplicates()...)
	}

	outcomes := make([]error, len(targets))
	deleteAt := func(i int) {
		if err := ctx.Err(); err != nil {
			outcomes[i] = err
			return
		}
		outcomes[i] = c.deleter.DeleteFile(ctx, targets[i].Path)
	}

	if c.workers == 1 {
		for i := range targets {
			deleteAt(i)
		}
	} else {
		p := pool.New().WithMaxGoroutines(c.workers)
		for i := range targets {
			p.Go(func() { deleteAt(i) })
		}
		p.Wait()
	}

	result := &types.CleanupResult{
		ID:      uuid.NewString(),
		Success: true,
		Errors:  []types.CleanupError{},
	}
	for i, err := range outcomes {
		if err != nil {
			c.logger.Warn().Str("path", targets[i].Path).Err(err).Msg("Failed to delete duplicate")
			result.Errors = append(result.Errors, types.CleanupError{File: targets[i].Path, Error: err.Error()})
			continue
		}
		result.DeletedCount++
		result.FreedSpace += targets[i].Size
	}
	result.Duration = time.Since(start)

	c.logger.Info().
		Int("targets", len(targets)).
		Int("deleted", result.DeletedCount).
		Int("failed", len(result.Errors)).
		Int64("freed", result.FreedSpace).
		Dur("duration", result.Duration).
		Msg("Cleanup completed")

	return result
}
