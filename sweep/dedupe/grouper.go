package dedupe

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/hasher"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/options"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// Grouping is the outcome of partitioning files by content
type Grouping struct {
	Groups  []*types.DuplicateGroup
	Skipped []common.ItemError
	Hashed  int
}

// Views flattens every group into rows, in group order with the original first.
func (g *Grouping) Views() []types.DuplicateFileView {
	var views []types.DuplicateFileView
	for _, group := range g.Groups {
		views = append(views, group.Views()...)
	}
	return views
}

// Summary aggregates the groups
func (g *Grouping) Summary() types.Summary {
	return types.Summarize(g.Groups)
}

// Grouper partitions files into duplicate groups by content digest
type Grouper struct {
	hasher  hasher.Hasher
	workers int
	logger  zerolog.Logger
}

// NewGrouper creates a grouper hashing with up to opts.Workers goroutines
func NewGrouper(h hasher.Hasher, opts options.HashOptions, logger zerolog.Logger) *Grouper {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Grouper{hasher: h, workers: workers, logger: logger}
}

type hashResult struct {
	digest string
	err    error
}

// Group hashes every non-empty file and returns the sets sharing a digest.
// Groups appear in the order their digest was first seen in files.
func (g *Grouper) Group(ctx context.Context, files []types.FileRecord) (*Grouping, error) {
	start := time.Now()

	candidates := make([]types.FileRecord, 0, len(files))
	for _, f := range files {
		if f.Size == 0 {
			continue
		}
		candidates = append(candidates, f)
	}

	results := make([]hashResult, len(candidates))
	p := pool.New().WithMaxGoroutines(g.workers).WithContext(ctx)
	for i := range candidates {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			results[i].digest, results[i].err = g.hasher.Hash(ctx, candidates[i].Path)
			return nil
		})
	}
	_ = p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("grouping cancelled: %w", err)
	}

	grouping := &Grouping{}
	var order []string
	buckets := make(map[string][]types.FileRecord)

	for i, res := range results {
		path := candidates[i].Path
		if res.err != nil {
			g.logger.Warn().Str("path", path).Err(res.err).Msg("Failed to hash file, skipping")
			grouping.Skipped = append(grouping.Skipped, common.NewItemError(common.ErrHashCompute, path, res.err))
			continue
		}
		grouping.Hashed++
		if _, ok := buckets[res.digest]; !ok {
			order = append(order, res.digest)
		}
		buckets[res.digest] = append(buckets[res.digest], candidates[i])
	}

	for _, digest := range order {
		bucket := buckets[digest]
		if len(bucket) < 2 {
			continue
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Modified.Before(bucket[j].Modified)
		})
		group, err := types.NewDuplicateGroup(digest, bucket)
		if err != nil {
			return nil, err
		}
		grouping.Groups = append(grouping.Groups, group)
	}

	g.logger.Debug().
		Int("files", len(files)).
		Int("hashed", grouping.Hashed).
		Int("groups", len(grouping.Groups)).
		Int("skipped", len(grouping.Skipped)).
		Dur("duration", time.Since(start)).
		Msg("Grouping completed")

	return grouping, nil
}
