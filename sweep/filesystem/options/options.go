package options

import (
	"runtime"

	"github.com/ZanzyTHEbar/dupesweep/sweep/config"
)

// DefaultMaxDepth is the deepest directory level the enumerator descends into.
const DefaultMaxDepth = 10

// EnumerateOptions configures recursive tree enumeration
type EnumerateOptions struct {
	MaxDepth        int      // Deepest level whose subdirectories are still entered (root = 0)
	IncludeHidden   bool     // Descend into dot-prefixed directories
	ExcludePatterns []string // Gitignore-style patterns matched against root-relative paths
	IgnoreFile      string   // Per-directory ignore file name, "" disables
}

// HashOptions configures content hashing
type HashOptions struct {
	Algorithm string // "sha256" or "blake3"
	Workers   int    // Concurrent hash workers
}

// CleanupOptions configures duplicate deletion
type CleanupOptions struct {
	Workers int // Concurrent deletions, 1 = sequential
}

// DefaultEnumerateOptions returns defaults for tree enumeration
func DefaultEnumerateOptions() EnumerateOptions {
	return EnumerateOptions{
		MaxDepth:      DefaultMaxDepth,
		IncludeHidden: false,
	}
}

// DefaultHashOptions returns defaults for content hashing
func DefaultHashOptions() HashOptions {
	return HashOptions{
		Algorithm: "sha256",
		Workers:   runtime.NumCPU(),
	}
}

// DefaultCleanupOptions returns defaults for deletion
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{Workers: 1}
}

// FromConfig maps loaded configuration onto the per-component options.
func FromConfig(cfg *config.Config) (EnumerateOptions, HashOptions, CleanupOptions) {
	enum := EnumerateOptions{
		MaxDepth:        cfg.Scan.MaxDepth,
		IncludeHidden:   cfg.Scan.IncludeHidden,
		ExcludePatterns: append([]string(nil), cfg.Scan.Exclude...),
		IgnoreFile:      cfg.Scan.IgnoreFile,
	}
	hash := HashOptions{
		Algorithm: cfg.Hash.Algorithm,
		Workers:   cfg.Hash.Workers,
	}
	cleanup := CleanupOptions{Workers: cfg.Cleanup.Workers}
	return enum, hash, cleanup
}
