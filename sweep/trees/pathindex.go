package trees

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"

	"github.com/armon/go-radix"
)

// Entry is one indexed file, tagged with the digest of its duplicate group if any
type Entry struct {
	Record types.FileRecord
	Group  string
}

// PathIndex maps absolute file paths to records using a radix tree,
// so everything below a directory is one prefix walk away.
type PathIndex struct {
	tree *radix.Tree
	mu   sync.RWMutex
}

// NewPathIndex creates an empty index
func NewPathIndex() *PathIndex {
	return &PathIndex{tree: radix.New()}
}

// InsertGroup adds every member of g, tagged with its digest
func (idx *PathIndex) InsertGroup(g *types.DuplicateGroup) {
	for _, f := range g.Files() {
		idx.insert(Entry{Record: f, Group: g.Hash()})
	}
}

func (idx *PathIndex) insert(e Entry) {
	key := normalizePath(e.Record.Path)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.tree.Insert(key, e)
}

// Under returns the entries strictly below dir, in path order.
// A relative dir is resolved against the working directory.
// "/data/a" does not match "/data/ab/x".
func (idx *PathIndex) Under(dir string) []Entry {
	prefix := normalizePath(dir)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []Entry
	idx.tree.WalkPrefix(prefix, func(_ string, v interface{}) bool {
		out = append(out, v.(Entry))
		return false
	})
	return out
}

// normalizePath makes path absolute and slash-separated
func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	normalized := filepath.ToSlash(filepath.Clean(path))

	if len(normalized) > 1 && strings.HasSuffix(normalized, "/") {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	return normalized
}
