package trees

import (
	"strings"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"

	"github.com/armon/go-radix"
)

// GroupIndex finds duplicate groups by digest prefix
type GroupIndex struct {
	tree *radix.Tree
}

// NewGroupIndex indexes groups by lower-cased digest
func NewGroupIndex(groups []*types.DuplicateGroup) *GroupIndex {
	tree := radix.New()
	for _, g := range groups {
		tree.Insert(strings.ToLower(g.Hash()), g)
	}
	return &GroupIndex{tree: tree}
}

// WithPrefix returns the groups whose digest starts with prefix, in digest order.
// An empty prefix matches nothing.
func (gi *GroupIndex) WithPrefix(prefix string) []*types.DuplicateGroup {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	var out []*types.DuplicateGroup
	gi.tree.WalkPrefix(prefix, func(_ string, v interface{}) bool {
		out = append(out, v.(*types.DuplicateGroup))
		return false
	})
	return out
}
