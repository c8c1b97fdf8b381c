package service

import (
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"
	"github.com/ZanzyTHEbar/dupesweep/sweep/trees"
)

// Selection narrows a set of duplicate groups before cleanup
type Selection struct {
	HashPrefixes []string // keep groups whose digest starts with any of these
	Under        []string // only duplicates below one of these directories stay deletable
}

// Empty reports whether the selection has no criteria
func (sel Selection) Empty() bool {
	return len(sel.HashPrefixes) == 0 && len(sel.Under) == 0
}

// SelectGroups returns the groups matching sel, in their original order.
// An empty selection keeps every group. With Under set, each group is cut down to
// its original plus the duplicates below those directories, and groups left with
// nothing to delete are dropped. Originals are kept wherever they live.
func SelectGroups(groups []*types.DuplicateGroup, sel Selection) []*types.DuplicateGroup {
	if sel.Empty() {
		out := make([]*types.DuplicateGroup, len(groups))
		copy(out, groups)
		return out
	}

	var byHash map[string]bool
	if len(sel.HashPrefixes) > 0 {
		byHash = make(map[string]bool)
		gi := trees.NewGroupIndex(groups)
		for _, prefix := range sel.HashPrefixes {
			for _, g := range gi.WithPrefix(prefix) {
				byHash[g.Hash()] = true
			}
		}
	}

	var underDirs map[string]bool
	if len(sel.Under) > 0 {
		underDirs = make(map[string]bool)
		idx := trees.NewPathIndex()
		for _, g := range groups {
			idx.InsertGroup(g)
		}
		pu := common.NewPathUtils()
		for _, dir := range sel.Under {
			for _, e := range idx.Under(pu.NormalizePath(dir)) {
				underDirs[e.Record.Path] = true
			}
		}
	}

	var out []*types.DuplicateGroup
	for _, g := range groups {
		if byHash != nil && !byHash[g.Hash()] {
			continue
		}
		if underDirs != nil {
			narrowed, ok := narrow(g, underDirs)
			if !ok {
				continue
			}
			g = narrowed
		}
		out = append(out, g)
	}
	return out
}

// narrow rebuilds g with its original and only the duplicates in keep.
// ok is false when no duplicate is in keep.
func narrow(g *types.DuplicateGroup, keep map[string]bool) (*types.DuplicateGroup, bool) {
	files := []types.FileRecord{g.Original()}
	for _, d := range g.Duplicates() {
		if keep[d.Path] {
			files = append(files, d)
		}
	}
	if len(files) < 2 {
		return nil, false
	}
	if len(files) == g.Len() {
		return g, true
	}

	// The original sorts first: it is the earliest and leads the input on ties.
	narrowed, err := types.NewDuplicateGroup(g.Hash(), files)
	if err != nil {
		return nil, false
	}
	return narrowed, true
}
