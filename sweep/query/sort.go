package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"
)

// SortKey names the column to order by
type SortKey string

const (
	SortByName      SortKey = "name"
	SortBySize      SortKey = "size"
	SortByModified  SortKey = "modified"
	SortByExtension SortKey = "extension"
)

// Direction is ascending or descending
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSort parses "key" or "key:dir", e.g. "size:desc". Direction defaults to asc.
func ParseSort(s string) (SortKey, Direction, error) {
	keyPart, dirPart, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")

	key := SortKey(keyPart)
	switch key {
	case SortByName, SortBySize, SortByModified, SortByExtension:
	default:
		return "", "", fmt.Errorf("unknown sort key %q", keyPart)
	}

	switch Direction(dirPart) {
	case "", Asc:
		return key, Asc, nil
	case Desc:
		return key, Desc, nil
	default:
		return "", "", fmt.Errorf("unknown sort direction %q", dirPart)
	}
}

// Sort returns a stably sorted copy of files. Strings compare case-insensitively.
func Sort(files []types.FileRecord, key SortKey, dir Direction) []types.FileRecord {
	out := make([]types.FileRecord, len(files))
	copy(out, files)

	cmp := comparator(key)
	if cmp == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func comparator(key SortKey) func(a, b types.FileRecord) int {
	switch key {
	case SortByName:
		return func(a, b types.FileRecord) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortByExtension:
		return func(a, b types.FileRecord) int {
			return strings.Compare(strings.ToLower(a.Extension), strings.ToLower(b.Extension))
		}
	case SortBySize:
		return func(a, b types.FileRecord) int {
			switch {
			case a.Size < b.Size:
				return -1
			case a.Size > b.Size:
				return 1
			}
			return 0
		}
	case SortByModified:
		return func(a, b types.FileRecord) int {
			return a.Modified.Compare(b.Modified)
		}
	default:
		return nil
	}
}
