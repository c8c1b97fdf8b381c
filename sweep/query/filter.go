package query

import (
	"strings"
	"time"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"

	"github.com/RoaringBitmap/roaring"
)

// Mode decides how active filters combine
type Mode string

const (
	ModeAnd Mode = "AND"
	ModeOr  Mode = "OR"
)

// ParseMode maps "and" to ModeAnd; anything else is ModeOr.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeAnd)) {
		return ModeAnd
	}
	return ModeOr
}

// Fields toggles the matchers evaluated for each expression
type Fields struct {
	Name      bool
	Extension bool
	Size      bool
	Date      bool
}

// AllFields enables every matcher
func AllFields() Fields {
	return Fields{Name: true, Extension: true, Size: true, Date: true}
}

// Request describes one filter evaluation
type Request struct {
	Query         string
	Fields        Fields
	ActiveFilters []string
	Mode          Mode
	Now           time.Time // zero means time.Now()
}

func (r Request) hasQuery() bool   { return strings.TrimSpace(r.Query) != "" }
func (r Request) hasFilters() bool { return len(r.ActiveFilters) > 0 }

// expression is a pre-parsed filter string
type expression struct {
	lower string
	size  *SizeFilter
	age   *AgeFilter
}

func compile(raw string) expression {
	e := expression{lower: strings.ToLower(raw)}
	if s, err := ParseSize(raw); err == nil {
		e.size = &s
	}
	if a, err := ParseAge(raw); err == nil {
		e.age = &a
	}
	return e
}

func (e expression) matches(f types.FileRecord, fields Fields, now time.Time) bool {
	name := strings.ToLower(f.Name)
	if fields.Name && strings.Contains(name, e.lower) {
		return true
	}
	if fields.Extension && (strings.Contains(strings.ToLower(f.Extension), e.lower) || strings.Contains(name, e.lower)) {
		return true
	}
	if fields.Size && e.size != nil && e.size.Match(f.Size) {
		return true
	}
	if fields.Date && e.age != nil && e.age.Match(f.Modified, now) {
		return true
	}
	return false
}

// bitmap returns the indices of files matching e
func (e expression) bitmap(files []types.FileRecord, fields Fields, now time.Time) *roaring.Bitmap {
	bm := roaring.New()
	for i, f := range files {
		if e.matches(f, fields, now) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Filter returns the files matching the request, in input order.
// The live query and the active filters are OR-ed together; active filters
// combine among themselves by Mode. With neither a query nor active filters
// nothing matches; use Apply for the show-everything behaviour.
func Filter(files []types.FileRecord, req Request) []types.FileRecord {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	keep := roaring.New()

	if req.hasQuery() {
		keep.Or(compile(req.Query).bitmap(files, req.Fields, now))
	}

	if req.hasFilters() {
		bitmaps := make([]*roaring.Bitmap, 0, len(req.ActiveFilters))
		for _, raw := range req.ActiveFilters {
			bitmaps = append(bitmaps, compile(raw).bitmap(files, req.Fields, now))
		}
		if req.Mode == ModeAnd {
			keep.Or(roaring.FastAnd(bitmaps...))
		} else {
			keep.Or(roaring.FastOr(bitmaps...))
		}
	}

	out := make([]types.FileRecord, 0, keep.GetCardinality())
	for _, i := range keep.ToArray() {
		out = append(out, files[i])
	}
	return out
}

// Apply is Filter with a short-circuit: an empty query with no active filters
// returns every file.
func Apply(files []types.FileRecord, req Request) []types.FileRecord {
	if !req.hasQuery() && !req.hasFilters() {
		out := make([]types.FileRecord, len(files))
		copy(out, files)
		return out
	}
	return Filter(files, req)
}
