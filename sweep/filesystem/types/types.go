package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"
)

// ErrGroupTooSmall is returned when a duplicate group would hold fewer than two files.
var ErrGroupTooSmall = errors.New("duplicate group needs at least two files")

// FileRecord describes one regular file found during a scan
type FileRecord struct {
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path" yaml:"path"`
	Size      int64     `json:"size" yaml:"size"`
	Modified  time.Time `json:"modified" yaml:"modified"`
	Extension string    `json:"extension" yaml:"extension"`
	Directory string    `json:"directory,omitempty" yaml:"directory,omitempty"`
}

// DuplicateGroup is a set of files sharing one content digest.
// The earliest-modified file is the original and is never part of Duplicates.
type DuplicateGroup struct {
	hash       string
	files      []FileRecord
	duplicates []FileRecord
}

// NewDuplicateGroup builds a group from files with identical content.
// Files are stable-sorted by modification time; on ties the earlier input wins.
func NewDuplicateGroup(hash string, files []FileRecord) (*DuplicateGroup, error) {
	if len(files) < 2 {
		return nil, fmt.Errorf("%w: hash %s has %d", ErrGroupTooSmall, hash, len(files))
	}

	sorted := make([]FileRecord, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Modified.Before(sorted[j].Modified)
	})

	dups := make([]FileRecord, len(sorted)-1)
	copy(dups, sorted[1:])

	return &DuplicateGroup{hash: hash, files: sorted, duplicates: dups}, nil
}

// Hash returns the hex digest identifying the group
func (g *DuplicateGroup) Hash() string { return g.hash }

// Files returns a copy of all members, oldest first
func (g *DuplicateGroup) Files() []FileRecord {
	out := make([]FileRecord, len(g.files))
	copy(out, g.files)
	return out
}

// Original returns the file that is kept
func (g *DuplicateGroup) Original() FileRecord { return g.files[0] }

// Duplicates returns a copy of the deletable members
func (g *DuplicateGroup) Duplicates() []FileRecord {
	out := make([]FileRecord, len(g.duplicates))
	copy(out, g.duplicates)
	return out
}

// Len returns the number of files in the group
func (g *DuplicateGroup) Len() int { return len(g.files) }

// TotalSize sums the sizes of every member
func (g *DuplicateGroup) TotalSize() int64 {
	var total int64
	for _, f := range g.files {
		total += f.Size
	}
	return total
}

// DuplicateSize sums the sizes of the deletable members
func (g *DuplicateGroup) DuplicateSize() int64 {
	var total int64
	for _, f := range g.duplicates {
		total += f.Size
	}
	return total
}

type duplicateGroupView struct {
	Hash          string       `json:"hash" yaml:"hash"`
	Original      FileRecord   `json:"original" yaml:"original"`
	Duplicates    []FileRecord `json:"duplicates" yaml:"duplicates"`
	Files         []FileRecord `json:"files" yaml:"files"`
	TotalSize     int64        `json:"total_size" yaml:"total_size"`
	DuplicateSize int64        `json:"duplicate_size" yaml:"duplicate_size"`
}

func (g *DuplicateGroup) view() duplicateGroupView {
	return duplicateGroupView{
		Hash:          g.hash,
		Original:      g.Original(),
		Duplicates:    g.Duplicates(),
		Files:         g.Files(),
		TotalSize:     g.TotalSize(),
		DuplicateSize: g.DuplicateSize(),
	}
}

// MarshalJSON implements json.Marshaler
func (g *DuplicateGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.view())
}

// MarshalYAML implements yaml.Marshaler
func (g *DuplicateGroup) MarshalYAML() (interface{}, error) {
	return g.view(), nil
}

// DuplicateFileView is a flattened row describing one member of a group
type DuplicateFileView struct {
	FileRecord     `yaml:",inline"`
	IsOriginal     bool   `json:"is_original" yaml:"is_original"`
	DuplicateGroup string `json:"duplicate_group" yaml:"duplicate_group"`
	GroupSize      int    `json:"group_size" yaml:"group_size"`
	CanDelete      bool   `json:"can_delete" yaml:"can_delete"`
}

// Views flattens the group into rows, original first.
func (g *DuplicateGroup) Views() []DuplicateFileView {
	out := make([]DuplicateFileView, 0, len(g.files))
	for i, f := range g.files {
		out = append(out, DuplicateFileView{
			FileRecord:     f,
			IsOriginal:     i == 0,
			DuplicateGroup: g.hash,
			GroupSize:      len(g.files),
			CanDelete:      i != 0,
		})
	}
	return out
}

// Summary aggregates a set of duplicate groups
type Summary struct {
	TotalDuplicates  int   `json:"total_duplicates" yaml:"total_duplicates"`
	GroupCount       int   `json:"group_count" yaml:"group_count"`
	ReclaimableBytes int64 `json:"reclaimable_bytes" yaml:"reclaimable_bytes"`
}

// Summarize computes the summary of groups
func Summarize(groups []*DuplicateGroup) Summary {
	s := Summary{GroupCount: len(groups)}
	for _, g := range groups {
		s.TotalDuplicates += len(g.duplicates)
		s.ReclaimableBytes += g.DuplicateSize()
	}
	return s
}

// ScanResult is the outcome of a duplicate scan
type ScanResult struct {
	ID              string              `json:"id" yaml:"id"`
	Root            string              `json:"root" yaml:"root"`
	DuplicateFiles  []DuplicateFileView `json:"duplicate_files" yaml:"duplicate_files"`
	DuplicateGroups []*DuplicateGroup   `json:"duplicate_groups" yaml:"duplicate_groups"`
	Summary         Summary             `json:"summary" yaml:"summary"`
	FilesScanned    int                 `json:"files_scanned" yaml:"files_scanned"`
	Skipped         []common.ItemError  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	StartedAt       time.Time           `json:"started_at" yaml:"started_at"`
	Duration        time.Duration       `json:"duration" yaml:"duration"`
}

// CleanupError describes one file that could not be deleted
type CleanupError struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// CleanupResult is the outcome of a cleanup run.
// Success is true even when individual deletions failed; see Errors.
type CleanupResult struct {
	ID           string         `json:"id" yaml:"id"`
	Success      bool           `json:"success" yaml:"success"`
	DeletedCount int            `json:"deleted_count" yaml:"deleted_count"`
	FreedSpace   int64          `json:"freed_space" yaml:"freed_space"`
	Errors       []CleanupError `json:"errors" yaml:"errors"`
	Duration     time.Duration  `json:"duration" yaml:"duration"`
}
