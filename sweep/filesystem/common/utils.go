package common

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// PathUtils provides path manipulation utilities used across filesystem packages
type PathUtils struct{}

// NewPathUtils creates a new PathUtils instance
func NewPathUtils() *PathUtils {
	return &PathUtils{}
}

// NormalizePath returns the cleaned absolute form of path.
func (pu *PathUtils) NormalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

// Extension returns the lower-cased suffix of name including the dot, or "".
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsHidden reports whether a directory entry name is dot-prefixed.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with 1024-based units and at most two decimals.
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}

	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
