package query

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidExpression is returned when a size or age expression does not parse.
var ErrInvalidExpression = errors.New("invalid filter expression")

var (
	sizePattern = regexp.MustCompile(`(?i)^([<>]=?)\s*(\d+(?:\.\d+)?)\s*(B|KB|MB|GB)$`)
	agePattern  = regexp.MustCompile(`(?i)^(older|newer):(\d+)(days?|weeks?|months?|years?)$`)
)

var sizeMultipliers = map[string]float64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

const day = 24 * time.Hour

var ageUnits = map[string]time.Duration{
	"day":    day,
	"days":   day,
	"week":   7 * day,
	"weeks":  7 * day,
	"month":  30 * day,
	"months": 30 * day,
	"year":   365 * day,
	"years":  365 * day,
}

// SizeFilter compares a file size against a byte threshold
type SizeFilter struct {
	Op    string  // one of > >= < <=
	Bytes float64 // threshold in bytes
}

// ParseSize parses expressions such as ">100MB", "<= 1.5 kb" or ">=0B".
func ParseSize(expr string) (SizeFilter, error) {
	m := sizePattern.FindStringSubmatch(expr)
	if m == nil {
		return SizeFilter{}, fmt.Errorf("%w: size %q", ErrInvalidExpression, expr)
	}

	value, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return SizeFilter{}, fmt.Errorf("%w: size %q: %w", ErrInvalidExpression, expr, err)
	}

	return SizeFilter{Op: m[1], Bytes: value * sizeMultipliers[strings.ToUpper(m[3])]}, nil
}

// Match reports whether size satisfies the comparison
func (s SizeFilter) Match(size int64) bool {
	v := float64(size)
	switch s.Op {
	case ">":
		return v > s.Bytes
	case ">=":
		return v >= s.Bytes
	case "<":
		return v < s.Bytes
	case "<=":
		return v <= s.Bytes
	default:
		return false
	}
}

// AgeFilter compares a file's age against a threshold
type AgeFilter struct {
	Older     bool // true: age > Threshold, false: age < Threshold
	Threshold time.Duration
}

// ParseAge parses expressions such as "older:30days" or "newer:1week".
// A month is 30 days and a year 365 days.
func ParseAge(expr string) (AgeFilter, error) {
	m := agePattern.FindStringSubmatch(expr)
	if m == nil {
		return AgeFilter{}, fmt.Errorf("%w: age %q", ErrInvalidExpression, expr)
	}

	unit := ageUnits[strings.ToLower(m[3])]
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return AgeFilter{}, fmt.Errorf("%w: age %q: %w", ErrInvalidExpression, expr, err)
	}

	threshold := time.Duration(math.MaxInt64)
	if n <= int64(math.MaxInt64/unit) {
		threshold = time.Duration(n) * unit
	}

	return AgeFilter{
		Older:     strings.EqualFold(m[1], "older"),
		Threshold: threshold,
	}, nil
}

// Match reports whether a file modified at modified satisfies the filter at now
func (a AgeFilter) Match(modified, now time.Time) bool {
	age := now.Sub(modified)
	if a.Older {
		return age > a.Threshold
	}
	return age < a.Threshold
}
