package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by the scan and cleanup pipeline
var (
	ErrDirectoryRead = errors.New("directory read failed")
	ErrFileStat      = errors.New("file metadata unavailable")
	ErrHashCompute   = errors.New("hash computation failed")
	ErrDeletion      = errors.New("deletion failed")
	ErrFatalScan     = errors.New("scan root unusable")
)

// Path validation errors used across filesystem packages
var (
	ErrPathEmpty      = errors.New("path cannot be empty")
	ErrPathTooLong    = errors.New("path too long (max 4096 characters)")
	ErrPathInvalid    = errors.New("path contains invalid characters")
	ErrNotRegularFile = errors.New("not a regular file")
)

// ItemError records a failure tied to one path. The scan carries on without it.
type ItemError struct {
	Path string `json:"path" yaml:"path"`
	Kind error  `json:"-" yaml:"-"`
	Err  error  `json:"-" yaml:"-"`
}

// NewItemError builds an ItemError of the given kind.
func NewItemError(kind error, path string, err error) ItemError {
	return ItemError{Path: path, Kind: kind, Err: err}
}

func (e ItemError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e ItemError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindName returns a short label for the error kind, used in reports.
func (e ItemError) KindName() string {
	switch {
	case errors.Is(e.Kind, ErrDirectoryRead):
		return "directory_read"
	case errors.Is(e.Kind, ErrFileStat):
		return "file_stat"
	case errors.Is(e.Kind, ErrHashCompute):
		return "hash_compute"
	case errors.Is(e.Kind, ErrDeletion):
		return "deletion"
	default:
		return "unknown"
	}
}

// MarshalYAML and MarshalJSON share this flattened form.
type itemErrorView struct {
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind" yaml:"kind"`
	Error string `json:"error" yaml:"error"`
}

func (e ItemError) view() itemErrorView {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return itemErrorView{Path: e.Path, Kind: e.KindName(), Error: msg}
}

// MarshalJSON implements json.Marshaler.
func (e ItemError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.view())
}

// MarshalYAML implements yaml.Marshaler.
func (e ItemError) MarshalYAML() (interface{}, error) {
	return e.view(), nil
}

// CheckContext returns the context error if ctx is already done.
func CheckContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// ValidatePath validates that a path is non-empty and free of NUL bytes.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrPathEmpty
	}
	if strings.Contains(path, "\x00") {
		return ErrPathInvalid
	}
	if len(path) > 4096 {
		return ErrPathTooLong
	}
	return nil
}
