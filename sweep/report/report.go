package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"
	"github.com/ZanzyTHEbar/dupesweep/sweep/query"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	ErrUnknownFormat    = errors.New("unknown report format")
	ErrUnsupportedValue = errors.New("value cannot be rendered as text")
)

// Write renders v to w in the given format.
// Text output understands scan results, cleanup results, file lists and presets.
func Write(w io.Writer, format string, v interface{}) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		text, err := renderText(v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderText(v interface{}) (string, error) {
	switch r := v.(type) {
	case *types.ScanResult:
		return scanText(r), nil
	case *types.CleanupResult:
		return cleanupText(r), nil
	case []types.FileRecord:
		return filesText(r), nil
	case []query.Preset:
		return presetsText(r), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.2fs", mins, secs)
}

func header(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("  " + title + "\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
