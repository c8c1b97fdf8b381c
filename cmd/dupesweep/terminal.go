package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/dupesweep/sweep/ports"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[38;5;220m"
	colorGray   = "\033[38;5;245m"
)

// terminal drives the service from a line-oriented console
type terminal struct {
	in    *bufio.Reader
	out   io.Writer
	color bool
}

var _ ports.Interactor = (*terminal)(nil)

func newTerminal(in io.Reader, out io.Writer, color bool) *terminal {
	return &terminal{in: bufio.NewReader(in), out: out, color: color}
}

func (t *terminal) paint(color, s string) string {
	if !t.color {
		return s
	}
	return color + s + colorReset
}

func (t *terminal) Output(message string) {
	fmt.Fprintln(t.out, message)
}

func (t *terminal) Warning(message string) {
	fmt.Fprintf(t.out, "%s %s\n", t.paint(colorYellow, "warning:"), message)
}

func (t *terminal) Error(message string, err error) {
	if err != nil {
		fmt.Fprintf(t.out, "%s %s: %v\n", t.paint(colorRed, "error:"), message, err)
		return
	}
	fmt.Fprintf(t.out, "%s %s\n", t.paint(colorRed, "error:"), message)
}

func (t *terminal) StartSpinner(message string) {
	fmt.Fprintf(t.out, "%s\n", t.paint(colorGray, message+"..."))
}

func (t *terminal) StopSpinner(success bool, message string) {
	if success {
		fmt.Fprintf(t.out, "%s %s\n", t.paint(colorGreen, "✓"), message)
		return
	}
	fmt.Fprintf(t.out, "%s %s\n", t.paint(colorRed, "✗"), message)
}

// readLine returns the next trimmed input line. EOF on an empty line is reported as io.EOF.
func (t *terminal) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// SelectDirectory reads a path from input. An empty answer or closed input cancels.
func (t *terminal) SelectDirectory(ctx context.Context, prompt string) (string, bool, error) {
	fmt.Fprintf(t.out, "%s (empty to cancel): ", prompt)
	line, err := t.readLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if line == "" {
		return "", false, nil
	}
	return line, true, nil
}

// Confirm accepts y or yes. Anything else, including closed input, is a no.
func (t *terminal) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	line, err := t.readLine(ctx)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(line)
	return answer == "y" || answer == "yes", nil
}
