// internal/imod/header.go
// Package imod probes movie stacks with the IMOD `header` tool.
package imod

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Tool is the executable resolved on PATH.
const Tool = "header"

// ErrToolNotFound means the header executable is not on the search path.
// Callers treat this as a warning: the frame count stays unset.
var ErrToolNotFound = errors.New("no executable found for command 'header'")

// ExecError is a non-zero exit from the tool. Fatal upstream.
type ExecError struct {
	Path   string // movie file probed
	Stderr string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("IMOD 'header' command failed for %s: %s", e.Path, strings.TrimSpace(e.Stderr))
}

// OutputError means the tool output did not match the textual contract:
// exactly one line containing "sections", ending in three numeric stack
// dimensions.
type OutputError struct {
	Path   string
	Detail string
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("unexpected 'header' output for %s: %s", e.Path, e.Detail)
}

// FrameCount runs `header <path>` and returns the section (frame) count of
// the stack, the third of the three dimensions on the "sections" line.
func FrameCount(path string) (int, error) {
	exe, err := exec.LookPath(Tool)
	if err != nil {
		return 0, ErrToolNotFound
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(exe, path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, &ExecError{Path: path, Stderr: stderr.String()}
	}
	return parseFrameCount(path, stdout.String())
}

// parseFrameCount extracts the frame count from the tool's stdout. The
// format is a textual contract with IMOD and is matched verbatim: the
// single line containing the substring "sections" carries the three stack
// dimensions as its last three whitespace-separated tokens.
func parseFrameCount(path, out string) (int, error) {
	var sectionLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "sections") {
			sectionLines = append(sectionLines, line)
		}
	}
	if len(sectionLines) != 1 {
		return 0, &OutputError{
			Path:   path,
			Detail: fmt.Sprintf("%d lines contain 'sections', want exactly 1", len(sectionLines)),
		}
	}

	fields := strings.Fields(sectionLines[0])
	if len(fields) < 3 {
		return 0, &OutputError{Path: path, Detail: fmt.Sprintf("dimension line too short: %q", sectionLines[0])}
	}
	dims := fields[len(fields)-3:]
	n, err := strconv.Atoi(dims[2])
	if err != nil {
		return 0, &OutputError{Path: path, Detail: fmt.Sprintf("non-numeric section count %q", dims[2])}
	}
	return n, nil
}
