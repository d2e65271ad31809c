package actions

import (
	"fmt"
	"os"
	"strings"
)

// OutputWriter sets step outputs
type OutputWriter interface {
	SetOutput(key, value string) error
}

// NoopOutputWriter drops outputs; used outside of a runner
type NoopOutputWriter struct{}

func (NoopOutputWriter) SetOutput(_, _ string) error {
	return nil
}

// FileOutputWriter appends outputs to the $GITHUB_OUTPUT file.
// Format: key=value (single line) or key<<EOF\nvalue\nEOF (multiline).
type FileOutputWriter struct {
	path string
}

// NewOutputWriter returns a FileOutputWriter for path, or a no-op writer when path is empty
func NewOutputWriter(path string) OutputWriter {
	if path == "" {
		return NoopOutputWriter{}
	}
	return &FileOutputWriter{path: path}
}

func (w *FileOutputWriter) SetOutput(key, value string) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	if strings.Contains(value, "\n") {
		delimiter := "EOF"
		for strings.Contains(value, delimiter) {
			delimiter += "_"
		}
		_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
	} else {
		_, err = fmt.Fprintf(f, "%s=%s\n", key, value)
	}
	if err != nil {
		return fmt.Errorf("failed to write output %s: %w", key, err)
	}
	return nil
}
