package actions

import (
	"fmt"
	"io"
	"strings"
)

var messageEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// Annotator emits workflow commands that the runner turns into annotations
type Annotator struct {
	w io.Writer
}

func NewAnnotator(w io.Writer) *Annotator {
	return &Annotator{w: w}
}

// Warning emits ::warning::
func (a *Annotator) Warning(message string) {
	a.command("warning", message)
}

// Error emits ::error::. Combined with a non-zero exit code this marks the step failed.
func (a *Annotator) Error(message string) {
	a.command("error", message)
}

func (a *Annotator) command(name, message string) {
	fmt.Fprintf(a.w, "::%s::%s\n", name, messageEscaper.Replace(message))
}
