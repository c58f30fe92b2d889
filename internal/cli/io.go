// Package cli implements the single-invocation command surface of spec.md
// §6.2: flag parsing, operation dispatch and composition (§4.6), and the
// ambient configuration/locking concerns around the core pkg/archive
// operations.
package cli

import (
	"fmt"
	"io"
)

// IO handles command output. Warnings are printed to stderr both before any
// stdout output and again at the very end, so they survive truncation or
// `| head` / `| tail` piping.
type IO struct {
	out     io.Writer
	errOut  io.Writer
	notes   []string
	started bool
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Note records a non-fatal, per-target condition (spec.md §7: target not
// found under delete/update, output-create failure under extract, skipped
// input under update/append). Notes never flip the exit code.
func (o *IO) Note(format string, a ...any) {
	o.notes = append(o.notes, fmt.Sprintf(format, a...))
}

// Println writes to stdout, flushing any collected notes to stderr first on
// the first call.
func (o *IO) Println(a ...any) {
	o.flushStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout, flushing notes first on the
// first call.
func (o *IO) Printf(format string, a ...any) {
	o.flushStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes directly to stderr, bypassing note buffering. Used for
// fatal usage/archive errors.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish prints any buffered notes to stderr (again, if already flushed at
// start). It returns nothing, so notes alone never cause a non-zero exit:
// per spec.md §6.2 and §7, per-target conditions are reported but don't
// flip the exit code.
func (o *IO) Finish() {
	for _, n := range o.notes {
		_, _ = fmt.Fprintln(o.errOut, n)
	}
}

func (o *IO) flushStart() {
	if !o.started && len(o.notes) > 0 {
		for _, n := range o.notes {
			_, _ = fmt.Fprintln(o.errOut, n)
		}

		o.started = true
	}
}
