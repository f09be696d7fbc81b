// Package target defines the emission boundary: a Target is a read-only
// consumer of a lowered Component and its pools that writes its output form
// to a sink. Output sinks are stdout, stderr, or a file path. Targets must
// not mutate the IR.
package target

import (
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"

	"pulsar/internal/ir"
)

// Target converts a Component into an output form.
type Target interface {
	// Name identifies the target for logging and CLI selection.
	Name() string
	// Emit writes comp's translation to out. comp and pools are read-only:
	// Emit must not allocate into or rewrite any pool.
	Emit(comp *ir.Component, pools ir.Pools, out io.Writer) error
}

// Stdout returns the standard-out sink.
func Stdout() io.Writer { return os.Stdout }

// Stderr returns the standard-error sink.
func Stderr() io.Writer { return os.Stderr }

// FileSink opens (creating or truncating) path as an output sink. The
// caller owns the returned Closer.
func FileSink(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "opening output sink %s", path)
	}
	return f, nil
}
