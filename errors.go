package proteintree

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUsage is returned when a caller violates a precondition, such as
	// looking up a peptide shorter than the initial tag size.
	ErrUsage = errors.New("invalid usage of the protein tree")

	// ErrCanceled is returned by Build when cancellation was observed before
	// the index was complete. No index is returned alongside it.
	ErrCanceled = errors.New("protein tree construction canceled")

	ErrEmptySequence      = errors.New("empty protein sequence")
	ErrDuplicateAccession = errors.New("duplicate protein accession")
	ErrUnknownAccession   = errors.New("unknown protein accession")
)

// ConstructionError reports a failure of the sequence store while an index
// was being built. Accession is empty when the failure is not specific to
// one protein (e.g., listing the accessions failed).
type ConstructionError struct {
	Accession string
	Err       error
}

func (e *ConstructionError) Error() string {
	if e.Accession == "" {
		return fmt.Sprintf("could not build protein tree: %s", e.Err)
	}
	return fmt.Sprintf("could not build protein tree (protein '%s'): %s",
		e.Accession, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, v ...interface{}) error {
	return errors.Wrapf(ErrUsage, format, v...)
}
