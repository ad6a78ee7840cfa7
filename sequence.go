package proteintree

import (
	"sync"

	"github.com/pkg/errors"
)

// SequenceProvider is the protein database an index is built from.
//
// Implementations must be safe for concurrent use and must return the same
// residues for an accession for as long as an index built from them is in
// use. The index keeps references to the returned slices and never modifies
// them.
type SequenceProvider interface {
	Accessions() ([]string, error)
	Sequence(accession string) ([]byte, error)
}

// MemorySequences is a SequenceProvider holding every protein in memory.
// Accessions are reported in insertion order.
type MemorySequences struct {
	order []string
	seqs  map[string][]byte

	// Ensures that adding a sequence is atomic.
	seqLock *sync.RWMutex
}

func NewMemorySequences() *MemorySequences {
	return &MemorySequences{
		order:   make([]string, 0, 1000),
		seqs:    make(map[string][]byte, 1000),
		seqLock: &sync.RWMutex{},
	}
}

// Add stores an upper cased copy of residues under accession.
// Empty sequences are accepted here; Build rejects them.
func (ms *MemorySequences) Add(accession string, residues []byte) error {
	if accession == "" {
		return errors.New("a protein accession cannot be empty")
	}
	cpy := upperResidues(residues)

	ms.seqLock.Lock()
	defer ms.seqLock.Unlock()

	if _, ok := ms.seqs[accession]; ok {
		return errors.Wrapf(ErrDuplicateAccession, "'%s'", accession)
	}
	ms.order = append(ms.order, accession)
	ms.seqs[accession] = cpy
	return nil
}

func (ms *MemorySequences) Accessions() ([]string, error) {
	ms.seqLock.RLock()
	defer ms.seqLock.RUnlock()

	accs := make([]string, len(ms.order))
	copy(accs, ms.order)
	return accs, nil
}

func (ms *MemorySequences) Sequence(accession string) ([]byte, error) {
	ms.seqLock.RLock()
	residues, ok := ms.seqs[accession]
	ms.seqLock.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownAccession, "'%s'", accession)
	}
	return residues, nil
}

// Len returns the number of proteins in the store.
func (ms *MemorySequences) Len() int {
	ms.seqLock.RLock()
	defer ms.seqLock.RUnlock()
	return len(ms.order)
}

// upperResidues returns a copy of residues with ASCII letters upper cased.
// Every other byte is kept as is, so positions never shift.
func upperResidues(residues []byte) []byte {
	cpy := make([]byte, len(residues))
	for i, b := range residues {
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		cpy[i] = b
	}
	return cpy
}
