package proteintree

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Mapping maps protein accessions to the ascending start positions of a
// peptide in that protein. Accessions without a position are never present.
type Mapping map[string][]int

// Accessions returns the proteins of m in sorted order.
func (m Mapping) Accessions() []string {
	accs := make([]string, 0, len(m))
	for acc := range m {
		accs = append(accs, acc)
	}
	sort.Strings(accs)
	return accs
}

func (m Mapping) clone() Mapping {
	cpy := make(Mapping, len(m))
	for acc, positions := range m {
		cpy[acc] = append([]int(nil), positions...)
	}
	return cpy
}

func newMapping(occs occurrences) Mapping {
	m := make(Mapping, len(occs))
	for acc, positions := range occs {
		if len(positions) == 0 {
			continue
		}
		m[acc] = sortedUnique(append([]int(nil), positions...))
	}
	return m
}

// ID returns the identifier generated for the index when it was built.
func (idx *Index) ID() uuid.UUID {
	return idx.id
}

// Conf returns the parameters the index was built with.
func (idx *Index) Conf() IndexConf {
	return idx.conf
}

// TagSize returns the length of the shortest peptide that can be looked up.
func (idx *Index) TagSize() int {
	return idx.conf.InitialTagSize
}

// Oracle returns the cleavage oracle the index was built with, or nil.
func (idx *Index) Oracle() CleavageOracle {
	return idx.oracle
}

// Accessions returns the indexed proteins in sorted order. Together with
// Sequence, it makes an Index a SequenceProvider of the proteins it was
// built from.
func (idx *Index) Accessions() ([]string, error) {
	accs := make([]string, 0, len(idx.seqs))
	for acc := range idx.seqs {
		accs = append(accs, acc)
	}
	sort.Strings(accs)
	return accs, nil
}

func (idx *Index) Sequence(accession string) ([]byte, error) {
	residues, ok := idx.seqs[accession]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAccession, "'%s'", accession)
	}
	return residues, nil
}

// Lookup returns every indexed occurrence of peptide. Lower case residues
// are accepted. A peptide with no occurrence gets an empty mapping.
//
// Peptides shorter than the initial tag size cannot be looked up and produce
// an error wrapping ErrUsage.
func (idx *Index) Lookup(peptide string) (Mapping, error) {
	query := upperResidues([]byte(peptide))
	if len(query) < idx.conf.InitialTagSize {
		return nil, usageErrorf("peptide '%s' is shorter than the tag size %d",
			peptide, idx.conf.InitialTagSize)
	}
	key := string(query)

	if idx.cache != nil {
		if m, ok := idx.cache.get(key); ok {
			return m, nil
		}
	}

	m := Mapping{}
	if root, ok := idx.roots[key[:idx.conf.InitialTagSize]]; ok {
		m = newMapping(root.match(query, idx.seqs))
	}
	if idx.cache != nil {
		idx.cache.add(key, m)
	}
	return m, nil
}

// LookupIn returns the ascending start positions of peptide in the protein
// named by accession. A protein without the peptide gets an empty slice.
//
// It fails with an error wrapping ErrUnknownAccession when the protein is not
// indexed, and with one wrapping ErrUsage when Lookup would.
func (idx *Index) LookupIn(peptide, accession string) ([]int, error) {
	if _, ok := idx.seqs[accession]; !ok {
		return nil, errors.Wrapf(ErrUnknownAccession, "'%s'", accession)
	}
	m, err := idx.Lookup(peptide)
	if err != nil {
		return nil, err
	}
	positions := m[accession]
	if positions == nil {
		positions = []int{}
	}
	return positions, nil
}

// LookupAll looks up every peptide concurrently. The result is keyed by the
// peptides as given. The first usage error aborts the batch.
func (idx *Index) LookupAll(ctx context.Context, peptides []string) (map[string]Mapping, error) {
	results := make(map[string]Mapping, len(peptides))
	resultsLock := &sync.Mutex{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.conf.workers())
	for _, peptide := range peptides {
		peptide := peptide
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := idx.Lookup(peptide)
			if err != nil {
				return err
			}

			resultsLock.Lock()
			results[peptide] = m
			resultsLock.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
