package proteintree

import (
	"bytes"
	"sort"
)

// occurrences maps a protein accession to start positions in that protein.
type occurrences map[string][]int

func (o occurrences) size() int {
	n := 0
	for _, positions := range o {
		n += len(positions)
	}
	return n
}

// addTo appends every occurrence of o to dst.
func (o occurrences) addTo(dst occurrences) {
	for acc, positions := range o {
		dst[acc] = append(dst[acc], positions...)
	}
}

// node is either a *leafNode or a *branchNode. Every occurrence reachable
// from a node at depth d starts with the d residues of the path leading to
// that node.
type node interface {
	depth() int

	// collect adds every occurrence under the node to dst.
	collect(dst occurrences)

	// match returns the occurrences of peptide under the node. The first
	// depth() residues of peptide are known to match already.
	match(peptide []byte, seqs map[string][]byte) occurrences
}

// leafNode holds occurrences directly. A leaf holds at most the maximum
// node size occurrences unless none of them could be extended past depth or
// it sits at the maximum peptide size.
type leafNode struct {
	d    int
	occs occurrences
}

// branchNode refines its occurrences by the residue found at depth.
// Occurrences ending exactly at depth cannot be refined and are kept in
// termini.
type branchNode struct {
	d        int
	children map[byte]node
	termini  occurrences
}

func newLeafNode(depth int) *leafNode {
	return &leafNode{d: depth, occs: make(occurrences)}
}

func (l *leafNode) depth() int {
	return l.d
}

func (l *leafNode) collect(dst occurrences) {
	l.occs.addTo(dst)
}

func (l *leafNode) match(peptide []byte, seqs map[string][]byte) occurrences {
	found := make(occurrences)
	if l.d == len(peptide) {
		l.collect(found)
		return found
	}
	for acc, positions := range l.occs {
		residues := seqs[acc]
		for _, pos := range positions {
			end := pos + len(peptide)
			if end <= len(residues) && bytes.Equal(residues[pos:end], peptide) {
				found[acc] = append(found[acc], pos)
			}
		}
	}
	return found
}

// split returns the node replacing l once every node under it holds at most
// maxNodeSize occurrences. l itself is returned when it is small enough,
// when it is maxPeptideSize deep (if that is not zero) or when none of its
// occurrences extend past its depth.
func (l *leafNode) split(maxNodeSize, maxPeptideSize int,
	seqs map[string][]byte) node {

	if l.occs.size() <= maxNodeSize {
		return l
	}
	if maxPeptideSize > 0 && l.d >= maxPeptideSize {
		return l
	}

	children := make(map[byte]*leafNode)
	var termini occurrences
	for acc, positions := range l.occs {
		residues := seqs[acc]
		for _, pos := range positions {
			next := pos + l.d
			if next >= len(residues) {
				if termini == nil {
					termini = make(occurrences)
				}
				termini[acc] = append(termini[acc], pos)
				continue
			}
			aa := residues[next]
			child, ok := children[aa]
			if !ok {
				child = newLeafNode(l.d + 1)
				children[aa] = child
			}
			child.occs[acc] = append(child.occs[acc], pos)
		}
	}
	if len(children) == 0 {
		return l
	}

	br := &branchNode{
		d:        l.d,
		children: make(map[byte]node, len(children)),
		termini:  termini,
	}
	for aa, child := range children {
		br.children[aa] = child.split(maxNodeSize, maxPeptideSize, seqs)
	}
	return br
}

func (br *branchNode) depth() int {
	return br.d
}

func (br *branchNode) collect(dst occurrences) {
	for _, child := range br.children {
		child.collect(dst)
	}
	br.termini.addTo(dst)
}

func (br *branchNode) match(peptide []byte, seqs map[string][]byte) occurrences {
	if br.d == len(peptide) {
		found := make(occurrences)
		br.collect(found)
		return found
	}
	child, ok := br.children[peptide[br.d]]
	if !ok {
		return nil
	}
	return child.match(peptide, seqs)
}

// sortedUnique sorts positions in place and drops repeated values.
func sortedUnique(positions []int) []int {
	sort.Ints(positions)
	uniq := positions[:0]
	for _, pos := range positions {
		if len(uniq) == 0 || pos != uniq[len(uniq)-1] {
			uniq = append(uniq, pos)
		}
	}
	return uniq
}
