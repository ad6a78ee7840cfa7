package proteintree

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// Stats describes the shape of a built index.
type Stats struct {
	Accessions  int
	Tags        int
	Leaves      int
	Branches    int
	Occurrences int64

	// Leaves holding more than the maximum node size occurrences because
	// none of them could be extended or they reached the maximum peptide
	// size.
	OversizedLeaves int

	MaxDepth int
}

func (idx *Index) Stats() Stats {
	st := Stats{
		Accessions: len(idx.seqs),
		Tags:       len(idx.roots),
	}
	for _, root := range idx.roots {
		st.walk(root, idx.conf.MaxNodeSize)
	}
	return st
}

func (st *Stats) walk(n node, maxNodeSize int) {
	st.MaxDepth = max(st.MaxDepth, n.depth())
	switch n := n.(type) {
	case *leafNode:
		size := n.occs.size()
		st.Leaves++
		st.Occurrences += int64(size)
		if size > maxNodeSize {
			st.OversizedLeaves++
		}
	case *branchNode:
		st.Branches++
		st.Occurrences += int64(n.termini.size())
		for _, child := range n.children {
			st.walk(child, maxNodeSize)
		}
	default:
		panic(fmt.Sprintf("unknown node type %T", n))
	}
}

// Write prints st as a two column table.
func (st Stats) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		value int64
	}{
		{"proteins", int64(st.Accessions)},
		{"tags", int64(st.Tags)},
		{"leaves", int64(st.Leaves)},
		{"oversized leaves", int64(st.OversizedLeaves)},
		{"branches", int64(st.Branches)},
		{"occurrences", st.Occurrences},
		{"max depth", int64(st.MaxDepth)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.label, humanize.Comma(row.value))
	}
	return tw.Flush()
}
