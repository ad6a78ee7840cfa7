package proteintree

import (
	"fmt"
	"sort"
)

// Walk calls fn for every node of the tree that holds occurrences, in
// alphabetical order of the node's path. path is the residue sequence
// leading to the node and m holds the occurrences kept at that node:
// every one of them starts with path. Walk stops as soon as fn returns
// false.
//
// Each path is visited at most once. The occurrences ending exactly at a
// branch are visited under the branch's path, before any of its children.
func (idx *Index) Walk(fn func(path string, m Mapping) bool) {
	tags := make([]string, 0, len(idx.roots))
	for tag := range idx.roots {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		if !walkNode(idx.roots[tag], tag, fn) {
			return
		}
	}
}

func walkNode(n node, path string, fn func(string, Mapping) bool) bool {
	switch n := n.(type) {
	case *leafNode:
		return fn(path, newMapping(n.occs))
	case *branchNode:
		if n.termini.size() > 0 {
			if !fn(path, newMapping(n.termini)) {
				return false
			}
		}
		residues := make([]byte, 0, len(n.children))
		for aa := range n.children {
			residues = append(residues, aa)
		}
		sort.Slice(residues, func(i, j int) bool {
			return residues[i] < residues[j]
		})
		for _, aa := range residues {
			if !walkNode(n.children[aa], path+string(aa), fn) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("unknown node type %T", n))
	}
}
