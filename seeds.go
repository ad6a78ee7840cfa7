package proteintree

import (
	"sync"
)

// seedTags returns every indexed start position of residues, keyed by the
// tag starting there. Positions too close to the end to hold a full tag are
// never seeded. With an oracle, only position 0 and positions right after a
// cleavage site are seeded.
func seedTags(residues []byte, tagSize int, oracle CleavageOracle) map[string][]int {
	tags := make(map[string][]int)
	for i := 0; i+tagSize <= len(residues); i++ {
		if oracle != nil && i > 0 && !oracle.IsCleavageSite(residues[i-1], residues[i]) {
			continue
		}
		tag := string(residues[i : i+tagSize])
		tags[tag] = append(tags[tag], i)
	}
	return tags
}

// seedTable collects the root leaves of a tree while proteins are seeded
// concurrently. Every root leaf starts at a depth equal to the tag size.
type seedTable struct {
	tagSize int
	roots   map[string]*leafNode

	// Lock is used to make seedTable.Add thread safe.
	lock *sync.Mutex

	// The total number of seeds in the table.
	numSeeds int64
}

func newSeedTable(tagSize int) *seedTable {
	return &seedTable{
		tagSize: tagSize,
		roots:   make(map[string]*leafNode, 8000),
		lock:    &sync.Mutex{},
	}
}

// Add seeds one protein and merges its tags into the table. Seeding happens
// outside the lock; only the merge is serialized.
func (st *seedTable) Add(accession string, residues []byte, oracle CleavageOracle) int {
	tags := seedTags(residues, st.tagSize, oracle)

	seeded := 0
	st.lock.Lock()
	for tag, positions := range tags {
		root, ok := st.roots[tag]
		if !ok {
			root = newLeafNode(st.tagSize)
			st.roots[tag] = root
		}
		root.occs[accession] = append(root.occs[accession], positions...)
		seeded += len(positions)
	}
	st.numSeeds += int64(seeded)
	st.lock.Unlock()

	return seeded
}

func (st *seedTable) NumSeeds() int64 {
	st.lock.Lock()
	defer st.lock.Unlock()
	return st.numSeeds
}
