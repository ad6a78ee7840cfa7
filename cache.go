package proteintree

import (
	"github.com/pkg/errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// queryCache remembers the most recent lookups of an index. Mappings are
// copied in both directions so callers never share slices with the cache.
type queryCache struct {
	lru *lru.Cache[string, Mapping]
}

func newQueryCache(size int) (*queryCache, error) {
	c, err := lru.New[string, Mapping](size)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create a query cache of size %d", size)
	}
	return &queryCache{lru: c}, nil
}

func (qc *queryCache) get(peptide string) (Mapping, bool) {
	m, ok := qc.lru.Get(peptide)
	if !ok {
		return nil, false
	}
	return m.clone(), true
}

func (qc *queryCache) add(peptide string, m Mapping) {
	qc.lru.Add(peptide, m.clone())
}

func (qc *queryCache) Len() int {
	return qc.lru.Len()
}
