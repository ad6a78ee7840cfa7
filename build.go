package proteintree

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Index maps peptide sequences to the proteins, and positions, containing
// them. An Index is immutable once Build returns it and is safe for
// concurrent lookups.
type Index struct {
	id     uuid.UUID
	conf   IndexConf
	oracle CleavageOracle

	// Root nodes keyed by tag.
	roots map[string]node

	// The residues of every indexed protein, as returned by the provider.
	seqs map[string][]byte

	cache *queryCache
}

// Build indexes every protein of provider.
//
// When oracle is not nil, only the first position of each protein and the
// positions right after a cleavage site are indexed; peptides starting
// anywhere else will not be found. progress may be nil.
//
// Build fails with an error wrapping ErrUsage when conf is invalid, with a
// *ConstructionError when the provider fails or returns an empty sequence,
// and with ErrCanceled when ctx is done or progress reports cancellation
// before the tree is complete. No partial index is ever returned.
func Build(ctx context.Context, provider SequenceProvider, conf IndexConf,
	oracle CleavageOracle, progress Progress) (*Index, error) {

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = noProgress{}
	}
	stager, _ := progress.(Stager)

	accessions, err := provider.Accessions()
	if err != nil {
		return nil, &ConstructionError{
			Err: errors.Wrap(err, "could not list protein accessions"),
		}
	}

	id := uuid.New()
	workers := conf.workers()
	Vprintf("Seeding %s proteins with tags of size %d (index %s, %d workers)...",
		humanize.Comma(int64(len(accessions))), conf.InitialTagSize, id, workers)
	timer := time.Now()

	if stager != nil {
		stager.Stage("Seeding proteins", len(accessions))
	}
	table := newSeedTable(conf.InitialTagSize)
	pool := startSeedWorkers(ctx, provider, table, oracle, progress, workers)
	for _, accession := range accessions {
		if !pool.seed(accession) {
			break
		}
	}
	if err := pool.done(); err != nil {
		return nil, err
	}
	Vprintf("Done seeding %s positions into %s tags (%s).",
		humanize.Comma(table.NumSeeds()), humanize.Comma(int64(len(table.roots))),
		time.Since(timer))

	if conf.MaxPeptideSize > 0 {
		Vprintf("Splitting nodes larger than %d, down to depth %d...",
			conf.MaxNodeSize, conf.MaxPeptideSize)
	} else {
		Vprintf("Splitting nodes larger than %d...", conf.MaxNodeSize)
	}
	timer = time.Now()
	if stager != nil {
		stager.Stage("Splitting nodes", len(table.roots))
	}
	roots, err := splitRoots(ctx, table.roots, pool.seqs, conf, progress)
	if err != nil {
		return nil, err
	}
	Vprintf("Done splitting nodes (%s).", time.Since(timer))

	idx := &Index{
		id:     id,
		conf:   conf,
		oracle: oracle,
		roots:  roots,
		seqs:   pool.seqs,
	}
	if conf.CacheSize > 0 {
		if idx.cache, err = newQueryCache(conf.CacheSize); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func canceled(ctx context.Context, progress Progress) bool {
	return ctx.Err() != nil || progress.Canceled()
}

// splitRoots splits every root leaf concurrently. Subtrees of different tags
// share no state, so each tag is an independent job.
func splitRoots(ctx context.Context, leaves map[string]*leafNode,
	seqs map[string][]byte, conf IndexConf,
	progress Progress) (map[string]node, error) {

	tags := make([]string, 0, len(leaves))
	for tag := range leaves {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	roots := make(map[string]node, len(leaves))
	rootsLock := &sync.Mutex{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(conf.workers())
	for _, tag := range tags {
		if canceled(gctx, progress) {
			break
		}
		tag, leaf := tag, leaves[tag]
		g.Go(func() error {
			if canceled(gctx, progress) {
				return ErrCanceled
			}
			root := leaf.split(conf.MaxNodeSize, conf.MaxPeptideSize, seqs)

			rootsLock.Lock()
			roots[tag] = root
			rootsLock.Unlock()

			progress.Tick()
			return nil
		})
	}
	err := g.Wait()
	if err == nil && canceled(ctx, progress) {
		err = ErrCanceled
	}
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// seedPool represents a pool of workers where each worker is responsible
// for seeding a single protein at a time.
type seedPool struct {
	ctx      context.Context
	provider SequenceProvider
	table    *seedTable
	oracle   CleavageOracle
	progress Progress

	jobs chan string
	wg   *sync.WaitGroup

	// quit is closed on the first failure so that seed stops queueing.
	quit    chan struct{}
	errOnce *sync.Once
	err     error

	seqLock *sync.Mutex
	seqs    map[string][]byte
}

// startSeedWorkers initializes a pool of seeding workers.
func startSeedWorkers(ctx context.Context, provider SequenceProvider,
	table *seedTable, oracle CleavageOracle, progress Progress,
	workers int) *seedPool {

	pool := &seedPool{
		ctx:      ctx,
		provider: provider,
		table:    table,
		oracle:   oracle,
		progress: progress,
		jobs:     make(chan string, 200),
		wg:       &sync.WaitGroup{},
		quit:     make(chan struct{}),
		errOnce:  &sync.Once{},
		seqLock:  &sync.Mutex{},
		seqs:     make(map[string][]byte, 1000),
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

// seed queues a protein. It returns false once the pool has failed, after
// which no more proteins should be queued.
func (pool *seedPool) seed(accession string) bool {
	select {
	case pool.jobs <- accession:
		return true
	case <-pool.quit:
		return false
	}
}

func (pool *seedPool) fail(err error) {
	pool.errOnce.Do(func() {
		pool.err = err
		close(pool.quit)
	})
}

func (pool *seedPool) failed() bool {
	select {
	case <-pool.quit:
		return true
	default:
		return false
	}
}

// worker is meant to be run as a goroutine. Jobs received after a failure
// are drained without being processed.
func (pool *seedPool) worker() {
	defer pool.wg.Done()
	for accession := range pool.jobs {
		if pool.failed() {
			continue
		}
		if canceled(pool.ctx, pool.progress) {
			pool.fail(ErrCanceled)
			continue
		}
		if err := pool.seedProtein(accession); err != nil {
			pool.fail(err)
			continue
		}
		pool.progress.Tick()
	}
}

func (pool *seedPool) seedProtein(accession string) error {
	residues, err := pool.provider.Sequence(accession)
	if err != nil {
		return &ConstructionError{Accession: accession, Err: err}
	}
	if len(residues) == 0 {
		return &ConstructionError{Accession: accession, Err: ErrEmptySequence}
	}

	pool.seqLock.Lock()
	_, dup := pool.seqs[accession]
	if !dup {
		pool.seqs[accession] = residues
	}
	pool.seqLock.Unlock()
	if dup {
		return &ConstructionError{Accession: accession, Err: ErrDuplicateAccession}
	}

	pool.table.Add(accession, residues, pool.oracle)
	return nil
}

// done 'joins' the worker goroutines and returns the first failure.
func (pool *seedPool) done() error {
	close(pool.jobs)
	pool.wg.Wait()
	if pool.err == nil && canceled(pool.ctx, pool.progress) {
		return ErrCanceled
	}
	return pool.err
}
