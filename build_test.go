package proteintree

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memDB(t *testing.T, proteins ...string) *MemorySequences {
	t.Helper()
	require.Zero(t, len(proteins)%2, "proteins must be accession/residue pairs")

	ms := NewMemorySequences()
	for i := 0; i < len(proteins); i += 2 {
		require.NoError(t, ms.Add(proteins[i], []byte(proteins[i+1])))
	}
	return ms
}

func testConf(tagSize, maxNodeSize int) IndexConf {
	conf := DefaultIndexConf
	conf.InitialTagSize = tagSize
	conf.MaxNodeSize = maxNodeSize
	conf.CacheSize = 0
	return conf
}

func mustBuild(t *testing.T, db SequenceProvider, conf IndexConf,
	oracle CleavageOracle) *Index {
	t.Helper()
	idx, err := Build(context.Background(), db, conf, oracle, nil)
	require.NoError(t, err)
	require.NotNil(t, idx)
	return idx
}

// stubProvider lets tests control exactly what the store reports.
type stubProvider struct {
	accessions []string
	seqs       map[string]string
	listErr    error
	seqErr     error
}

func (sp *stubProvider) Accessions() ([]string, error) {
	return sp.accessions, sp.listErr
}

func (sp *stubProvider) Sequence(accession string) ([]byte, error) {
	if sp.seqErr != nil {
		return nil, sp.seqErr
	}
	return []byte(sp.seqs[accession]), nil
}

// cancelAfter reports cancellation once it has seen n ticks.
type cancelAfter struct {
	n     int32
	ticks int32
}

func (c *cancelAfter) Tick() {
	atomic.AddInt32(&c.ticks, 1)
}

func (c *cancelAfter) Canceled() bool {
	return atomic.LoadInt32(&c.ticks) >= c.n
}

func TestLookupScenario(t *testing.T) {
	idx := mustBuild(t, memDB(t, "P1", "MKWVTFISLL"), testConf(3, 100), nil)

	type test struct {
		peptide string
		want    Mapping
	}
	tests := []test{
		{"MKW", Mapping{"P1": {0}}},
		{"FIS", Mapping{"P1": {5}}},
		{"XXX", Mapping{}},
		{"MKWVTFISLL", Mapping{"P1": {0}}},
		{"ISLL", Mapping{"P1": {6}}},
		{"ISLLA", Mapping{}},
	}
	for _, test := range tests {
		got, err := idx.Lookup(test.peptide)
		require.NoError(t, err, test.peptide)
		assert.Equal(t, test.want, got, test.peptide)
	}

	_, err := idx.Lookup("MK")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = idx.Lookup("")
	assert.ErrorIs(t, err, ErrUsage)

	// Invalid UTF-8 is not expanded before the length check.
	_, err = idx.Lookup("\xff\xff")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestBuildInvalidConf(t *testing.T) {
	db := memDB(t, "P1", "MKWVTFISLL")

	type test struct {
		name string
		conf IndexConf
	}
	tests := []test{
		{"zero tag size", testConf(0, 100)},
		{"negative tag size", testConf(-3, 100)},
		{"zero max node size", testConf(3, 0)},
		{"negative workers", IndexConf{InitialTagSize: 3, MaxNodeSize: 10, Workers: -1}},
		{"negative cache", IndexConf{InitialTagSize: 3, MaxNodeSize: 10, CacheSize: -1}},
		{"negative max peptide size", peptideConf(3, 10, -1)},
		{"max peptide size below tag size", peptideConf(3, 10, 2)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			idx, err := Build(context.Background(), db, test.conf, nil, nil)
			assert.Nil(t, idx)
			assert.ErrorIs(t, err, ErrUsage)
		})
	}
}

func TestBuildConstructionErrors(t *testing.T) {
	ioErr := errors.New("disk on fire")

	type test struct {
		name      string
		provider  SequenceProvider
		accession string
		cause     error
	}
	tests := []test{
		{
			"empty sequence",
			memDB(t, "P1", "MKWVTFISLL", "P2", ""),
			"P2",
			ErrEmptySequence,
		},
		{
			"sequence error",
			&stubProvider{accessions: []string{"P1"}, seqErr: ioErr},
			"P1",
			ioErr,
		},
		{
			"listing error",
			&stubProvider{listErr: ioErr},
			"",
			ioErr,
		},
		{
			"duplicate accession",
			&stubProvider{
				accessions: []string{"P1", "P1"},
				seqs:       map[string]string{"P1": "MKWVTFISLL"},
			},
			"P1",
			ErrDuplicateAccession,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			idx, err := Build(context.Background(), test.provider,
				testConf(3, 100), nil, nil)
			assert.Nil(t, idx)

			var cerr *ConstructionError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, test.accession, cerr.Accession)
			assert.ErrorIs(t, err, test.cause)
			assert.NotErrorIs(t, err, ErrCanceled)
		})
	}
}

func TestBuildCanceled(t *testing.T) {
	proteins := make([]string, 0, 40)
	for _, acc := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
		proteins = append(proteins, acc, "MKWVTFISLLFLFSSAYS")
	}
	db := memDB(t, proteins...)

	t.Run("context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		idx, err := Build(ctx, db, testConf(3, 2), nil, nil)
		assert.Nil(t, idx)
		assert.ErrorIs(t, err, ErrCanceled)
	})
	t.Run("progress bar", func(t *testing.T) {
		bar := &ProgressBar{}
		bar.Cancel()
		idx, err := Build(context.Background(), db, testConf(3, 2), nil, bar)
		assert.Nil(t, idx)
		assert.ErrorIs(t, err, ErrCanceled)
	})
	t.Run("while seeding", func(t *testing.T) {
		conf := testConf(3, 2)
		conf.Workers = 1
		idx, err := Build(context.Background(), db, conf, nil, &cancelAfter{n: 2})
		assert.Nil(t, idx)
		assert.ErrorIs(t, err, ErrCanceled)
	})
	t.Run("while splitting", func(t *testing.T) {
		conf := testConf(3, 2)
		conf.Workers = 1
		idx, err := Build(context.Background(), db, conf, nil, &cancelAfter{n: 12})
		assert.Nil(t, idx)
		assert.ErrorIs(t, err, ErrCanceled)
	})
}

func TestBuildStages(t *testing.T) {
	db := memDB(t, "P1", "MKWVTFISLL", "P2", "MKWAAA")
	bar := &ProgressBar{}
	idx := mustBuildWith(t, db, testConf(3, 100), bar)

	assert.Equal(t, "Splitting nodes", bar.Label)
	assert.Equal(t, uint64(len(idx.roots)), bar.Total)
	assert.Equal(t, bar.Total, bar.Current)
}

func mustBuildWith(t *testing.T, db SequenceProvider, conf IndexConf,
	progress Progress) *Index {
	t.Helper()
	idx, err := Build(context.Background(), db, conf, nil, progress)
	require.NoError(t, err)
	return idx
}

func TestBuildIdempotent(t *testing.T) {
	db := randomDB(t, 7, 30, "AKPRW")

	serial := testConf(2, 2)
	serial.Workers = 1
	parallel := testConf(2, 2)
	parallel.Workers = 8

	idx1 := mustBuild(t, db, serial, nil)
	idx2 := mustBuild(t, db, parallel, nil)
	assert.NotEqual(t, idx1.ID(), idx2.ID())
	assert.Equal(t, idx1.Stats(), idx2.Stats())

	for _, peptide := range allSubstrings(t, db, 2, 6) {
		m1, err := idx1.Lookup(peptide)
		require.NoError(t, err)
		m2, err := idx2.Lookup(peptide)
		require.NoError(t, err)
		require.Equal(t, m1, m2, peptide)
	}
}
