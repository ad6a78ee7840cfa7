package proteintree

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIndexConf(t *testing.T) {
	conf, err := LoadIndexConf(strings.NewReader(`
initial-tag-size: 4
max-node-size: 50
`))
	require.NoError(t, err)
	assert.Equal(t, IndexConf{
		InitialTagSize: 4,
		MaxNodeSize:    50,
		Workers:        DefaultIndexConf.Workers,
		CacheSize:      DefaultIndexConf.CacheSize,
	}, conf)

	conf, err = LoadIndexConf(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultIndexConf, conf)

	_, err = LoadIndexConf(strings.NewReader("max-node-size: 0"))
	assert.ErrorIs(t, err, ErrUsage)

	conf, err = LoadIndexConf(strings.NewReader("max-peptide-size: 30"))
	require.NoError(t, err)
	assert.Equal(t, 30, conf.MaxPeptideSize)

	_, err = LoadIndexConf(strings.NewReader("max-peptide-size: 2"))
	assert.ErrorIs(t, err, ErrUsage)

	_, err = LoadIndexConf(strings.NewReader("max-node-size: [1, 2]"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUsage)
}

func TestIndexConfRoundTrip(t *testing.T) {
	want := IndexConf{InitialTagSize: 5, MaxNodeSize: 7, MaxPeptideSize: 40,
		Workers: 3, CacheSize: 0}

	buf := new(bytes.Buffer)
	require.NoError(t, want.Write(buf))
	assert.Contains(t, buf.String(), "initial-tag-size: 5")

	got, err := LoadIndexConf(buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIndexConfWorkers(t *testing.T) {
	assert.Equal(t, 6, IndexConf{Workers: 6}.workers())
	assert.Equal(t, max(1, runtime.GOMAXPROCS(0)), IndexConf{}.workers())
}
