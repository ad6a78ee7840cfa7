package proteintree

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConstructionError(t *testing.T) {
	err := error(&ConstructionError{Accession: "P1", Err: ErrEmptySequence})
	assert.Equal(t,
		"could not build protein tree (protein 'P1'): empty protein sequence",
		err.Error())
	assert.ErrorIs(t, err, ErrEmptySequence)

	err = &ConstructionError{Err: errors.Wrap(ErrUnknownAccession, "listing")}
	assert.Equal(t,
		"could not build protein tree: listing: unknown protein accession",
		err.Error())
	assert.ErrorIs(t, err, ErrUnknownAccession)
}

func TestUsageError(t *testing.T) {
	err := usageErrorf("peptide '%s' is too short", "MK")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Equal(t, "peptide 'MK' is too short: invalid usage of the protein tree",
		err.Error())
}

func TestVprintf(t *testing.T) {
	buf := new(bytes.Buffer)
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"}),
		zapcore.AddSync(buf), zapcore.InfoLevel)
	SetLogger(zap.New(core).Sugar())
	defer SetLogger(nil)

	Vprintf("seeded %d proteins", 3)
	assert.Zero(t, buf.Len())

	Verbose = true
	defer func() { Verbose = false }()
	Vprintf("seeded %d proteins", 3)
	Vprintln("done")
	assert.Equal(t, "seeded 3 proteins\ndone\n", buf.String())
}
