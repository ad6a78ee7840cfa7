package proteintree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySequences(t *testing.T) {
	ms := NewMemorySequences()
	require.NoError(t, ms.Add("P2", []byte("mkw")))
	require.NoError(t, ms.Add("P1", []byte("AAK")))
	require.NoError(t, ms.Add("P3", nil))

	accs, err := ms.Accessions()
	require.NoError(t, err)
	assert.Equal(t, []string{"P2", "P1", "P3"}, accs)
	assert.Equal(t, 3, ms.Len())

	residues, err := ms.Sequence("P2")
	require.NoError(t, err)
	assert.Equal(t, "MKW", string(residues))

	_, err = ms.Sequence("P4")
	assert.ErrorIs(t, err, ErrUnknownAccession)

	assert.ErrorIs(t, ms.Add("P1", []byte("GGG")), ErrDuplicateAccession)
	assert.Error(t, ms.Add("", []byte("GGG")))

	// The accession list is a copy.
	accs[0] = "changed"
	again, err := ms.Accessions()
	require.NoError(t, err)
	assert.Equal(t, "P2", again[0])
}

func TestMemorySequencesCopiesInput(t *testing.T) {
	ms := NewMemorySequences()
	input := []byte("MKW")
	require.NoError(t, ms.Add("P1", input))
	input[0] = 'A'

	residues, err := ms.Sequence("P1")
	require.NoError(t, err)
	assert.Equal(t, "MKW", string(residues))
}

func TestUpperResidues(t *testing.T) {
	type test struct {
		residues, want string
	}
	tests := []test{
		{"mkw", "MKW"},
		{"MkW", "MKW"},
		{"", ""},
		{"\xffmkw", "\xffMKW"},
		{"m\xc3\xa9k", "M\xc3\xa9K"},
		{"a*z[", "A*Z["},
	}
	for _, test := range tests {
		got := upperResidues([]byte(test.residues))
		assert.Equal(t, test.want, string(got), test.residues)
		assert.Len(t, got, len(test.residues))
	}
}
