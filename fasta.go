package proteintree

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/seq"
	"github.com/pkg/errors"
)

// ReadProtein is the value sent over `chan ReadProtein` when a new protein
// is read from a FASTA file.
type ReadProtein struct {
	Accession string
	Residues  []byte
	Err       error
}

// ReadProteins reads FASTA formatted proteins from r and returns a channel
// that each protein is sent to. Residues found in 'ignore' are replaced
// with 'X'. The channel is closed after the last protein or after the first
// error. The caller must read the channel until it is closed; use
// ReadProteinsContext to stop early.
func ReadProteins(r io.Reader, ignore []byte) <-chan ReadProtein {
	return ReadProteinsContext(context.Background(), r, ignore)
}

// ReadProteinsContext is ReadProteins with a way out: once ctx is done the
// reading goroutine stops and closes the channel without sending the rest.
func ReadProteinsContext(ctx context.Context, r io.Reader,
	ignore []byte) <-chan ReadProtein {

	reader := fasta.NewReader(r)
	protChan := make(chan ReadProtein, 200)
	go func() {
		defer close(protChan)
		send := func(prot ReadProtein) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case protChan <- prot:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for {
			s, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				send(ReadProtein{Err: err})
				break
			}
			residues := upperResidues(bytes.TrimRight(s.Bytes(), "*"))
			for i, residue := range residues {
				if bytes.IndexByte(ignore, residue) > -1 {
					residues[i] = 'X'
				}
			}
			if !send(ReadProtein{Accession: Accession(s.Name), Residues: residues}) {
				break
			}
		}
	}()
	return protChan
}

// ReadFastaSequences loads every protein of a FASTA stream into memory.
func ReadFastaSequences(r io.Reader, ignore []byte) (*MemorySequences, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ms := NewMemorySequences()
	for prot := range ReadProteinsContext(ctx, r, ignore) {
		if prot.Err != nil {
			return nil, errors.Wrap(prot.Err, "could not read FASTA")
		}
		if err := ms.Add(prot.Accession, prot.Residues); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

// NewFastaSequences loads the FASTA file at fileName into memory.
func NewFastaSequences(fileName string, ignore []byte) (*MemorySequences, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open '%s'", fileName)
	}
	defer f.Close()

	Vprintf("Reading %s...", fileName)
	ms, err := ReadFastaSequences(f, ignore)
	if err != nil {
		return nil, errors.Wrapf(err, "'%s'", fileName)
	}
	Vprintf("Done reading %s (%d proteins).", fileName, ms.Len())
	return ms, nil
}

// Accession extracts the protein accession from a FASTA header. UniProt
// style headers (sp|P02768|ALBU_HUMAN ...) yield their second field;
// anything else yields its first whitespace delimited token.
func Accession(header string) string {
	header = strings.TrimSpace(strings.TrimPrefix(header, ">"))
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	id := fields[0]
	if parts := strings.Split(id, "|"); len(parts) >= 3 && parts[1] != "" {
		return parts[1]
	}
	return id
}

// WriteFasta writes the proteins named by accessions, in that order, to w.
// When accessions is nil every protein of provider is written.
func WriteFasta(w io.Writer, provider SequenceProvider, accessions []string) error {
	if accessions == nil {
		var err error
		if accessions, err = provider.Accessions(); err != nil {
			return err
		}
	}

	writer := fasta.NewWriter(w)
	for _, acc := range accessions {
		residues, err := provider.Sequence(acc)
		if err != nil {
			return err
		}
		if err := writer.Write(seq.NewSequenceString(acc, string(residues))); err != nil {
			return errors.Wrapf(err, "could not write protein '%s'", acc)
		}
	}
	return writer.Flush()
}
