package main

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ndaniels/proteintree"
)

var (
	flagPeptides = ""
	flagMatches  = ""
	flagProtein  = ""
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [peptide] ... [peptideN]",
	Short: "Find the proteins containing peptides",
	Long: `
Index the --fasta database and print, as YAML, every protein and start
position of each peptide. Peptides are read from the arguments and from
--peptides, one per line. With --protein, only the positions in that
protein are printed.`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVar(&flagPeptides, "peptides", flagPeptides,
		"A file with one peptide per line.")
	lookupCmd.Flags().StringVar(&flagMatches, "matches", flagMatches,
		"When set, every protein matching a peptide is written to this\n"+
			"\tFASTA file.")
	lookupCmd.Flags().StringVar(&flagProtein, "protein", flagProtein,
		"When set, only this protein accession is searched.")
}

func runLookup(cmd *cobra.Command, args []string) error {
	peptides := append([]string(nil), args...)
	if flagPeptides != "" {
		more, err := readPeptides(flagPeptides)
		if err != nil {
			return err
		}
		peptides = append(peptides, more...)
	}
	if len(peptides) == 0 {
		return errors.New("no peptides to look up")
	}

	idx, err := buildIndex(cmd.Context())
	if err != nil {
		return err
	}
	if flagProtein != "" {
		return lookupIn(cmd, idx, peptides)
	}
	results, err := idx.LookupAll(cmd.Context(), peptides)
	if err != nil {
		return err
	}

	if flagMatches != "" {
		if err := writeMatches(flagMatches, idx, results); err != nil {
			return err
		}
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(results); err != nil {
		return errors.Wrap(err, "could not write results")
	}
	return enc.Close()
}

// lookupIn prints the positions of each peptide in the --protein protein.
func lookupIn(cmd *cobra.Command, idx *proteintree.Index, peptides []string) error {
	results := make(map[string][]int, len(peptides))
	for _, peptide := range peptides {
		positions, err := idx.LookupIn(peptide, flagProtein)
		if err != nil {
			return err
		}
		results[peptide] = positions
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(results); err != nil {
		return errors.Wrap(err, "could not write results")
	}
	return enc.Close()
}

func writeMatches(fileName string, idx *proteintree.Index,
	results map[string]proteintree.Mapping) error {

	seen := make(map[string]bool)
	var accs []string
	for _, m := range results {
		for _, acc := range m.Accessions() {
			if !seen[acc] {
				seen[acc] = true
				accs = append(accs, acc)
			}
		}
	}
	sort.Strings(accs)

	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "could not create '%s'", fileName)
	}
	defer f.Close()
	return proteintree.WriteFasta(f, idx, accs)
}

func readPeptides(fileName string) ([]string, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open '%s'", fileName)
	}
	defer f.Close()

	var peptides []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		peptides = append(peptides, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "could not read '%s'", fileName)
	}
	return peptides, nil
}
