package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ndaniels/proteintree"
)

var peptidesCmd = &cobra.Command{
	Use:   "peptides",
	Short: "List the node paths of the index in alphabetical order",
	Long: `
Index the --fasta database and print every path of the tree that holds
occurrences, in alphabetical order, with the number of proteins and of
occurrences found there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := buildIndex(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		idx.Walk(func(path string, m proteintree.Mapping) bool {
			n := 0
			for _, positions := range m {
				n += len(positions)
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\n", path, len(m), n)
			return true
		})
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(peptidesCmd)
}
