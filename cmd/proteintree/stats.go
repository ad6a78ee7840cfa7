package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the shape of the index built from --fasta",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := buildIndex(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "index %s\n", idx.ID())
		return idx.Stats().Write(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
