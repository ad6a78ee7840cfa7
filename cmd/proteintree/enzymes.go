package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndaniels/proteintree"
)

// enzymesCmd lists the enzymes --enzyme accepts
var enzymesCmd = &cobra.Command{
	Use:   "enzymes",
	Short: "List the known enzymes",
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := extraEnzymes()
		if err != nil {
			return err
		}
		for _, e := range append(proteintree.Enzymes(), extra...) {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enzymesCmd)
}
