package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	})
}

func runStatus(cmd *cobra.Command, _ []string) error {
	h, err := NewClient(serverURL).Health()
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), h)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Server:  %s (%s)\n", serverURL, h.Status)
	fmt.Fprintf(cmd.OutOrStdout(), "Movies:  %d\n", h.Movies)
	return nil
}
