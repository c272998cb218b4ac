package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/movieapi/internal/movie"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "genres",
		Short: "List the accepted genres (local, no server needed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), movie.Genres())
			}
			for _, g := range movie.Genres() {
				fmt.Fprintln(cmd.OutOrStdout(), g)
			}
			return nil
		},
	})
}
