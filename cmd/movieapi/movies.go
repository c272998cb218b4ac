package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/movieapi/internal/movie"
)

func init() {
	moviesCmd := &cobra.Command{
		Use:   "movies",
		Short: "Manage movies on a running server",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List movies",
		Args:  cobra.NoArgs,
		RunE:  runMoviesList,
	}
	listCmd.Flags().StringP("genre", "g", "", "Filter by genre (case-insensitive)")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a movie",
		Args:  cobra.ExactArgs(1),
		RunE:  runMoviesGet,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a movie from a JSON document",
		Long:  "Reads a JSON movie document from --file (use - for stdin) and posts it to the server.",
		Args:  cobra.NoArgs,
		RunE:  runMoviesCreate,
	}
	createCmd.Flags().StringP("file", "f", "", "JSON document path, or - for stdin")
	_ = createCmd.MarkFlagRequired("file")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Partially update a movie from a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE:  runMoviesUpdate,
	}
	updateCmd.Flags().StringP("file", "f", "", "JSON document path, or - for stdin")
	_ = updateCmd.MarkFlagRequired("file")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a movie",
		Args:  cobra.ExactArgs(1),
		RunE:  runMoviesDelete,
	}

	moviesCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd)
	rootCmd.AddCommand(moviesCmd)
}

func runMoviesList(cmd *cobra.Command, _ []string) error {
	genre, _ := cmd.Flags().GetString("genre")

	movies, err := NewClient(serverURL).ListMovies(genre)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), movies)
	}
	printMoviesHuman(cmd.OutOrStdout(), movies)
	return nil
}

func runMoviesGet(cmd *cobra.Command, args []string) error {
	m, err := NewClient(serverURL).GetMovie(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), m)
	}
	printMovieHuman(cmd.OutOrStdout(), m)
	return nil
}

func runMoviesCreate(cmd *cobra.Command, _ []string) error {
	body, err := readDocument(cmd)
	if err != nil {
		return err
	}

	m, err := NewClient(serverURL).CreateMovie(body)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), m)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", m.Title, m.ID)
	return nil
}

func runMoviesUpdate(cmd *cobra.Command, args []string) error {
	body, err := readDocument(cmd)
	if err != nil {
		return err
	}

	m, err := NewClient(serverURL).UpdateMovie(args[0], body)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), m)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", m.Title, m.ID)
	return nil
}

func runMoviesDelete(cmd *cobra.Command, args []string) error {
	if err := NewClient(serverURL).DeleteMovie(args[0]); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

// readDocument reads the --file argument, with "-" meaning stdin.
func readDocument(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMoviesHuman(w io.Writer, movies []movie.Movie) {
	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found")
		return
	}

	fmt.Fprintf(w, "Movies (%d):\n\n", len(movies))
	fmt.Fprintf(w, "  %-36s │ %-32s │ %-4s │ %-4s │ %s\n", "ID", "TITLE", "YEAR", "RATE", "GENRE")
	fmt.Fprintln(w, "──────────────────────────────────────┼──────────────────────────────────┼──────┼──────┼──────────")

	for _, m := range movies {
		title := truncate(m.Title, 32)
		fmt.Fprintf(w, "  %-36s │ %-32s │ %-4d │ %-4.1f │ %s\n", m.ID, title, m.Year, m.Rate, strings.Join(m.Genre, ", "))
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printMovieHuman(w io.Writer, m *movie.Movie) {
	fmt.Fprintf(w, "%s (%d)\n", m.Title, m.Year)
	fmt.Fprintf(w, "  ID:        %s\n", m.ID)
	fmt.Fprintf(w, "  Director:  %s\n", m.Director)
	fmt.Fprintf(w, "  Duration:  %d min\n", m.Duration)
	fmt.Fprintf(w, "  Genre:     %s\n", strings.Join(m.Genre, ", "))
	fmt.Fprintf(w, "  Rate:      %.1f\n", m.Rate)
	fmt.Fprintf(w, "  Poster:    %s\n", m.Poster)
}
