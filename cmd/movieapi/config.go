package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/movieapi/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, field values and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Long: `Writes the commented example configuration to path (default config.toml).

With --from-current the effective configuration is written instead: the file
named by --config (or the discovered one, or built-in defaults) with
environment substitution and the PORT override applied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	configInitCmd.Flags().Bool("from-current", false, "Write the effective configuration instead of the example")
	configInitCmd.Flags().StringP("config", "c", "", "Source config for --from-current (default: discovered)")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := "config.toml"
	if len(args) > 0 {
		path = args[0]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.Error
		if errors.As(err, &configErr) {
			printConfigErrors(cmd, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(cmd, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "config.toml"
	if len(args) > 0 {
		path = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	fromCurrent, _ := cmd.Flags().GetBool("from-current")
	if !fromCurrent {
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	}

	source, _ := cmd.Flags().GetString("config")
	cfg, resolved, err := config.Resolve(source)
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}
	if resolved == "" {
		resolved = "built-in defaults"
	}
	if err := cfg.Write(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (from %s)\n", path, resolved)
	return nil
}

func printConfigErrors(cmd *cobra.Command, e *config.Error) {
	out := cmd.OutOrStdout()
	if len(e.Missing) > 0 {
		fmt.Fprintln(out, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(out, "  - %s\n", m)
		}
		fmt.Fprintln(out)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(out, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(out, "  - %s\n", err)
		}
		fmt.Fprintln(out)
	}
}

func printConfigSummary(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration Summary:")
	fmt.Fprintf(out, "  Server:     %s (log: %s, %s)\n", cfg.Addr(), cfg.Server.LogLevel, cfg.Server.LogFormat)
	fmt.Fprintf(out, "  Shutdown:   %s\n", cfg.Server.ShutdownTimeout.Duration)

	seed := cfg.Data.Seed
	if seed == "" {
		seed = "(none)"
	}
	fmt.Fprintf(out, "  Seed:       %s\n", seed)

	if cfg.Store.DSN != "" {
		fmt.Fprintf(out, "  Store:      %s (dsn set)\n", cfg.Store.Driver)
	} else {
		fmt.Fprintf(out, "  Store:      %s\n", cfg.Store.Driver)
	}
	fmt.Fprintf(out, "  CORS:       %s\n", strings.Join(cfg.CORS.AllowedOrigins, ", "))
}
