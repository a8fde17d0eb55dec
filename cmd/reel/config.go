package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/reel/internal/config"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Prompt for the TMDB API key and write the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return runSetupFlow(cmd, flags, cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config file:    %s\n", configFile(flags))
			fmt.Fprintf(out, "catalog url:    %s\n", cfg.Catalog.BaseURL)
			fmt.Fprintf(out, "image url:      %s\n", cfg.Catalog.ImageBaseURL)
			fmt.Fprintf(out, "api key:        %s\n", redact(cfg.Catalog.APIKey))
			fmt.Fprintf(out, "timeout:        %s\n", cfg.Catalog.Timeout)
			fmt.Fprintf(out, "language:       %s\n", cfg.Catalog.Language)
			fmt.Fprintf(out, "storage:        %s\n", cfg.Storage.Path)
			fmt.Fprintf(out, "theme:          %s\n", cfg.UI.Theme)
			fmt.Fprintf(out, "browser:        %s\n", describeBrowser(cfg.UI.Browser))
			fmt.Fprintf(out, "log file:       %s\n", cfg.Logging.File)
			fmt.Fprintf(out, "log level:      %s\n", cfg.Logging.Level)
			return nil
		},
	})

	return cmd
}

func describeBrowser(command string) string {
	if command == "" {
		return "(system default)"
	}
	return command
}

// runSetupFlow asks for the API key and saves it
func runSetupFlow(cmd *cobra.Command, flags *globalFlags, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Welcome to Reel!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Reel needs a TMDB API key (https://www.themoviedb.org/settings/api).")

	in := cmd.InOrStdin()
	lines := bufio.NewReader(in)

	var apiKey string
	for apiKey == "" {
		fmt.Fprint(out, "API key: ")
		key, err := readSecret(in, lines)
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		apiKey = strings.TrimSpace(key)
		if apiKey == "" {
			fmt.Fprintln(out, "API key cannot be empty. Please try again.")
		}
	}

	cfg.Catalog.APIKey = apiKey

	path := configFile(flags)
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Configuration saved to "+path)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run reel again to start the application.")
	return nil
}

// readSecret reads one line, without echo when in is a terminal
func readSecret(in io.Reader, lines *bufio.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}

	line, err := lines.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	return line, err
}

func configFile(flags *globalFlags) string {
	if flags.configPath != "" {
		return flags.configPath
	}
	return config.DefaultConfigFile()
}

func redact(s string) string {
	switch {
	case s == "":
		return "(not set)"
	case len(s) <= 4:
		return "****"
	default:
		return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
	}
}
