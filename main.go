// laibrary extracts the public API of a library, with its documentation,
// into a single document sized for LLM context.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/contaixt/laibrary/internal/config"
	"github.com/contaixt/laibrary/internal/generate"
	"github.com/contaixt/laibrary/internal/lang"
	"github.com/contaixt/laibrary/internal/mcpserver"
	"github.com/contaixt/laibrary/internal/rust"
)

var version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(os.Stdin, os.Stdout, os.Stderr),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// run executes the command line in args without fang's styling.
func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(os.Stdin, stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "laibrary [path]",
		Short: "Extract the public API of a library into one document",
		Long: `laibrary reads a library's package manifest and sources and writes every
publicly reachable item, grouped by the namespace it can be imported from,
together with the library's README. Re-exported items appear under every
namespace that exposes them.

path defaults to the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			logger := newLogger(stderr, cfg.Verbose)

			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			out, err := generate.Generate(cmd.Context(), newRegistry(logger), generate.Options{
				Language:  cfg.Language,
				Root:      root,
				Format:    cfg.Format,
				CachePath: cfg.Cache,
			}, logger)
			if err != nil {
				return err
			}

			if cfg.Output != "" {
				if err := os.WriteFile(cfg.Output, []byte(out+"\n"), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", cfg.Output, err)
				}
				logger.Info("wrote library document", "file", cfg.Output)
				return nil
			}
			_, _ = fmt.Fprintln(stdout, out)
			return nil
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("laibrary {{.Version}}\n")

	defaults := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringP("language", "l", defaults.Language, "source language of the library")
	flags.String("format", defaults.Format, "output format: xml or toon")
	flags.StringP("output", "o", "", "write the document to this file instead of stdout")
	flags.String("cache", "", "cache file; reused while no source file is newer")

	pflags := cmd.PersistentFlags()
	pflags.BoolP("verbose", "v", false, "log progress to stderr")
	pflags.StringVar(&cfgFile, "config", "", "config file (default ./"+config.FileName+")")

	cmd.AddCommand(
		newInitCmd(stdout, stderr),
		newLanguagesCmd(stdout),
		newMCPCmd(stderr, &cfgFile),
	)
	return cmd
}

func newLanguagesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported source languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := newRegistry(log.New(io.Discard))
			for _, name := range reg.Names() {
				a, err := reg.Get(name)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout, "%s\t%v\n", name, a.FileExtensions())
			}
			return nil
		},
	}
}

func newMCPCmd(stderr io.Writer, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the library_api tool over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.LoadOptions{ConfigFilePath: *cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			// stdout carries the protocol; logs go to stderr only.
			logger := newLogger(stderr, cfg.Verbose)
			srv := mcpserver.NewServer(newRegistry(logger), version, logger)
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newRegistry(logger *log.Logger) *lang.Registry {
	return lang.NewRegistry(
		rust.New(rust.WithLogger(logger)),
	)
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "laibrary",
		Level:  level,
	})
}
