// Package cli implements the halgraph command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/halgraph/pkg/buildinfo"
	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/hal"
	"github.com/matzehuels/halgraph/pkg/hal/halcmd"
	"github.com/matzehuels/halgraph/pkg/hal/snapshot"
	"github.com/matzehuels/halgraph/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "halgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes returned by [ExitCode].
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitCanceled = 130 // shell convention for SIGINT
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// ProviderFunc opens the HAL namespace described by cfg.
type ProviderFunc func(cfg Config) (hal.Provider, error)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// NewProvider opens the namespace. It is only called once the command
	// line has been validated.
	NewProvider ProviderFunc
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		NewProvider: defaultProvider,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command. Without arguments it starts the
// interactive view; with one argument it exports the graph to that file.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		flags   flagValues
		verbose bool
		cfg     Config
	)

	root := &cobra.Command{
		Use:   "halgraph [output-file]",
		Short: "Halgraph visualizes HAL signals and pins as a graph",
		Long: `Halgraph draws the pins and signals of a running HAL namespace as a graph.

Run without arguments to open an interactive view that refreshes every few
seconds. Pass an output file (.svg, .pdf, .png or .dot) to export the graph once.`,
		Version:       buildinfo.Version,
		Args:          validateArgs,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid from here on; later failures are not usage errors.
			cmd.SilenceUsage = true
			if verbose {
				c.SetLogLevel(LogDebug)
			}

			var err error
			cfg, err = loadConfig(flags.config, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)

			observability.SetGraphHooks(logHooks{c.Logger})
			observability.SetBackendHooks(logHooks{c.Logger})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			if len(args) == 1 {
				return c.runExport(ctx, cfg, args[0])
			}
			return c.runView(ctx, cfg)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	root.Flags().StringVar(&flags.config, "config", "", "config file (default $XDG_CONFIG_HOME/halgraph/config.toml)")
	root.Flags().StringVarP(&flags.namespace, "namespace", "n", "", "read the namespace from a .toml or .json snapshot instead of halcmd")
	root.Flags().StringVar(&flags.halcmd, "halcmd", "", "halcmd executable")
	root.Flags().StringVarP(&flags.engine, "engine", "e", "", "layout engine: exec (Graphviz dot) or builtin")
	root.Flags().StringVar(&flags.dot, "dot", "", "Graphviz dot executable for the exec engine")
	root.Flags().StringVar(&flags.logFile, "log-file", "", "write logs of the interactive view to this file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return root
}

func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return &UsageError{Err: fmt.Errorf("accepts at most 1 output file, received %d arguments", len(args))}
	}
	return nil
}

// =============================================================================
// Providers
// =============================================================================

func defaultProvider(cfg Config) (hal.Provider, error) {
	if cfg.Namespace != "" {
		if _, err := os.Stat(cfg.Namespace); err != nil {
			return nil, errors.Wrap(errors.ErrCodeBackendUnavailable, err, "namespace snapshot %s", cfg.Namespace)
		}
		return snapshot.Provider{Path: cfg.Namespace}, nil
	}
	return halcmd.New(halcmd.WithPath(cfg.Halcmd)), nil
}

// =============================================================================
// Exit Status
// =============================================================================

// UsageError reports a malformed command line.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil:
		return ExitOK
	case stderrors.As(err, &usage):
		return ExitUsage
	case stderrors.Is(err, context.Canceled):
		return ExitCanceled
	default:
		return ExitFailure
	}
}

// ErrorMessage renders err for the terminal, without the error code prefix.
func ErrorMessage(err error) string {
	return errors.UserMessage(err)
}
