package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/baseline/internal/adapters/logging"
	"github.com/felixgeelhaar/baseline/internal/app"
	"github.com/felixgeelhaar/baseline/internal/domain/config"
	"github.com/felixgeelhaar/baseline/internal/ports"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logFormat string
)

// Console log formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

var rootCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Run ordered server provisioning steps",
	Long: `Baseline runs the provisioning steps of a role in order, after checking
that the host can run them.

Each role in baseline.yaml is an ordered list of executables:
  Preflight → Run log → Steps (fail fast) → Summary`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// newBaseline creates the application. Tests replace it.
var newBaseline = func(out io.Writer, opts ...app.Option) *app.Baseline {
	return app.New(out, opts...)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
var signalContext = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigPath, "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output, including debug log lines")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logFormatText, "format of console log lines outside the run log (text, json)")

	registerFlagCompletions()
}

// loadManifest loads and validates the configuration file.
func loadManifest() (*config.Manifest, error) {
	return config.NewLoader().Load(cfgFile)
}

// newConsoleLogger returns the logger for commands that do not open a run
// log, honouring --verbose and --log-format.
func newConsoleLogger(w io.Writer) (*logging.ConsoleLogger, error) {
	opts := []logging.ConsoleLoggerOption{logging.WithOutput(w)}
	switch logFormat {
	case logFormatText:
	case logFormatJSON:
		opts = append(opts, logging.WithJSONFormat(true))
	default:
		return nil, config.NewUserError(config.ErrCodeInvalidFlag, fmt.Sprintf("unsupported log format %q", logFormat)).
			WithContext("--log-format").
			WithSuggestion("Use --log-format text or --log-format json")
	}
	if verbose {
		opts = append(opts, logging.WithLevel(ports.LevelDebug))
	}
	return logging.NewConsoleLogger(opts...), nil
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var list *config.ErrorList
	if errors.As(err, &list) {
		return list.Format()
	}

	if userErr := config.GetUserError(err); userErr != nil {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	})
}

// completeRoles completes role names from the configuration file.
func completeRoles(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	m, err := loadManifest()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(m.Roles))
	for _, name := range m.RoleNames() {
		out = append(out, name+"\t"+m.Roles[name].Description)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
