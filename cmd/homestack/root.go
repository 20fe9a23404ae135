package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/homestack/internal/adapters/accounts"
	"github.com/felixgeelhaar/homestack/internal/adapters/logging"
	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/domain/privilege"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

var (
	// Global flags
	cfgFile     string
	verbose     bool
	logFormat   string
	metricsFile string
	setValues   []string
	targetUser  string
	branch      string
)

var rootCmd = &cobra.Command{
	Use:   "homestack",
	Short: "Provision a home automation host",
	Long: `Homestack converges a Debian or Raspberry Pi OS host into a home automation node.

It installs the base packages and Docker, enables swarm mode, deploys the
service stack from its repository, prepares the MQTT broker and installs
the Bluetooth bridge as a systemd service. Every step checks the host
first, so running it again only does what is missing.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.yaml, .yml or .toml; default $HOMESTACK_CONFIG or /etc/homestack/homestack.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every command and its output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write run metrics for the node_exporter textfile collector")
	rootCmd.PersistentFlags().StringArrayVar(&setValues, "set", nil, "override a parameter, e.g. --set DATA_ROOT=/srv/homestack")
	rootCmd.PersistentFlags().StringVar(&targetUser, "user", "", "account that owns the checkouts and runs the bridge (TARGET_USER)")
	rootCmd.PersistentFlags().StringVar(&branch, "branch", "", "stack repository branch (BRANCH)")

	registerFlagCompletions()

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the console logger selected by the global flags.
func newLogger(w io.Writer) (ports.Logger, error) {
	opts := []logging.ConsoleLoggerOption{logging.WithOutput(w)}
	switch logFormat {
	case "text", "":
	case "json":
		opts = append(opts, logging.WithJSONFormat(true))
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", logFormat)
	}
	if verbose {
		opts = append(opts, logging.WithLevel(ports.LevelDebug))
	}
	return logging.NewConsoleLogger(opts...), nil
}

// overrides collects the parameters set on the command line.
func overrides() (map[hostconfig.Key]string, error) {
	out := make(map[hostconfig.Key]string, len(setValues)+2)
	for _, kv := range setValues {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: want KEY=VALUE", kv)
		}
		key := hostconfig.Key(strings.ToUpper(strings.TrimSpace(k)))
		if !knownKey(key) {
			return nil, &hostconfig.ConfigurationError{
				Key:        key,
				Message:    "unknown parameter",
				Suggestion: "Run 'homestack config --help' to list the parameters.",
			}
		}
		out[key] = v
	}
	if targetUser != "" {
		out[hostconfig.KeyTargetUser] = targetUser
	}
	if branch != "" {
		out[hostconfig.KeyBranch] = branch
	}
	return out, nil
}

func knownKey(k hostconfig.Key) bool {
	for _, known := range hostconfig.Keys {
		if k == known {
			return true
		}
	}
	return false
}

var newResolver = func() *hostconfig.Resolver {
	return hostconfig.NewResolver(hostconfig.WithAccounts(accounts.NewLookup()))
}

// resolveBundle resolves defaults, config file, environment and flags.
func resolveBundle() (hostconfig.Bundle, error) {
	ov, err := overrides()
	if err != nil {
		return hostconfig.Bundle{}, err
	}
	return newResolver().Resolve(cfgFile, ov)
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var cfgErr *hostconfig.ConfigurationError
	if errors.As(err, &cfgErr) {
		msg := "configuration: " + cfgErr.Message
		if cfgErr.Key != "" {
			msg = fmt.Sprintf("configuration %s: %s", cfgErr.Key, cfgErr.Message)
		}
		if cfgErr.Value != "" {
			msg += fmt.Sprintf(" (got %q)", cfgErr.Value)
		}
		if cfgErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", cfgErr.Suggestion)
		}
		if verbose && cfgErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", cfgErr.Underlying)
		}
		return msg
	}
	var permErr *privilege.PermissionError
	if errors.As(err, &permErr) {
		return permErr.Error()
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

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"text\tTimestamped key=value lines",
			"json\tOne JSON object per line",
		}, cobra.ShellCompDirectiveNoFileComp
	})

	_ = rootCmd.RegisterFlagCompletionFunc("set", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		keys := make([]string, len(hostconfig.Keys))
		for i, k := range hostconfig.Keys {
			keys[i] = string(k) + "="
		}
		return keys, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	})
}
