package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long: `Config resolves every parameter the way apply would and prints the result
as YAML. Parameters come from, in increasing precedence: built-in defaults,
the --config file, environment variables and --set/--user/--branch flags.

Parameters: ` + keyList(),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	b, err := resolveBundle()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return enc.Close()
}

func keyList() string {
	keys := make([]string, len(hostconfig.Keys))
	for i, k := range hostconfig.Keys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}
