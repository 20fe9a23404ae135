package main

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/homestack/internal/domain/privilege"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Provision the host",
	Long: `Apply runs every provisioning step in order and changes the host where needed.

Steps run strictly in sequence:
1. Workspace directories and base packages
2. Docker engine, docker group and swarm mode
3. MQTT broker configuration
4. Service stack checkout and deployment
5. Bluetooth bridge checkout, virtualenv and systemd service

A failing mandatory step stops the run; the host is left as it is and
apply can simply be run again. Must be run as root.`,
	RunE: runApply,
}

var privilegeGuard = privilege.NewGuard()

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	if err := privilegeGuard.Require(); err != nil {
		return err
	}
	return provision(cmd, false)
}
