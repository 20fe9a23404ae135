// Package hostconfig resolves the configuration bundle that drives a
// provisioning run: environment overrides layered over an optional config
// file and built-in defaults, with derived values computed last.
package hostconfig

import (
	"path/filepath"
	"strings"
)

// Bundle is the resolved, validated configuration of one run.
// It is built once by Resolver.Resolve and treated as read-only.
type Bundle struct {
	TargetUser       string `yaml:"target_user"`
	HomeDir          string `yaml:"home_dir"`
	RepoURL          string `yaml:"repo_url"`
	RepoLocalPath    string `yaml:"repo_local_path"`
	Branch           string `yaml:"branch"`
	DataRoot         string `yaml:"data_root"`
	BridgeProjectDir string `yaml:"bridge_project_dir"`
	BridgeSourceURL  string `yaml:"bridge_source_url"`
	VirtualenvPath   string `yaml:"virtualenv_path"`
	ServiceUnitPath  string `yaml:"service_unit_path"`

	StackName            string   `yaml:"stack_name"`
	ComposeFile          string   `yaml:"compose_file"`
	ServiceName          string   `yaml:"service_name"`
	BridgeEntrypoint     string   `yaml:"bridge_entrypoint"`
	BrokerPort           int      `yaml:"broker_port"`
	BrokerAllowAnonymous bool     `yaml:"broker_allow_anonymous"`
	SwarmAdvertiseAddr   string   `yaml:"swarm_advertise_addr,omitempty"`
	DockerMinVersion     string   `yaml:"docker_min_version,omitempty"`
	BasePackages         []string `yaml:"base_packages,flow"`
}

// ComposePath returns the absolute path of the stack definition.
func (b Bundle) ComposePath() string {
	return filepath.Join(b.RepoLocalPath, b.ComposeFile)
}

// BrokerDir returns the broker's directory under the data root.
func (b Bundle) BrokerDir() string {
	return filepath.Join(b.DataRoot, "mosquitto")
}

// BrokerConfigPath returns the broker configuration file path.
func (b Bundle) BrokerConfigPath() string {
	return filepath.Join(b.BrokerDir(), "config", "mosquitto.conf")
}

// EntrypointPath returns the bridge application's entry point.
func (b Bundle) EntrypointPath() string {
	return filepath.Join(b.BridgeProjectDir, b.BridgeEntrypoint)
}

// VenvPython returns the interpreter inside the virtual environment.
func (b Bundle) VenvPython() string {
	return filepath.Join(b.VirtualenvPath, "bin", "python")
}

// UnitName returns the systemd unit name of the bridge service.
func (b Bundle) UnitName() string {
	return strings.TrimSuffix(filepath.Base(b.ServiceUnitPath), ".service") + ".service"
}

// Packages returns a copy of the base package list.
func (b Bundle) Packages() []string {
	out := make([]string, len(b.BasePackages))
	copy(out, b.BasePackages)
	return out
}
