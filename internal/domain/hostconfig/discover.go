package hostconfig

import (
	"path/filepath"
	"strings"
)

// ConfigEnv names the environment variable pointing at a config file.
const ConfigEnv = "HOMESTACK_CONFIG"

// SystemConfigDir holds the host-wide config file.
const SystemConfigDir = "/etc/homestack"

// SystemConfigPaths lists the host-wide config file names in priority order.
var SystemConfigPaths = []string{
	filepath.Join(SystemConfigDir, "homestack.yaml"),
	filepath.Join(SystemConfigDir, "homestack.yml"),
	filepath.Join(SystemConfigDir, "homestack.toml"),
}

// DiscoverConfig returns the config file to use when none was given:
// $HOMESTACK_CONFIG if set, else the first readable system path, else "".
// A path named by the environment is returned even if unreadable so the
// read error surfaces.
func (r *Resolver) DiscoverConfig() string {
	if v, ok := r.lookupEnv(ConfigEnv); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	for _, p := range SystemConfigPaths {
		if _, err := r.readFile(p); err == nil {
			return p
		}
	}
	return ""
}
