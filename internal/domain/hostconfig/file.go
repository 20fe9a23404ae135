package hostconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration format. Unset fields fall through to
// defaults; environment variables take precedence over the file.
type File struct {
	TargetUser           string   `yaml:"target_user,omitempty" toml:"target_user,omitempty"`
	HomeDir              string   `yaml:"home_dir,omitempty" toml:"home_dir,omitempty"`
	RepoURL              string   `yaml:"repo_url,omitempty" toml:"repo_url,omitempty"`
	RepoLocalPath        string   `yaml:"repo_local_path,omitempty" toml:"repo_local_path,omitempty"`
	Branch               string   `yaml:"branch,omitempty" toml:"branch,omitempty"`
	DataRoot             string   `yaml:"data_root,omitempty" toml:"data_root,omitempty"`
	BridgeProjectDir     string   `yaml:"bridge_project_dir,omitempty" toml:"bridge_project_dir,omitempty"`
	BridgeSourceURL      *string  `yaml:"bridge_source_url,omitempty" toml:"bridge_source_url,omitempty"`
	VirtualenvPath       string   `yaml:"virtualenv_path,omitempty" toml:"virtualenv_path,omitempty"`
	ServiceUnitPath      string   `yaml:"service_unit_path,omitempty" toml:"service_unit_path,omitempty"`
	StackName            string   `yaml:"stack_name,omitempty" toml:"stack_name,omitempty"`
	ComposeFile          string   `yaml:"compose_file,omitempty" toml:"compose_file,omitempty"`
	ServiceName          string   `yaml:"service_name,omitempty" toml:"service_name,omitempty"`
	BridgeEntrypoint     string   `yaml:"bridge_entrypoint,omitempty" toml:"bridge_entrypoint,omitempty"`
	BrokerPort           int      `yaml:"broker_port,omitempty" toml:"broker_port,omitempty"`
	BrokerAllowAnonymous *bool    `yaml:"broker_allow_anonymous,omitempty" toml:"broker_allow_anonymous,omitempty"`
	SwarmAdvertiseAddr   string   `yaml:"swarm_advertise_addr,omitempty" toml:"swarm_advertise_addr,omitempty"`
	DockerMinVersion     string   `yaml:"docker_min_version,omitempty" toml:"docker_min_version,omitempty"`
	BasePackages         []string `yaml:"base_packages,omitempty" toml:"base_packages,omitempty"`
}

// ParseFile decodes data as YAML or TOML depending on the file extension.
func ParseFile(path string, data []byte) (*File, error) {
	var f File

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .toml)", ext)
	}

	return &f, nil
}

// values flattens the file into key/value pairs; only set fields appear.
func (f *File) values() map[Key]string {
	out := make(map[Key]string)
	set := func(k Key, v string) {
		if v != "" {
			out[k] = v
		}
	}

	set(KeyTargetUser, f.TargetUser)
	set(KeyHomeDir, f.HomeDir)
	set(KeyRepoURL, f.RepoURL)
	set(KeyRepoLocalPath, f.RepoLocalPath)
	set(KeyBranch, f.Branch)
	set(KeyDataRoot, f.DataRoot)
	set(KeyBridgeProjectDir, f.BridgeProjectDir)
	set(KeyVirtualenvPath, f.VirtualenvPath)
	set(KeyServiceUnitPath, f.ServiceUnitPath)
	set(KeyStackName, f.StackName)
	set(KeyComposeFile, f.ComposeFile)
	set(KeyServiceName, f.ServiceName)
	set(KeyBridgeEntrypoint, f.BridgeEntrypoint)
	set(KeySwarmAdvertiseAddr, f.SwarmAdvertiseAddr)
	set(KeyDockerMinVersion, f.DockerMinVersion)

	// An explicit empty bridge URL disables the bridge clone.
	if f.BridgeSourceURL != nil {
		out[KeyBridgeSourceURL] = *f.BridgeSourceURL
	}
	if f.BrokerPort != 0 {
		out[KeyBrokerPort] = strconv.Itoa(f.BrokerPort)
	}
	if f.BrokerAllowAnonymous != nil {
		out[KeyBrokerAllowAnonymous] = strconv.FormatBool(*f.BrokerAllowAnonymous)
	}
	if len(f.BasePackages) > 0 {
		out[KeyBasePackages] = strings.Join(f.BasePackages, " ")
	}

	return out
}
