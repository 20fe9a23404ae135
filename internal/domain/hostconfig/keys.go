package hostconfig

// Key names a configuration parameter. Keys double as the environment
// variables that override them.
type Key string

// Recognized parameters.
const (
	KeyTargetUser           Key = "TARGET_USER"
	KeyHomeDir              Key = "TARGET_HOME"
	KeyRepoURL              Key = "REPO_URL"
	KeyRepoLocalPath        Key = "REPO_DIR"
	KeyBranch               Key = "BRANCH"
	KeyDataRoot             Key = "DATA_ROOT"
	KeyBridgeProjectDir     Key = "BRIDGE_DIR"
	KeyBridgeSourceURL      Key = "BRIDGE_REPO_URL"
	KeyVirtualenvPath       Key = "VENV_DIR"
	KeyServiceUnitPath      Key = "SERVICE_UNIT_PATH"
	KeyStackName            Key = "STACK_NAME"
	KeyComposeFile          Key = "STACK_COMPOSE_FILE"
	KeyServiceName          Key = "SERVICE_NAME"
	KeyBridgeEntrypoint     Key = "BRIDGE_ENTRYPOINT"
	KeyBrokerPort           Key = "MQTT_PORT"
	KeyBrokerAllowAnonymous Key = "MQTT_ALLOW_ANONYMOUS"
	KeySwarmAdvertiseAddr   Key = "SWARM_ADVERTISE_ADDR"
	KeyDockerMinVersion     Key = "DOCKER_MIN_VERSION"
	KeyBasePackages         Key = "BASE_PACKAGES"
)

// sudoUserEnv names the invoking user when run through sudo.
const sudoUserEnv = "SUDO_USER"

// Keys lists every recognized parameter in resolution order.
var Keys = []Key{
	KeyTargetUser,
	KeyHomeDir,
	KeyRepoURL,
	KeyRepoLocalPath,
	KeyBranch,
	KeyDataRoot,
	KeyBridgeProjectDir,
	KeyBridgeSourceURL,
	KeyVirtualenvPath,
	KeyServiceUnitPath,
	KeyStackName,
	KeyComposeFile,
	KeyServiceName,
	KeyBridgeEntrypoint,
	KeyBrokerPort,
	KeyBrokerAllowAnonymous,
	KeySwarmAdvertiseAddr,
	KeyDockerMinVersion,
	KeyBasePackages,
}

// Built-in defaults.
const (
	DefaultFallbackUser     = "pi"
	DefaultRepoURL          = "https://github.com/homestack/homestack-stack.git"
	DefaultBranch           = "main"
	DefaultDataRoot         = "/opt/homestack"
	DefaultBridgeSourceURL  = "https://github.com/CHANGE-ME/ble2mqtt.git"
	DefaultStackName        = "homestack"
	DefaultComposeFile      = "docker-compose.yml"
	DefaultServiceName      = "ble2mqtt"
	DefaultBridgeEntrypoint = "main.py"
	DefaultBrokerPort       = 1883
	DefaultUnitDir          = "/etc/systemd/system"
)

// DefaultBasePackages is installed on every host.
var DefaultBasePackages = []string{
	"ca-certificates",
	"curl",
	"git",
	"python3",
	"python3-venv",
	"python3-pip",
	"bluez",
}
