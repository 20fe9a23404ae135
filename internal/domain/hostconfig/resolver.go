package hostconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/homestack/internal/ports"
	"github.com/felixgeelhaar/homestack/internal/validation"
)

// Resolver builds a Bundle. It has no side effects beyond reading the
// optional config file and the account database.
type Resolver struct {
	lookupEnv    func(string) (string, bool)
	accounts     ports.AccountLookup
	readFile     func(string) ([]byte, error)
	fallbackUser string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		r.lookupEnv = fn
	}
}

// WithAccounts sets the account lookup used to find home directories.
func WithAccounts(accounts ports.AccountLookup) ResolverOption {
	return func(r *Resolver) {
		r.accounts = accounts
	}
}

// WithReadFile replaces os.ReadFile for the config file.
func WithReadFile(fn func(string) ([]byte, error)) ResolverOption {
	return func(r *Resolver) {
		r.readFile = fn
	}
}

// WithFallbackUser sets the literal user used when neither TARGET_USER
// nor SUDO_USER resolve.
func WithFallbackUser(name string) ResolverOption {
	return func(r *Resolver) {
		r.fallbackUser = name
	}
}

// NewResolver creates a Resolver reading the process environment.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookupEnv:    os.LookupEnv,
		readFile:     os.ReadFile,
		fallbackUser: DefaultFallbackUser,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve layers defaults < config file < environment < overrides, then
// derives dependent values and validates the result. An empty configPath
// falls back to DiscoverConfig. Overrides use the same keys as the
// environment.
func (r *Resolver) Resolve(configPath string, overrides map[Key]string) (Bundle, error) {
	raw := make(map[Key]string)

	if configPath == "" {
		configPath = r.DiscoverConfig()
	}

	if configPath != "" {
		data, err := r.readFile(configPath)
		if err != nil {
			return Bundle{}, &ConfigurationError{
				Message:    fmt.Sprintf("cannot read config file %s", configPath),
				Suggestion: "Check the --config path.",
				Underlying: err,
			}
		}
		f, err := ParseFile(configPath, data)
		if err != nil {
			return Bundle{}, &ConfigurationError{Message: "invalid config file", Underlying: err}
		}
		for k, v := range f.values() {
			raw[k] = v
		}
	}

	for _, k := range Keys {
		if v, ok := r.lookupEnv(string(k)); ok {
			if k == KeyBridgeSourceURL {
				// Empty is meaningful: it disables the bridge clone.
				raw[k] = strings.TrimSpace(v)
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				raw[k] = v
			}
		}
	}

	for k, v := range overrides {
		raw[k] = strings.TrimSpace(v)
	}

	b, err := r.build(raw)
	if err != nil {
		return Bundle{}, err
	}
	if err := Validate(b); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func (r *Resolver) build(raw map[Key]string) (Bundle, error) {
	get := func(k Key, def string) string {
		if v, ok := raw[k]; ok && v != "" {
			return v
		}
		return def
	}

	var b Bundle

	b.TargetUser = get(KeyTargetUser, r.invokingUser())
	if b.TargetUser == "" {
		return Bundle{}, &ConfigurationError{
			Key:        KeyTargetUser,
			Message:    "no target user could be resolved",
			Suggestion: "Set TARGET_USER or run the tool through sudo from the target account.",
		}
	}

	b.HomeDir = get(KeyHomeDir, r.homeOf(b.TargetUser))
	b.RepoURL = get(KeyRepoURL, DefaultRepoURL)
	b.RepoLocalPath = get(KeyRepoLocalPath, filepath.Join(b.HomeDir, DefaultStackName))
	b.Branch = get(KeyBranch, DefaultBranch)
	b.DataRoot = get(KeyDataRoot, DefaultDataRoot)
	b.ServiceName = get(KeyServiceName, DefaultServiceName)
	b.BridgeProjectDir = get(KeyBridgeProjectDir, filepath.Join(b.HomeDir, b.ServiceName))
	if v, ok := raw[KeyBridgeSourceURL]; ok {
		b.BridgeSourceURL = v
	} else {
		b.BridgeSourceURL = DefaultBridgeSourceURL
	}
	b.VirtualenvPath = get(KeyVirtualenvPath, filepath.Join(b.BridgeProjectDir, ".venv"))
	b.ServiceUnitPath = get(KeyServiceUnitPath, filepath.Join(DefaultUnitDir, b.ServiceName+".service"))
	b.StackName = get(KeyStackName, DefaultStackName)
	b.ComposeFile = get(KeyComposeFile, DefaultComposeFile)
	b.BridgeEntrypoint = get(KeyBridgeEntrypoint, DefaultBridgeEntrypoint)
	b.SwarmAdvertiseAddr = get(KeySwarmAdvertiseAddr, "")
	b.DockerMinVersion = get(KeyDockerMinVersion, "")

	port, err := strconv.Atoi(get(KeyBrokerPort, strconv.Itoa(DefaultBrokerPort)))
	if err != nil {
		return Bundle{}, invalid(KeyBrokerPort, raw[KeyBrokerPort], err)
	}
	b.BrokerPort = port

	anon, err := strconv.ParseBool(get(KeyBrokerAllowAnonymous, "true"))
	if err != nil {
		return Bundle{}, invalid(KeyBrokerAllowAnonymous, raw[KeyBrokerAllowAnonymous], err)
	}
	b.BrokerAllowAnonymous = anon

	if v := get(KeyBasePackages, ""); v != "" {
		b.BasePackages = strings.Fields(v)
	} else {
		b.BasePackages = append([]string(nil), DefaultBasePackages...)
	}

	return b, nil
}

// invokingUser returns SUDO_USER unless it is absent or root, then the
// literal fallback.
func (r *Resolver) invokingUser() string {
	if v, ok := r.lookupEnv(sudoUserEnv); ok {
		if v = strings.TrimSpace(v); v != "" && v != "root" {
			return v
		}
	}
	return r.fallbackUser
}

func (r *Resolver) homeOf(user string) string {
	if r.accounts != nil {
		if acct, err := r.accounts.LookupAccount(user); err == nil && acct.HomeDir != "" {
			return acct.HomeDir
		}
	}
	return filepath.Join("/home", user)
}

// Validate checks every field of b. All values end up on command lines
// or in generated files, so shell metacharacters are rejected everywhere.
func Validate(b Bundle) error {
	checks := []struct {
		key   Key
		value string
		fn    func(string) error
	}{
		{KeyTargetUser, b.TargetUser, validation.ValidateUserName},
		{KeyHomeDir, b.HomeDir, validation.ValidateAbsPath},
		{KeyRepoURL, b.RepoURL, validation.ValidateGitRemoteURL},
		{KeyRepoLocalPath, b.RepoLocalPath, validation.ValidateAbsPath},
		{KeyBranch, b.Branch, validation.ValidateGitBranch},
		{KeyDataRoot, b.DataRoot, validation.ValidateAbsPath},
		{KeyBridgeProjectDir, b.BridgeProjectDir, validation.ValidateAbsPath},
		{KeyVirtualenvPath, b.VirtualenvPath, validation.ValidateAbsPath},
		{KeyServiceUnitPath, b.ServiceUnitPath, validation.ValidateAbsPath},
		{KeyStackName, b.StackName, validation.ValidateName},
		{KeyComposeFile, b.ComposeFile, validation.ValidateRelPath},
		{KeyServiceName, b.ServiceName, validation.ValidateName},
		{KeyBridgeEntrypoint, b.BridgeEntrypoint, validation.ValidateRelPath},
	}

	for _, c := range checks {
		if err := c.fn(c.value); err != nil {
			return invalid(c.key, c.value, err)
		}
	}

	if b.BridgeSourceURL != "" {
		if err := validation.ValidateGitRemoteURL(b.BridgeSourceURL); err != nil {
			return invalid(KeyBridgeSourceURL, b.BridgeSourceURL, err)
		}
	}
	if b.SwarmAdvertiseAddr != "" {
		if err := validation.ValidateNoShellMeta(b.SwarmAdvertiseAddr); err != nil || strings.ContainsAny(b.SwarmAdvertiseAddr, " \t") {
			if err == nil {
				err = errors.New("must not contain whitespace")
			}
			return invalid(KeySwarmAdvertiseAddr, b.SwarmAdvertiseAddr, err)
		}
	}
	if b.DockerMinVersion != "" && !semver.IsValid(CanonicalVersion(b.DockerMinVersion)) {
		return invalid(KeyDockerMinVersion, b.DockerMinVersion, errors.New("not a semantic version"))
	}
	if b.BrokerPort < 1 || b.BrokerPort > 65535 {
		return invalid(KeyBrokerPort, strconv.Itoa(b.BrokerPort), errors.New("port out of range"))
	}
	if len(b.BasePackages) == 0 {
		return invalid(KeyBasePackages, "", validation.ErrEmptyInput)
	}
	for _, pkg := range b.BasePackages {
		if err := validation.ValidatePackageName(pkg); err != nil {
			return invalid(KeyBasePackages, pkg, err)
		}
	}
	if !strings.HasSuffix(b.ServiceUnitPath, ".service") {
		return invalid(KeyServiceUnitPath, b.ServiceUnitPath, errors.New("unit file must end in .service"))
	}

	return nil
}

// CanonicalVersion turns docker-style versions ("27.3.1", "v24.0")
// into the "vMAJOR.MINOR.PATCH" form semver expects.
func CanonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
