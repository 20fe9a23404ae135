package app

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/homestack/internal/adapters/command"
	"github.com/felixgeelhaar/homestack/internal/domain/execution"
	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
	"github.com/felixgeelhaar/homestack/internal/provider/apt"
	"github.com/felixgeelhaar/homestack/internal/provider/docker"
	"github.com/felixgeelhaar/homestack/internal/provider/git"
	"github.com/felixgeelhaar/homestack/internal/provider/mqtt"
	"github.com/felixgeelhaar/homestack/internal/provider/python"
	"github.com/felixgeelhaar/homestack/internal/provider/report"
	"github.com/felixgeelhaar/homestack/internal/provider/systemd"
	"github.com/felixgeelhaar/homestack/internal/provider/workspace"
)

// BuildPlan assembles the fixed step order for b. Each step may rely on
// everything before it: the engine before the swarm, the swarm before the
// stack, the checkout before the virtualenv, the virtualenv before the
// service start.
func (h *Homestack) BuildPlan(b hostconfig.Bundle) (*execution.Plan, error) {
	owner, err := h.accounts.LookupAccount(b.TargetUser)
	if err != nil {
		if errors.Is(err, ports.ErrUnknownAccount) {
			return nil, &hostconfig.ConfigurationError{
				Key:        hostconfig.KeyTargetUser,
				Value:      b.TargetUser,
				Message:    fmt.Sprintf("user %s does not exist", b.TargetUser),
				Suggestion: "Create the account first or set TARGET_USER to an existing user.",
				Underlying: err,
			}
		}
		return nil, fmt.Errorf("look up %s: %w", b.TargetUser, err)
	}

	root := command.WithLogging(h.runner, h.logger)
	asUser := command.AsUser(root, b.TargetUser)
	unit := b.UnitName()

	plan := execution.NewPlan()
	if err := plan.Add(workspace.Steps(b, owner, h.fs)...); err != nil {
		return nil, err
	}
	err = plan.Add(
		apt.NewPackagesStep(b.Packages(), root),
		docker.NewEngineStep(b.DockerMinVersion, root),
		docker.NewGroupStep(b.TargetUser, root),
		docker.NewSwarmStep(b.SwarmAdvertiseAddr, root),
		mqtt.NewConfigStep(mqtt.Broker{
			Dir:            b.BrokerDir(),
			Port:           b.BrokerPort,
			AllowAnonymous: b.BrokerAllowAnonymous,
		}, h.fs),
		git.NewSyncStep(git.Repo{
			Name:   "stack",
			URL:    b.RepoURL,
			Dir:    b.RepoLocalPath,
			Branch: b.Branch,
		}, step.Mandatory, asUser, h.fs),
		docker.NewStackStep(docker.Stack{
			Name:        b.StackName,
			ComposePath: b.ComposePath(),
			DataRoot:    b.DataRoot,
		}, root, h.fs),
		git.NewSyncStep(git.Repo{
			Name: "bridge",
			URL:  b.BridgeSourceURL,
			Dir:  b.BridgeProjectDir,
		}, step.Tolerable, asUser, h.fs),
		python.NewVenvStep(python.Env{
			Path:       b.VirtualenvPath,
			ProjectDir: b.BridgeProjectDir,
		}, asUser, h.fs),
		systemd.NewUnitStep(systemd.Unit{
			Name:        unit,
			Description: b.ServiceName + " Bluetooth to MQTT bridge",
			User:        b.TargetUser,
			WorkingDir:  b.BridgeProjectDir,
			Python:      b.VenvPython(),
			Entrypoint:  b.EntrypointPath(),
		}, b.ServiceUnitPath, root, h.fs),
		systemd.NewEnableStep(unit, root),
		systemd.NewStartStep(unit, []string{b.VenvPython(), b.EntrypointPath()}, root, h.fs),
		report.NewSummaryStep(b, h.fs),
	)
	if err != nil {
		return nil, err
	}
	return plan, nil
}
