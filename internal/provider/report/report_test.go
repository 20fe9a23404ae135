package report_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/homestack/internal/adapters/logging"
	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/provider/report"
	"github.com/felixgeelhaar/homestack/internal/testutil/mocks"
)

const compose = `version: "3.8"
services:
  mosquitto:
    image: eclipse-mosquitto:2
    volumes:
      - ${DATA_ROOT}/mosquitto/config:/mosquitto/config
  homeassistant:
    image: ghcr.io/home-assistant/home-assistant:stable
  nodered:
    image: nodered/node-red:latest
`

var bundle = hostconfig.Bundle{
	RepoLocalPath:   "/home/pi/homestack",
	ComposeFile:     "docker-compose.yml",
	StackName:       "homestack",
	BrokerPort:      1883,
	ServiceUnitPath: "/etc/systemd/system/ble2mqtt.service",
}

func TestComposeServices(t *testing.T) {
	t.Parallel()

	names, err := report.ComposeServices([]byte(compose))
	require.NoError(t, err)
	assert.Equal(t, []string{"mosquitto", "homeassistant", "nodered"}, names)

	names, err = report.ComposeServices([]byte("version: '3'\n"))
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = report.ComposeServices([]byte("services: [\n"))
	require.Error(t, err)
}

func TestHints(t *testing.T) {
	t.Parallel()

	hints := report.Hints(bundle)
	commands := make([]string, 0, len(hints))
	for _, h := range hints {
		commands = append(commands, h.Command)
	}
	assert.Contains(t, commands, "docker stack services homestack")
	assert.Contains(t, commands, "mosquitto_sub -h localhost -p 1883 -t '#' -v")
	assert.Contains(t, commands, "journalctl -u ble2mqtt.service -f")
}

func TestSummaryStep_Apply(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/home/pi/homestack/docker-compose.yml", compose)

	var buf bytes.Buffer
	logger := logging.NewConsoleLogger(logging.WithOutput(&buf), logging.WithTimestamp(false))
	rc := step.NewRunContext(context.Background()).WithLogger(logger)

	s := report.NewSummaryStep(bundle, fs)
	assert.Equal(t, "report:summary", s.ID().String())
	assert.Equal(t, step.Tolerable, s.Policy())

	require.NoError(t, s.Apply(rc))
	assert.Contains(t, buf.String(), "name=homestack_nodered")
	assert.Contains(t, buf.String(), "run=\"systemctl status ble2mqtt.service\"")
}

func TestSummaryStep_MissingCompose(t *testing.T) {
	t.Parallel()

	err := report.NewSummaryStep(bundle, mocks.NewFileSystem()).Apply(step.NewRunContext(context.Background()))
	require.Error(t, err)
}
