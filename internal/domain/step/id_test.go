package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "provider and action", input: "docker:swarm"},
		{name: "absolute path resource", input: "workspace:dir:/opt/homestack"},
		{name: "dotted resource", input: "systemd:unit:ble2mqtt.service"},
		{name: "templated unit resource", input: "systemd:unit:ble2mqtt@hci0.service"},
		{name: "resource with spaces", input: "workspace:dir:/opt/home stack"},
		{name: "resource with plus and tilde", input: "workspace:dir:/srv/~pi/homestack+data"},
		{name: "resource with colon", input: "docker:stack:home:stack"},
		{name: "trimmed", input: "  apt:packages  "},
		{name: "empty", input: "   ", wantErr: ErrEmptyID},
		{name: "leading colon", input: ":docker", wantErr: ErrInvalidID},
		{name: "trailing colon", input: "docker:", wantErr: ErrInvalidID},
		{name: "empty resource", input: "docker:stack:", wantErr: ErrInvalidID},
		{name: "blank resource", input: "docker:stack:   ", wantErr: ErrInvalidID},
		{name: "empty action", input: "docker::home", wantErr: ErrInvalidID},
		{name: "space in action", input: "docker:stack deploy", wantErr: ErrInvalidID},
		{name: "at sign in provider", input: "dock@r:stack", wantErr: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, err := NewID(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.False(t, id.IsZero())
		})
	}
}

func TestID_Provider(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "workspace", MustNewID("workspace:dir:/home/pi").Provider())
	assert.Equal(t, "report", MustNewID("report").Provider())
}

func TestMustNewID_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNewID("bad id") })
}

func TestID_ResourceKeptVerbatim(t *testing.T) {
	t.Parallel()

	id := MustNewID("workspace:dir:/opt/home stack")

	assert.Equal(t, "workspace:dir:/opt/home stack", id.String())
	assert.Equal(t, "workspace", id.Provider())
}
