package hostconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filesOf(files map[string]string) func(string) ([]byte, error) {
	return func(p string) ([]byte, error) {
		if c, ok := files[p]; ok {
			return []byte(c), nil
		}
		return nil, os.ErrNotExist
	}
}

func TestDiscoverConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		env   map[string]string
		files map[string]string
		want  string
	}{
		{"nothing", nil, nil, ""},
		{"env wins", map[string]string{ConfigEnv: "/root/hs.toml"}, map[string]string{"/etc/homestack/homestack.yaml": ""}, "/root/hs.toml"},
		{"env unreadable still returned", map[string]string{ConfigEnv: "/missing.yaml"}, nil, "/missing.yaml"},
		{"blank env ignored", map[string]string{ConfigEnv: "  "}, map[string]string{"/etc/homestack/homestack.toml": ""}, "/etc/homestack/homestack.toml"},
		{"yaml before toml", nil, map[string]string{"/etc/homestack/homestack.toml": "", "/etc/homestack/homestack.yaml": ""}, "/etc/homestack/homestack.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewResolver(WithLookupEnv(envOf(tt.env)), WithReadFile(filesOf(tt.files)))
			assert.Equal(t, tt.want, r.DiscoverConfig())
		})
	}
}

func TestResolve_UsesDiscoveredConfig(t *testing.T) {
	t.Parallel()

	r := newTestResolver(map[string]string{"TARGET_USER": "pi"},
		WithReadFile(filesOf(map[string]string{
			"/etc/homestack/homestack.yaml": "data_root: /srv/homestack\nbroker_port: 1884\n",
		})))

	b, err := r.Resolve("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/srv/homestack", b.DataRoot)
	assert.Equal(t, 1884, b.BrokerPort)
}

func TestResolve_MissingEnvConfigIsError(t *testing.T) {
	t.Parallel()

	r := newTestResolver(map[string]string{"TARGET_USER": "pi", ConfigEnv: "/nope.yaml"})

	_, err := r.Resolve("", nil)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "/nope.yaml")
}
