// Package systemd installs, enables and starts the bridge service unit.
package systemd

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/ini.v1"
)

// Unit is the bridge service definition.
type Unit struct {
	// Name is the unit name including the .service suffix.
	Name        string
	Description string
	User        string
	WorkingDir  string
	Python      string
	Entrypoint  string
}

type entry struct {
	section, key, value string
}

func (u Unit) entries() []entry {
	return []entry{
		{"Unit", "Description", u.Description},
		{"Unit", "After", "network-online.target docker.service mosquitto.service"},
		{"Unit", "Wants", "network-online.target"},
		{"Unit", "Requires", "docker.service"},
		{"Service", "Type", "simple"},
		{"Service", "User", u.User},
		{"Service", "WorkingDirectory", u.WorkingDir},
		{"Service", "ExecStart", u.Python + " " + u.Entrypoint},
		{"Service", "Restart", "always"},
		{"Service", "RestartSec", "5"},
		{"Service", "Environment", "PYTHONUNBUFFERED=1"},
		{"Install", "WantedBy", "multi-user.target"},
	}
}

// Render returns the unit file content.
func Render(u Unit) ([]byte, error) {
	cfg := ini.Empty()
	for _, e := range u.entries() {
		sec := cfg.Section(e.section)
		if _, err := sec.NewKey(e.key, e.value); err != nil {
			return nil, fmt.Errorf("render %s: %w", u.Name, err)
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", u.Name, err)
	}
	return buf.Bytes(), nil
}

// ChangedKeys parses existing unit content and lists the "Section.Key"
// entries that differ from u, sorted. Unparseable content reports every key.
func ChangedKeys(u Unit, existing []byte) []string {
	cfg, err := ini.Load(existing)
	var changed []string
	for _, e := range u.entries() {
		name := e.section + "." + e.key
		if err != nil {
			changed = append(changed, name)
			continue
		}
		sec, secErr := cfg.GetSection(e.section)
		if secErr != nil || !sec.HasKey(e.key) || sec.Key(e.key).String() != e.value {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}
