// Package snapshot loads a HAL namespace from a TOML or JSON file.
//
// A snapshot lists pins and, optionally, signals that have no pins linked:
//
//	[[signal]]
//	name = "spare"
//	type = "float"
//
//	[[pin]]
//	name   = "motor.0.enable"
//	type   = "bit"
//	dir    = "out"
//	value  = true
//	signal = "enable-sig"
//
// The JSON form uses the keys "signals" and "pins" with the same fields.
// Links follow HAL rules (one writer per signal, matching types), so a
// snapshot that HAL would reject is rejected here too.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/hal"
)

type file struct {
	Signals []signal `toml:"signal" json:"signals"`
	Pins    []pin    `toml:"pin" json:"pins"`
}

type signal struct {
	Name  string `toml:"name" json:"name"`
	Type  string `toml:"type" json:"type"`
	Value any    `toml:"value" json:"value,omitempty"`
}

type pin struct {
	Name   string `toml:"name" json:"name"`
	Owner  string `toml:"owner" json:"owner,omitempty"`
	Type   string `toml:"type" json:"type"`
	Dir    string `toml:"dir" json:"dir"`
	Value  any    `toml:"value" json:"value,omitempty"`
	Signal string `toml:"signal" json:"signal,omitempty"`
}

// Load reads the snapshot at path. The format is chosen by extension:
// ".toml" or ".json".
func Load(path string) (*hal.Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackendUnavailable, err, "read snapshot %s", path)
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported snapshot format %q (want .toml or .json)", ext)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackendUnavailable, err, "decode snapshot %s", path)
	}

	ns, err := f.namespace()
	if err != nil {
		return nil, errors.EnsureCode(err, errors.ErrCodeInvalidInput, "snapshot %s", path)
	}
	return ns, nil
}

func (f file) namespace() (*hal.Namespace, error) {
	ns := hal.NewNamespace()

	for _, s := range f.Signals {
		if err := errors.ValidateName(s.Name); err != nil {
			return nil, err
		}
		t, err := parseType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("signal %s: %w", s.Name, err)
		}
		if err := ns.AddSignal(s.Name, t, coerce(t, s.Value)); err != nil {
			return nil, err
		}
	}

	for _, p := range f.Pins {
		if err := errors.ValidateName(p.Name); err != nil {
			return nil, err
		}
		t, err := parseType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("pin %s: %w", p.Name, err)
		}
		dir := hal.In
		if p.Dir != "" {
			d, ok := hal.ParseDirection(p.Dir)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "pin %s: unknown direction %q", p.Name, p.Dir)
			}
			dir = d
		}
		if p.Signal != "" {
			if err := errors.ValidateName(p.Signal); err != nil {
				return nil, err
			}
		}
		err = ns.AddPin(hal.Pin{
			Name:   p.Name,
			Owner:  p.Owner,
			Type:   t,
			Dir:    dir,
			Value:  coerce(t, p.Value),
			Signal: p.Signal,
		})
		if err != nil {
			return nil, err
		}
	}
	return ns, nil
}

func parseType(s string) (hal.Type, error) {
	if s == "" {
		return "", nil
	}
	t, ok := hal.ParseType(s)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown type %q", s)
	}
	return t, nil
}

// coerce normalizes decoded values (TOML integers, JSON floats) to the Go
// type halcmd parsing would have produced for t.
func coerce(t hal.Type, v any) any {
	if v == nil || t == "" {
		return v
	}
	return hal.ParseValue(t, hal.FormatValue(v))
}

// Provider re-reads a snapshot file on every query, so edits to the file show
// up on the next refresh.
type Provider struct {
	Path string
}

// Pins implements [hal.Provider].
func (p Provider) Pins(ctx context.Context) ([]hal.Pin, error) {
	ns, err := Load(p.Path)
	if err != nil {
		return nil, err
	}
	return ns.Pins(ctx)
}

// Signals implements [hal.Provider].
func (p Provider) Signals(ctx context.Context) ([]hal.Signal, error) {
	ns, err := Load(p.Path)
	if err != nil {
		return nil, err
	}
	return ns.Signals(ctx)
}
