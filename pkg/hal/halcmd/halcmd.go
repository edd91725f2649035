// Package halcmd reads a live HAL namespace through the halcmd program.
//
// Pins come from "halcmd -s show pin" and signals from "halcmd -s show sig".
// Both the script-friendly (-s) layout and the human layout with headers and
// continuation lines are accepted, so output captured from either can be
// parsed with [ParsePins] and [ParseSignals].
package halcmd

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/hal"
	"github.com/matzehuels/halgraph/pkg/observability"
)

// DefaultPath is the program looked up on PATH when no path is configured.
const DefaultPath = "halcmd"

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Provider implements [hal.Provider] on top of halcmd.
type Provider struct {
	path string
	run  Runner
}

// Option configures a Provider.
type Option func(*Provider)

// WithPath sets the halcmd executable.
func WithPath(path string) Option {
	return func(p *Provider) {
		if path != "" {
			p.path = path
		}
	}
}

// WithRunner replaces the command runner. Tests use it to feed canned output.
func WithRunner(r Runner) Option {
	return func(p *Provider) {
		if r != nil {
			p.run = r
		}
	}
}

// New creates a Provider that runs halcmd from PATH unless configured otherwise.
func New(opts ...Option) *Provider {
	p := &Provider{path: DefaultPath, run: execRunner}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pins implements [hal.Provider].
func (p *Provider) Pins(ctx context.Context) ([]hal.Pin, error) {
	out, err := p.query(ctx, "pin")
	if err != nil {
		return nil, err
	}
	return ParsePins(out), nil
}

// Signals implements [hal.Provider].
func (p *Provider) Signals(ctx context.Context) ([]hal.Signal, error) {
	out, err := p.query(ctx, "sig")
	if err != nil {
		return nil, err
	}
	return ParseSignals(out), nil
}

func (p *Provider) query(ctx context.Context, what string) ([]byte, error) {
	start := time.Now()
	out, err := p.run(ctx, p.path, "-s", "show", what)
	observability.Backend().OnQuery(ctx, "show "+what, time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeBackendUnavailable, err, "%s show %s", p.path, what)
	}
	return out, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, &runError{err: err, stderr: msg}
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

type runError struct {
	err    error
	stderr string
}

func (e *runError) Error() string { return e.err.Error() + ": " + e.stderr }
func (e *runError) Unwrap() error { return e.err }

// ParsePins parses "show pin" output. Each pin line reads
//
//	owner type dir value name [arrow signal]
//
// Lines that do not fit (headers, blank lines, parameter sections) are skipped.
func ParsePins(out []byte) []hal.Pin {
	var pins []hal.Pin
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) < 5 {
			continue
		}
		typ, ok := hal.ParseType(f[1])
		if !ok {
			continue
		}
		dir, ok := hal.ParseDirection(f[2])
		if !ok {
			continue
		}
		pin := hal.Pin{
			Owner: f[0],
			Type:  typ,
			Dir:   dir,
			Value: hal.ParseValue(typ, f[3]),
			Name:  f[4],
		}
		if len(f) >= 7 && isArrow(f[5]) {
			pin.Signal = f[6]
		}
		pins = append(pins, pin)
	}
	return pins
}

// ParseSignals parses "show sig" output. A signal line reads
//
//	type value name [arrow pin]...
//
// and further "arrow pin" pairs may follow on continuation lines. The pin
// whose arrow points into the signal ("<==") is the writer.
func ParseSignals(out []byte) []hal.Signal {
	var (
		sigs []hal.Signal
		cur  *hal.Signal
	)
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		if typ, ok := hal.ParseType(f[0]); ok && len(f) >= 3 {
			sigs = append(sigs, hal.Signal{
				Type:  typ,
				Value: hal.ParseValue(typ, f[1]),
				Name:  f[2],
			})
			cur = &sigs[len(sigs)-1]
			f = f[3:]
		} else if cur == nil || !isArrow(f[0]) {
			cur = nil
			continue
		}
		for i := 0; i+1 < len(f); i += 2 {
			if !isArrow(f[i]) {
				break
			}
			cur.Pins = append(cur.Pins, f[i+1])
			if f[i] == "<==" && cur.Writer == "" {
				cur.Writer = f[i+1]
			}
		}
	}
	return sigs
}

func isArrow(s string) bool {
	return s == "==>" || s == "<==" || s == "<=>"
}
