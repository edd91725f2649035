package graph

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/hal"
	"github.com/matzehuels/halgraph/pkg/observability"
)

// Builder turns a HAL namespace into a [Document].
type Builder struct {
	ns hal.Provider
}

// NewBuilder returns a Builder reading from ns.
func NewBuilder(ns hal.Provider) *Builder {
	return &Builder{ns: ns}
}

type pinGroup struct {
	key  string
	pins []hal.Pin
}

// Build walks the namespace and returns a fresh document.
//
// The first pass enumerates pins: every bound pin registers its signal (the
// first pin seen for a signal supplies the value shown on the signal node) and
// joins its group. Unbound pins are ignored, so no empty groups are produced.
// The second pass enumerates signals and emits one edge per bound pin,
// pointing from the writer into the signal and from the signal to every
// other pin.
//
// All nodes are recorded before edges. If the namespace changes between the
// two passes, edges may name nodes the first pass never saw; they are kept and
// left for the layout engine to resolve.
//
// Provider failures are reported as BACKEND_UNAVAILABLE unless they already
// carry a code. Context cancellation is returned as is.
func (b *Builder) Build(ctx context.Context) (doc *Document, err error) {
	start := time.Now()
	observability.Graph().OnBuildStart(ctx)
	defer func() {
		var nodes, edges int
		if doc != nil {
			nodes, edges = doc.NodeCount(), doc.EdgeCount()
		}
		observability.Graph().OnBuildComplete(ctx, nodes, edges, time.Since(start), err)
	}()

	if b.ns == nil {
		return nil, errors.New(errors.ErrCodeBackendUnavailable, "no HAL namespace configured")
	}

	pins, err := b.ns.Pins(ctx)
	if err != nil {
		return nil, backendError(ctx, err, "list pins")
	}

	doc = NewDocument()
	seen := make(map[string]bool)
	groupIdx := make(map[string]*pinGroup)
	var groups []*pinGroup

	for _, p := range pins {
		if !p.Bound() {
			continue
		}
		if !seen[p.Signal] {
			seen[p.Signal] = true
			doc.Nodes = append(doc.Nodes, Node{
				ID:    p.Signal,
				Kind:  KindSignal,
				Label: p.Signal,
				Value: hal.FormatValue(p.Value),
			})
		}

		key := GroupName(p.Name)
		g, ok := groupIdx[key]
		if !ok {
			g = &pinGroup{key: key}
			groupIdx[key] = g
			groups = append(groups, g)
		}
		g.pins = append(g.pins, p)
	}

	for _, g := range groups {
		rows := make([]Row, len(g.pins))
		for i, p := range g.pins {
			short := ShortName(p.Name)
			rows[i] = Row{Port: SafeName(short), Label: short, Pin: p.Name}
		}
		doc.Nodes = append(doc.Nodes, Node{
			ID:    SafeName(g.key),
			Kind:  KindGroup,
			Label: g.key,
			Rows:  rows,
		})
	}

	sigs, err := b.ns.Signals(ctx)
	if err != nil {
		return nil, backendError(ctx, err, "list signals")
	}

	for _, s := range sigs {
		sig := Endpoint{Node: s.Name}
		for _, name := range s.Pins {
			pin := PinEndpoint(name)
			if s.IsWriter(name) {
				doc.Edges = append(doc.Edges, Edge{
					From: pin, To: sig, Signal: s.Name, Pin: name, Writer: true,
					Attrs: slices.Clone(writerEdgeAttrs),
				})
				continue
			}
			doc.Edges = append(doc.Edges, Edge{
				From: sig, To: pin, Signal: s.Name, Pin: name,
				Attrs: slices.Clone(readerEdgeAttrs),
			})
		}
	}

	return doc, nil
}

func backendError(ctx context.Context, err error, op string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.EnsureCode(err, errors.ErrCodeBackendUnavailable, "%s", op)
}
