// Package pkg provides the core libraries for halgraph, a viewer for the
// signal and pin graph of a HAL (Hardware Abstraction Layer) namespace.
//
// # Overview
//
// A HAL namespace holds named pins owned by realtime components and signals
// that connect them. halgraph reads the namespace, groups pins by component
// instance and draws every signal as a node between its writer and readers.
//
// # Architecture
//
// The data flow through halgraph:
//
//	HAL namespace (halcmd, snapshot file, in memory)
//	         ↓
//	    [hal] package (pins, signals, providers)
//	         ↓
//	    [graph] package (grouping + document model)
//	         ↓
//	    [render] package (DOT, layout engine, format conversion)
//	         ↓
//	    SVG/PDF/PNG/DOT output or the interactive view
//
// # Quick Start
//
// Build and export the graph of a running machine:
//
//	import (
//	    "github.com/matzehuels/halgraph/pkg/graph"
//	    "github.com/matzehuels/halgraph/pkg/hal/halcmd"
//	    "github.com/matzehuels/halgraph/pkg/render"
//	)
//
//	doc, err := graph.NewBuilder(halcmd.New()).Build(ctx)
//	if err != nil {
//	    return err
//	}
//	svg, err := render.Export(ctx, render.ExecEngine{}, doc, render.FormatSVG)
//
// # Main Packages
//
// [hal] - Pin and signal types, the [hal.Provider] interface and an in-memory
// namespace enforcing HAL linking rules. Subpackages [hal/halcmd] and
// [hal/snapshot] read live and recorded namespaces.
//
// [graph] - Naming rules (group keys, layout-safe IDs) and the two-pass
// builder producing a [graph.Document].
//
// [render] - DOT serialization, the exec and builtin layout engines, and
// export to SVG, PDF, PNG or DOT.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for build, render and namespace query events.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./...
//
// Tests that need Graphviz skip themselves when dot is not installed.
//
// [hal]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/hal
// [hal.Provider]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/hal#Provider
// [hal/halcmd]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/hal/halcmd
// [hal/snapshot]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/hal/snapshot
// [graph]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/graph
// [graph.Document]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/graph#Document
// [render]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/halgraph/pkg/buildinfo
package pkg
