// Package graph builds the abstract graph document of a HAL namespace.
//
// # Overview
//
// The document contains one node per signal, one table-like node per pin
// group and one directed edge per pin-to-signal link:
//
//	motor_0:enable -> enable-sig      (writer pin into its signal)
//	enable-sig -> motor_0:running     (signal out to each reader)
//
// # Grouping
//
// Pins are grouped by component instance using [GroupName]; each group node
// lists its pins by [ShortName], with ports named by [SafeName] so edges can
// attach to individual rows.
//
// # Building
//
// [Builder.Build] reads a [hal.Provider] and returns a new [Document] on every
// call. Documents are never updated in place; the interactive view replaces
// the whole document on every refresh.
//
//	doc, err := graph.NewBuilder(provider).Build(ctx)
//	dot := render.ToDOT(doc)
//
// [hal.Provider]: github.com/matzehuels/halgraph/pkg/hal.Provider
package graph
