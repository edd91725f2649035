// Package hal models a HAL namespace: pins, signals and the links between
// them.
//
// # Overview
//
// A HAL instance is a flat namespace of dotted pin names ("motor.0.enable")
// and signal names. A pin is bound to at most one signal; a signal has at most
// one writer pin (an OUT pin) and any number of readers.
//
// # Providers
//
// Consumers read a namespace through the [Provider] interface. Implementations:
//
//   - [Namespace]: an in-memory namespace, used for tests and as the backing
//     store of snapshot files
//   - [halcmd.Provider]: queries a running HAL through the halcmd program
//   - [snapshot.Load]: reads a TOML or JSON snapshot from disk
//
// Providers are read-only from the consumer's perspective.
//
// [halcmd.Provider]: github.com/matzehuels/halgraph/pkg/hal/halcmd
// [snapshot.Load]: github.com/matzehuels/halgraph/pkg/hal/snapshot
package hal
