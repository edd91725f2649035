package graph

import (
	"strconv"
	"strings"
)

// GroupName returns the key of the pin group a dotted pin name belongs to.
//
// Names with more than two segments whose second segment is a non-negative
// integer are grouped by component instance ("motor.0.enable" → "motor.0").
// Everything else is grouped by its first segment ("motion.enable" → "motion",
// "pid.x.out" → "pid"). Malformed instance numbers are not an error; the
// coarser grouping is used instead.
func GroupName(pin string) string {
	seg := strings.Split(pin, ".")
	if len(seg) > 2 {
		if n, err := strconv.Atoi(seg[1]); err == nil && n >= 0 {
			return seg[0] + "." + seg[1]
		}
	}
	return seg[0]
}

// ShortName returns the last dotted segment of a pin name.
func ShortName(pin string) string {
	if i := strings.LastIndexByte(pin, '.'); i >= 0 {
		return pin[i+1:]
	}
	return pin
}

var safeReplacer = strings.NewReplacer(".", "_", "-", "_")

// SafeName maps a HAL name onto an identifier Graphviz accepts as a node or
// port ID by replacing every '.' and '-' with '_'. It is idempotent.
//
// Distinct names can collide ("in-a" and "in_a"); callers get whichever row
// or node the layout engine resolves the shared identifier to.
func SafeName(name string) string {
	return safeReplacer.Replace(name)
}

// PinEndpoint returns the group-node port a pin is drawn at.
func PinEndpoint(pin string) Endpoint {
	return Endpoint{Node: SafeName(GroupName(pin)), Port: SafeName(ShortName(pin))}
}
