package hal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Type is the value type carried by a pin or signal.
type Type string

// HAL value types as reported by halcmd.
const (
	TypeBit   Type = "bit"
	TypeFloat Type = "float"
	TypeS32   Type = "s32"
	TypeU32   Type = "u32"
	TypeS64   Type = "s64"
	TypeU64   Type = "u64"
	TypePort  Type = "port"
)

// ParseType parses a type keyword. It reports false for anything that is not
// a known HAL type, which callers use to skip header lines.
func ParseType(s string) (Type, bool) {
	switch t := Type(strings.ToLower(s)); t {
	case TypeBit, TypeFloat, TypeS32, TypeU32, TypeS64, TypeU64, TypePort:
		return t, true
	}
	return "", false
}

// Direction is the data direction of a pin relative to its component.
type Direction int

const (
	// In pins read from their signal.
	In Direction = iota
	// Out pins write their signal. A signal has at most one.
	Out
	// IO pins both read and write.
	IO
)

// String returns the halcmd spelling of the direction.
func (d Direction) String() string {
	switch d {
	case Out:
		return "OUT"
	case IO:
		return "I/O"
	default:
		return "IN"
	}
}

// ParseDirection accepts "IN", "OUT", "I/O" and "IO" in any case.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(s) {
	case "IN":
		return In, true
	case "OUT":
		return Out, true
	case "I/O", "IO":
		return IO, true
	}
	return 0, false
}

// Pin is a named I/O point of a component instance.
type Pin struct {
	Name   string    // dotted name, e.g. "motor.0.enable"
	Owner  string    // owning component, if known
	Type   Type      // value type
	Dir    Direction // data direction
	Value  any       // bool, float64, int64, uint64 or string
	Signal string    // bound signal name, empty when unbound
}

// Bound reports whether the pin is linked to a signal.
func (p Pin) Bound() bool { return p.Signal != "" }

// Signal is a named connector between pins.
type Signal struct {
	Name   string
	Type   Type
	Value  any
	Writer string   // name of the designated writer pin, empty when none
	Pins   []string // bound pin names in link order
}

// IsWriter reports whether pin is the signal's designated writer.
func (s Signal) IsWriter(pin string) bool {
	return s.Writer != "" && s.Writer == pin
}

// Provider exposes a read-only view of a HAL namespace.
//
// Both methods enumerate the namespace afresh; callers must not assume two
// calls observe the same snapshot.
type Provider interface {
	Pins(ctx context.Context) ([]Pin, error)
	Signals(ctx context.Context) ([]Signal, error)
}

// FormatValue renders a pin or signal value the way halcmd prints it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(x, 'g', 7, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', 7, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case uint64:
		return strconv.FormatUint(x, 10)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// ParseValue converts halcmd's textual value into a typed value. Values that
// do not parse are kept as strings.
func ParseValue(t Type, s string) any {
	switch t {
	case TypeBit:
		switch strings.ToUpper(s) {
		case "TRUE", "1":
			return true
		case "FALSE", "0":
			return false
		}
	case TypeFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case TypeS32, TypeS64:
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i
		}
	case TypeU32, TypeU64:
		if u, err := strconv.ParseUint(s, 0, 64); err == nil {
			return u
		}
	}
	return s
}
