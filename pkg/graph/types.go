package graph

// DefaultName is the graph name written into every document.
const DefaultName = "Hal graph"

// NodeKind distinguishes signal nodes from pin-group nodes.
type NodeKind int

const (
	// KindSignal is a node standing for one HAL signal.
	KindSignal NodeKind = iota
	// KindGroup is a table-like node listing the bound pins of one component
	// instance.
	KindGroup
)

func (k NodeKind) String() string {
	if k == KindGroup {
		return "group"
	}
	return "signal"
}

// Attr is a single layout attribute. Attributes are kept as ordered slices so
// serialization is deterministic.
type Attr struct {
	Key   string
	Value string
}

// Row is one pin line of a group node.
type Row struct {
	Port  string // layout-safe port ID, SafeName(Label)
	Label string // short pin name
	Pin   string // full dotted pin name
}

// Node is a visual node of the document. Signal nodes are identified by the
// raw signal name and group nodes by SafeName of the group key, so a signal
// named "motor_0" and the group "motor.0" share an ID.
type Node struct {
	ID    string   // layout identifier
	Kind  NodeKind // signal or group
	Label string   // signal name or group key
	Value string   // formatted value snapshot; signals only
	Rows  []Row    // member pins; groups only
}

// Endpoint addresses a node, or a port within a group node.
type Endpoint struct {
	Node string
	Port string
}

// String returns "node" or "node:port".
func (e Endpoint) String() string {
	if e.Port == "" {
		return e.Node
	}
	return e.Node + ":" + e.Port
}

// Edge is a directed pin-to-signal relationship.
type Edge struct {
	From   Endpoint
	To     Endpoint
	Signal string // signal name
	Pin    string // full pin name
	Writer bool   // true when Pin is the signal's designated writer
	Attrs  []Attr // cosmetic layout attributes
}

// Document is an abstract directed graph ready for serialization. It is built
// from scratch on every refresh and never modified afterwards.
type Document struct {
	Name  string
	Attrs []Attr // graph-level layout attributes
	Nodes []Node // signal and group nodes, in discovery order
	Edges []Edge // edges, in signal enumeration order
}

// Graph-level and per-edge layout attributes.
var (
	defaultGraphAttrs = []Attr{
		{"rankdir", "LR"},
		{"splines", "spline"},
		{"overlap", "false"},
		{"start", "regular"},
	}
	writerEdgeAttrs = []Attr{
		{"arrowhead", "none"},
		{"penwidth", "2"},
		{"splines", "ortho"},
	}
	readerEdgeAttrs = []Attr{
		{"penwidth", "2"},
		{"splines", "ortho"},
	}
)

// NewDocument returns an empty document carrying the default graph attributes.
func NewDocument() *Document {
	return &Document{
		Name:  DefaultName,
		Attrs: append([]Attr(nil), defaultGraphAttrs...),
	}
}

// Node returns the node with the given ID.
func (d *Document) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeCount returns the number of nodes.
func (d *Document) NodeCount() int { return len(d.Nodes) }

// EdgeCount returns the number of edges.
func (d *Document) EdgeCount() int { return len(d.Edges) }

// Count returns the number of nodes of the given kind.
func (d *Document) Count(kind NodeKind) int {
	n := 0
	for _, node := range d.Nodes {
		if node.Kind == kind {
			n++
		}
	}
	return n
}
