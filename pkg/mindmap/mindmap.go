package mindmap

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeIndex is returned by [Graph.AddNode] when the node
	// carries a negative index. Indices are assigned by the caller and must
	// be non-negative.
	ErrInvalidNodeIndex = errors.New("node index must not be negative")

	// ErrDuplicateNodeIndex is returned by [Graph.AddNode] when a node with
	// the same index already exists in the graph. Node indices must be unique.
	ErrDuplicateNodeIndex = errors.New("duplicate node index")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// index does not resolve to a node.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// index does not resolve to a node.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Point is a 2D location on the mind-map plane.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is a node's width and height.
type Size struct {
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Color is an RGB triple in the 0..255 range, matching the design document
// format.
type Color struct {
	R int `json:"r" bson:"r"`
	G int `json:"g" bson:"g"`
	B int `json:"b" bson:"b"`
}

// ArrowMode selects how an edge's arrowheads are drawn.
type ArrowMode int

const (
	// ArrowSingle draws one arrowhead at the target end.
	ArrowSingle ArrowMode = iota
	// ArrowDouble draws arrowheads at both ends.
	ArrowDouble
	// ArrowHidden draws no arrowheads.
	ArrowHidden
)

// Node is a freely placeable mind-map node. The layout optimizer reads its
// index and size and writes its location once, after optimization; everything
// else is editor state carried for round-trip fidelity.
//
// The zero value is not usable - nodes must be created with a non-negative
// index before being added to a Graph.
type Node struct {
	Index     int    `json:"index" bson:"index"`
	Text      string `json:"text,omitempty" bson:"text,omitempty"`
	Location  Point  `json:"location" bson:"location"`
	Size      Size   `json:"size" bson:"size"`
	Color     *Color `json:"color,omitempty" bson:"color,omitempty"`
	TextColor *Color `json:"text_color,omitempty" bson:"text_color,omitempty"`

	// ImageRef references an attached image by ID, or is empty when the
	// node has no background image.
	ImageRef string `json:"image_ref,omitempty" bson:"image_ref,omitempty"`
}

// SetLocation moves the node to the given location.
func (n *Node) SetLocation(x, y float64) {
	n.Location = Point{X: x, Y: y}
}

// Edge is a directed connection between two nodes, identified by node index.
type Edge struct {
	SourceIndex int       `json:"source" bson:"source"`
	TargetIndex int       `json:"target" bson:"target"`
	Text        string    `json:"text,omitempty" bson:"text,omitempty"`
	ArrowMode   ArrowMode `json:"arrow_mode,omitempty" bson:"arrow_mode,omitempty"`
	Reversed    bool      `json:"reversed,omitempty" bson:"reversed,omitempty"`
}

// Graph holds the authoritative node and edge lists of a mind map.
// Nodes keep their insertion order, which gives the layout optimizer a
// stable ordered sequence to build from.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes   []*Node
	byIndex map[int]*Node
	edges   []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{byIndex: make(map[int]*Node)}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeIndex if the index
// is negative, or ErrDuplicateNodeIndex if the index is already taken.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.Index < 0 {
		return nil, ErrInvalidNodeIndex
	}
	if _, exists := g.byIndex[n.Index]; exists {
		return nil, ErrDuplicateNodeIndex
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.byIndex[node.Index] = node
	return node, nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint
// index does not resolve.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.byIndex[e.SourceIndex]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.byIndex[e.TargetIndex]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given index and true, or nil and false.
// The returned pointer refers to the node held by the graph, so location
// updates are visible to all readers.
func (g *Graph) Node(index int) (*Node, bool) {
	n, ok := g.byIndex[index]
	return n, ok
}

// Nodes returns the nodes in insertion order. The slice is a copy but the
// pointers refer to the graph's nodes.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }
