// Package document defines the mind-map design document: the graph plus the
// visual styling the editor persists alongside it. It is the unit of storage,
// caching, and API exchange.
package document

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// CurrentVersion is the document format version written by this package.
const CurrentVersion = 1

// Style defaults applied by New.
const (
	DefaultEdgeWidth    = 2.0
	DefaultTextSize     = 11.0
	DefaultCornerRadius = 5.0
)

var (
	// ErrUnsupportedVersion is returned when a document declares a format
	// version newer than this package understands.
	ErrUnsupportedVersion = errors.New("unsupported document version")

	// ErrUnknownImageRef is returned by Validate when a node references an
	// image that is not attached to the document.
	ErrUnknownImageRef = errors.New("node references unattached image")
)

// Image is an attached image payload, referenced from nodes by ID.
type Image struct {
	ID   string `json:"id" bson:"id"`
	Data string `json:"data" bson:"data"` // base64-encoded payload
}

// Document is the canonical serialization format for a mind-map design.
// Used for file storage, the document store, caching, and API exchange.
//
// The format is designed for round-trip fidelity: load, re-layout, and save
// preserve every non-location field.
type Document struct {
	ID      string `json:"id" bson:"_id"`
	Version int    `json:"version" bson:"version"`

	BackgroundColor mindmap.Color `json:"background_color" bson:"background_color"`
	EdgeColor       mindmap.Color `json:"edge_color" bson:"edge_color"`
	EdgeWidth       float64       `json:"edge_width" bson:"edge_width"`
	TextSize        float64       `json:"text_size" bson:"text_size"`
	CornerRadius    float64       `json:"corner_radius" bson:"corner_radius"`

	Nodes  []mindmap.Node `json:"nodes" bson:"nodes"`
	Edges  []mindmap.Edge `json:"edges" bson:"edges"`
	Images []Image        `json:"images,omitempty" bson:"images,omitempty"`
}

// New creates an empty document with a fresh ID and the editor's default
// styling.
func New() *Document {
	return &Document{
		ID:              uuid.NewString(),
		Version:         CurrentVersion,
		BackgroundColor: mindmap.Color{R: 255, G: 255, B: 255},
		EdgeColor:       mindmap.Color{R: 0, G: 0, B: 0},
		EdgeWidth:       DefaultEdgeWidth,
		TextSize:        DefaultTextSize,
		CornerRadius:    DefaultCornerRadius,
	}
}

// Validate checks internal consistency beyond what ToGraph enforces:
// a supported version and resolvable image references.
func (d *Document) Validate() error {
	if d.Version > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	images := make(map[string]bool, len(d.Images))
	for _, img := range d.Images {
		images[img.ID] = true
	}
	for _, n := range d.Nodes {
		if n.ImageRef != "" && !images[n.ImageRef] {
			return fmt.Errorf("%w: node %d -> %q", ErrUnknownImageRef, n.Index, n.ImageRef)
		}
	}
	return nil
}

// ToGraph builds a mind-map graph from the document's node and edge lists.
// Node and edge validation is delegated to the graph: duplicate or negative
// indices and dangling edge endpoints surface as mindmap errors.
func (d *Document) ToGraph() (*mindmap.Graph, error) {
	g := mindmap.New()
	for _, n := range d.Nodes {
		if _, err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %d: %w", n.Index, err)
		}
	}
	for _, e := range d.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("edge %d->%d: %w", e.SourceIndex, e.TargetIndex, err)
		}
	}
	return g, nil
}

// ApplyGraph copies node locations from the graph back into the document.
// Nodes are matched by index; document nodes without a graph counterpart are
// left untouched.
func (d *Document) ApplyGraph(g *mindmap.Graph) {
	for i := range d.Nodes {
		if n, ok := g.Node(d.Nodes[i].Index); ok {
			d.Nodes[i].Location = n.Location
		}
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := *d
	out.Nodes = append([]mindmap.Node(nil), d.Nodes...)
	out.Edges = append([]mindmap.Edge(nil), d.Edges...)
	out.Images = append([]Image(nil), d.Images...)
	for i := range out.Nodes {
		if c := out.Nodes[i].Color; c != nil {
			cc := *c
			out.Nodes[i].Color = &cc
		}
		if c := out.Nodes[i].TextColor; c != nil {
			cc := *c
			out.Nodes[i].TextColor = &cc
		}
	}
	return &out
}
