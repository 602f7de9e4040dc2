package document

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

func sampleDocument() *Document {
	d := New()
	red := mindmap.Color{R: 200, G: 30, B: 30}
	d.Nodes = []mindmap.Node{
		{Index: 0, Text: "root", Size: mindmap.Size{W: 120, H: 80}, Color: &red},
		{Index: 1, Text: "child", Size: mindmap.Size{W: 120, H: 80}, ImageRef: "img-1"},
	}
	d.Edges = []mindmap.Edge{
		{SourceIndex: 0, TargetIndex: 1, ArrowMode: mindmap.ArrowDouble},
	}
	d.Images = []Image{{ID: "img-1", Data: "aGVsbG8="}}
	return d
}

func TestNewDefaults(t *testing.T) {
	d := New()
	if d.ID == "" {
		t.Error("missing ID")
	}
	if d.Version != CurrentVersion {
		t.Errorf("version = %d, want %d", d.Version, CurrentVersion)
	}
	if d.EdgeWidth != DefaultEdgeWidth || d.TextSize != DefaultTextSize || d.CornerRadius != DefaultCornerRadius {
		t.Errorf("unexpected style defaults: %+v", d)
	}
}

func TestRoundTrip(t *testing.T) {
	d := sampleDocument()
	d.Nodes[0].Location = mindmap.Point{X: -30, Y: 12.5}

	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.ID != d.ID || got.Version != d.Version {
		t.Errorf("identity changed: %s/%d -> %s/%d", d.ID, d.Version, got.ID, got.Version)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 || len(got.Images) != 1 {
		t.Fatalf("lists changed: %d nodes, %d edges, %d images",
			len(got.Nodes), len(got.Edges), len(got.Images))
	}
	if got.Nodes[0].Location != d.Nodes[0].Location {
		t.Errorf("location = %+v, want %+v", got.Nodes[0].Location, d.Nodes[0].Location)
	}
	if got.Nodes[0].Color == nil || *got.Nodes[0].Color != *d.Nodes[0].Color {
		t.Errorf("node color lost: %+v", got.Nodes[0].Color)
	}
	if got.Edges[0].ArrowMode != mindmap.ArrowDouble {
		t.Errorf("arrow mode = %v", got.Edges[0].ArrowMode)
	}
}

func TestReadWriteFile(t *testing.T) {
	d := sampleDocument()
	path := filepath.Join(t.TempDir(), "map.json")

	if err := WriteFile(d, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.ID != d.ID || len(got.Nodes) != len(d.Nodes) {
		t.Errorf("file round trip changed document: %+v", got)
	}
}

func TestReadRejectsNewerVersion(t *testing.T) {
	d := sampleDocument()
	d.Version = CurrentVersion + 1
	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := Read(bytes.NewReader(data)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestReadDefaultsMissingVersion(t *testing.T) {
	got, err := Unmarshal([]byte(`{"id":"x","nodes":[],"edges":[]}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Version != CurrentVersion {
		t.Errorf("version = %d, want %d", got.Version, CurrentVersion)
	}
}

func TestValidateImageRefs(t *testing.T) {
	d := sampleDocument()
	d.Images = nil
	if err := d.Validate(); !errors.Is(err, ErrUnknownImageRef) {
		t.Errorf("err = %v, want ErrUnknownImageRef", err)
	}
}

func TestToGraph(t *testing.T) {
	d := sampleDocument()
	g, err := d.ToGraph()
	if err != nil {
		t.Fatalf("ToGraph: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("graph has %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}

	d.Edges = append(d.Edges, mindmap.Edge{SourceIndex: 0, TargetIndex: 9})
	if _, err := d.ToGraph(); !errors.Is(err, mindmap.ErrUnknownTargetNode) {
		t.Errorf("err = %v, want ErrUnknownTargetNode", err)
	}
}

func TestApplyGraph(t *testing.T) {
	d := sampleDocument()
	g, err := d.ToGraph()
	if err != nil {
		t.Fatalf("ToGraph: %v", err)
	}
	n, _ := g.Node(1)
	n.SetLocation(42, -7)

	d.ApplyGraph(g)
	if d.Nodes[1].Location != (mindmap.Point{X: 42, Y: -7}) {
		t.Errorf("location = %+v", d.Nodes[1].Location)
	}
	if d.Nodes[0].Location != (mindmap.Point{}) {
		t.Errorf("untouched node moved: %+v", d.Nodes[0].Location)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := sampleDocument()
	c := d.Clone()

	c.Nodes[0].Text = "changed"
	c.Nodes[0].Color.R = 1
	c.Edges[0].Text = "changed"

	if d.Nodes[0].Text == "changed" || d.Edges[0].Text == "changed" {
		t.Error("clone shares list backing arrays")
	}
	if d.Nodes[0].Color.R == 1 {
		t.Error("clone shares color pointers")
	}
}
