// Package mindmap defines the graph model shared by the layout engine,
// the document format, and the rendering preview.
//
// A [Graph] owns the authoritative node and edge lists of one mind map.
// Nodes are identified by small integer indices assigned by the editor and
// keep their insertion order, which is what the layout optimizer relies on
// when it assigns lattice cells. Unlike a dependency DAG, a mind map may
// contain cycles and self-referential clusters; no acyclicity is enforced.
package mindmap
