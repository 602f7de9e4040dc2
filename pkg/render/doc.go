// Package render turns mind-map documents into visual output.
//
// # Overview
//
// The package generates Graphviz DOT from a document and rasterizes it to
// SVG or PNG with goccy/go-graphviz. When the document carries computed node
// locations, positions are pinned in the DOT output so the drawing matches
// the optimized placement exactly.
//
// # DOT Generation
//
// [ToDOT] emits an undirected graph with the document's styling (background
// color, edge color and width, text size) applied. With
// [Options.UsePositions] set, nodes get fixed pos attributes and the neato
// layout engine is selected.
//
//	dot := render.ToDOT(doc, render.Options{UsePositions: true})
//
// # Rasterization
//
// [RenderSVG] and [RenderPNG] run graphviz in-process:
//
//	svg, err := render.RenderSVG(ctx, dot)
//	png, err := render.RenderPNG(ctx, dot)
package render
