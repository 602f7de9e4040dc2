// Package pkg provides the core libraries for mindgrid mind-map layout.
//
// # Overview
//
// Mindgrid computes node positions for mind-map documents by simulated
// annealing on a coarse lattice. The pkg directory is organized into these
// areas:
//
//  1. [mindmap] - Graph model (nodes, edges, styling)
//  2. [layout] - Grid construction, cost model, and annealing
//  3. [document] - Document format, validation, and serialization
//  4. [render] - DOT generation and graphviz rasterization
//  5. [pipeline] - Orchestration (load → optimize → render) with caching
//  6. [cache], [store] - Layout cache and document storage backends
//
// # Architecture
//
// The typical data flow through mindgrid:
//
//	Document (JSON)
//	         ↓
//	    [document] package (validate, convert to graph)
//	         ↓
//	    [layout] package (grid + simulated annealing)
//	         ↓
//	    [render] package (DOT → SVG/PNG)
//	         ↓
//	    placed document / preview output
//
// # Quick Start
//
// Optimize a document and render an SVG:
//
//	import (
//	    "context"
//	    "github.com/mindgrid/mindgrid/pkg/document"
//	    "github.com/mindgrid/mindgrid/pkg/pipeline"
//	)
//
//	doc, _ := document.ReadFile("map.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Run(context.Background(), doc, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// [mindmap] - The in-memory graph: indexed nodes with sizes, locations, and
// styling, connected by optionally directed edges.
//
// [layout] - The optimizer. Builds a lattice sized from the nodes' total
// footprint and target aspect ratio, then anneals placements to minimize
// Manhattan edge length.
//
// [document] - The persistent document format carrying nodes, edges, global
// styling, and base64 image attachments, with versioned JSON serialization.
//
// [render] - DOT output with pinned positions and SVG/PNG rasterization via
// goccy/go-graphviz.
//
// [pipeline] - The shared load → optimize → render path used by CLI and API,
// with layout results cached by graph content and options.
//
// [cache] - Layout cache backends: file (hash-sharded directories), Redis,
// and null, plus retry helpers for transient backend failures.
//
// [store] - Document storage backends: memory, file, SQLite, and MongoDB.
//
// [errors] - Structured errors with machine-readable codes shared by CLI and
// API.
//
// [observability] - Optional hooks for layout, render, and cache events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//
// [mindmap]: https://pkg.go.dev/github.com/mindgrid/mindgrid/pkg/mindmap
// [layout]: https://pkg.go.dev/github.com/mindgrid/mindgrid/pkg/layout
// [document]: https://pkg.go.dev/github.com/mindgrid/mindgrid/pkg/document
// [render]: https://pkg.go.dev/github.com/mindgrid/mindgrid/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/mindgrid/mindgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/mindgrid/mindgrid/pkg/cache
// [store]: https://pkg.go.dev/github.com/mindgrid/mindgrid/pkg/store
// [errors]: https://pkg.go.dev/github.com/mindgrid/mindgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/mindgrid/mindgrid/pkg/observability
package pkg
