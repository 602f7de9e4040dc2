// Package pipeline runs the complete load → optimize → extract → render flow
// for mind-map documents. CLI and API both go through it, so caching and
// defaulting behave the same at every entry point.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{pipeline.FormatJSON}}
//	result, err := runner.Run(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	optimized := result.Document
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mindgrid/mindgrid/pkg/cache"
	"github.com/mindgrid/mindgrid/pkg/document"
	"github.com/mindgrid/mindgrid/pkg/layout"
)

// Defaults shared by CLI and API.
const (
	// DefaultAspectRatio is the target width/height of the overall layout.
	DefaultAspectRatio = 1.6

	// DefaultMinEdgeLength is the spacing between neighboring nodes.
	DefaultMinEdgeLength = 40.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultCacheTTL bounds how long layout results stay cached.
	DefaultCacheTTL = 24 * time.Hour
)

// Output format constants.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for a pipeline run.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	AspectRatio   float64        `json:"aspect_ratio,omitempty"`
	MinEdgeLength float64        `json:"min_edge_length,omitempty"`
	Seed          uint64         `json:"seed,omitempty"`
	Tuning        *layout.Tuning `json:"tuning,omitempty"` // nil selects layout.DefaultTuning

	// Render options
	Formats []string `json:"formats,omitempty"`

	// NoCache bypasses the layout cache for this run.
	NoCache bool `json:"no_cache,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// Idempotent: calling it repeatedly has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.AspectRatio < 0 {
		return fmt.Errorf("aspect_ratio must be positive, got %v", o.AspectRatio)
	}
	if o.MinEdgeLength < 0 {
		return fmt.Errorf("min_edge_length must not be negative, got %v", o.MinEdgeLength)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.AspectRatio == 0 {
		o.AspectRatio = DefaultAspectRatio
	}
	if o.MinEdgeLength == 0 {
		o.MinEdgeLength = DefaultMinEdgeLength
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// TuningOrDefault returns the configured tuning or the standard schedule.
func (o *Options) TuningOrDefault() layout.Tuning {
	if o.Tuning != nil {
		return *o.Tuning
	}
	return layout.DefaultTuning
}

// LayoutKeyOpts returns cache key options for this configuration.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		AspectRatio:   o.AspectRatio,
		MinEdgeLength: o.MinEdgeLength,
		Seed:          o.Seed,
		Tuning:        o.TuningOrDefault(),
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the optimized document, with final node locations.
	// The input document is never mutated.
	Document *document.Document

	// GraphHash is the content hash of the input graph (locations
	// excluded), as used for cache keys.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and cost information.
	Stats Stats

	// CacheInfo tracks whether the layout came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	CostBefore float64
	CostAfter  float64
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache usage for a run.
type CacheInfo struct {
	LayoutHit bool // whether the placement came from cache
}
