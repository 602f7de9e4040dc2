package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mindgrid/mindgrid/pkg/cache"
	"github.com/mindgrid/mindgrid/pkg/document"
	"github.com/mindgrid/mindgrid/pkg/layout"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
	"github.com/mindgrid/mindgrid/pkg/observability"
	"github.com/mindgrid/mindgrid/pkg/render"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// run results. Multiple goroutines can safely share one Runner, each run
// getting its own Optimizer.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer selects the default keyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// layoutEntry is the cached result of one optimization run.
type layoutEntry struct {
	Positions  map[int]mindmap.Point `json:"positions"`
	CostBefore float64               `json:"cost_before"`
	CostAfter  float64               `json:"cost_after"`
}

// Run optimizes the document's layout and renders the requested formats.
// The input document is not mutated; the optimized copy is returned in the
// result.
func (r *Runner) Run(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	g, err := doc.ToGraph()
	if err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	work := doc.Clone()
	result := &Result{
		Document:  work,
		GraphHash: graphHash(doc),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	cacheKey := r.Keyer.LayoutKey(result.GraphHash, opts.LayoutKeyOpts())

	observability.Layout().OnLayoutStart(ctx, result.Stats.NodeCount, result.Stats.EdgeCount)
	layoutStart := time.Now()
	entry, hit := r.lookupLayout(ctx, cacheKey, opts)
	if hit {
		for i := range work.Nodes {
			if p, ok := entry.Positions[work.Nodes[i].Index]; ok {
				work.Nodes[i].Location = p
			}
		}
		result.CacheInfo.LayoutHit = true
	} else {
		entry, err = r.optimize(ctx, g, opts)
		if err != nil {
			observability.Layout().OnLayoutComplete(ctx, 0, time.Since(layoutStart), err)
			return nil, fmt.Errorf("layout: %w", err)
		}
		work.ApplyGraph(g)
		r.storeLayout(ctx, cacheKey, entry)
	}
	result.Stats.CostBefore = entry.CostBefore
	result.Stats.CostAfter = entry.CostAfter
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Layout().OnLayoutComplete(ctx, entry.CostAfter, result.Stats.LayoutTime, nil)

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cost", entry.CostAfter,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	observability.Layout().OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	for _, format := range opts.Formats {
		data, err := r.renderFormat(ctx, work, format)
		if err != nil {
			observability.Layout().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
	}
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Layout().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, nil)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// optimize runs the annealer over the graph and collects the final node
// positions.
func (r *Runner) optimize(ctx context.Context, g *mindmap.Graph, opts Options) (layoutEntry, error) {
	o := layout.New(g,
		layout.WithSeed(opts.Seed),
		layout.WithLogger(opts.Logger),
		layout.WithTuning(opts.TuningOrDefault()))

	if err := o.Initialize(opts.AspectRatio, opts.MinEdgeLength); err != nil {
		return layoutEntry{}, err
	}
	entry := layoutEntry{CostBefore: o.Cost()}

	if err := o.Optimize(ctx); err != nil {
		return layoutEntry{}, err
	}
	if err := o.Extract(); err != nil {
		return layoutEntry{}, err
	}
	entry.CostAfter = o.Cost()

	entry.Positions = make(map[int]mindmap.Point, g.NodeCount())
	for _, n := range g.Nodes() {
		entry.Positions[n.Index] = n.Location
	}
	return entry, nil
}

// lookupLayout consults the cache; failures are logged and treated as
// misses.
func (r *Runner) lookupLayout(ctx context.Context, key string, opts Options) (layoutEntry, bool) {
	if opts.NoCache {
		return layoutEntry{}, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("layout cache read failed", "err", err)
		observability.Cache().OnCacheMiss(ctx, "layout")
		return layoutEntry{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return layoutEntry{}, false
	}
	var entry layoutEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		r.Logger.Warn("layout cache entry corrupt", "err", err)
		observability.Cache().OnCacheMiss(ctx, "layout")
		return layoutEntry{}, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return entry, true
}

// storeLayout writes the entry to the cache. Transient backend failures are
// retried; a run never fails because of the cache.
func (r *Runner) storeLayout(ctx context.Context, key string, entry layoutEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		r.Logger.Warn("layout cache encode failed", "err", err)
		return
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, DefaultCacheTTL)
	})
	if err != nil {
		r.Logger.Warn("layout cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "layout", len(data))
}

func (r *Runner) renderFormat(ctx context.Context, doc *document.Document, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return document.Marshal(doc)
	case FormatDOT:
		return []byte(render.ToDOT(doc, render.Options{UsePositions: true})), nil
	case FormatSVG:
		return render.RenderSVG(ctx, render.ToDOT(doc, render.Options{UsePositions: true}))
	case FormatPNG:
		return render.RenderPNG(ctx, render.ToDOT(doc, render.Options{UsePositions: true}))
	default:
		return nil, ValidateFormat(format)
	}
}

// graphHash hashes the document's graph content with locations zeroed, so a
// re-layout of the same graph hits the same cache entry.
func graphHash(doc *document.Document) string {
	nodes := append([]mindmap.Node(nil), doc.Nodes...)
	for i := range nodes {
		nodes[i].Location = mindmap.Point{}
	}
	payload := struct {
		Nodes []mindmap.Node `json:"nodes"`
		Edges []mindmap.Edge `json:"edges"`
	}{nodes, doc.Edges}

	data, _ := json.Marshal(payload)
	return cache.Hash(data)
}
