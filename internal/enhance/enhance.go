// Package enhance applies the navigation layer to a generated site: the
// per-page outline with anchors, and the converged link-graph drawing.
package enhance

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/layout"
	"github.com/starford/raido/internal/outline"
	"github.com/starford/raido/internal/page"
	"github.com/starford/raido/internal/sim"
	"github.com/starford/raido/internal/site"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/svg"
)

// maxTicks bounds a convergence run as a safety net; the alpha decay
// normally stops the layout well before this.
const maxTicks = 2000

// Enhancer coordinates page parsing, outline building, and graph layout
// over a site's storage.
type Enhancer struct {
	store    storage.Provider
	src      *site.Source
	db       *layout.DB // nil disables persistence
	cfg      sim.Config
	maxLabel int
	seed     func() int64
	logger   *slog.Logger
}

// Option is a functional option for configuring the enhancer.
type Option func(*Enhancer)

// WithSimConfig overrides the layout tuning.
func WithSimConfig(cfg sim.Config) Option {
	return func(e *Enhancer) { e.cfg = cfg }
}

// WithMaxLabel overrides the label width budget.
func WithMaxLabel(n int) Option {
	return func(e *Enhancer) { e.maxLabel = n }
}

// WithSeed injects a deterministic seed source for tests.
func WithSeed(fn func() int64) Option {
	return func(e *Enhancer) { e.seed = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Enhancer) { e.logger = l }
}

// New creates an enhancer over the site's storage and manifest source.
// db may be nil when position persistence is disabled.
func New(store storage.Provider, src *site.Source, db *layout.DB, opts ...Option) *Enhancer {
	e := &Enhancer{
		store:    store,
		src:      src,
		db:       db,
		cfg:      sim.DefaultConfig(),
		maxLabel: svg.DefaultMaxLabel,
		seed:     func() int64 { return time.Now().UnixNano() },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NotePath maps a page file path to its note path in the graph:
// "topics/x.html" -> "topics/x".
func NotePath(pagePath string) string {
	return strings.TrimSuffix(pagePath, ".html")
}

// Manifest returns the current site manifest snapshot.
func (e *Enhancer) Manifest() *site.Manifest {
	return e.src.Current()
}

// Pages lists the enhanceable page files in the site directory.
func (e *Enhancer) Pages() ([]storage.PageMetadata, error) {
	return e.store.List("")
}

// BuildState constructs the simulation state for the page identified by
// notePath: the full manifest graph with that note as the pinned current
// node, seeded from persisted positions when available.
func (e *Enhancer) BuildState(notePath string) *sim.State {
	m := e.src.Current()
	rng := rand.New(rand.NewSource(e.seed()))
	s := sim.New(e.cfg, notePath, m.Nodes, m.Edges, rng)
	if e.db != nil {
		pos, err := e.db.Positions(notePath)
		if err != nil {
			e.logger.Warn("enhance: load positions failed", slog.String("page", notePath), slog.String("error", err.Error()))
		} else if len(pos) > 0 {
			s.Seed(pos)
		}
	}
	return s
}

// SavePositions persists a page's node positions; no-op without a store.
func (e *Enhancer) SavePositions(notePath string, positions map[string][2]float64) {
	if e.db == nil || positions == nil {
		return
	}
	if err := e.db.SavePositions(notePath, positions); err != nil {
		e.logger.Warn("enhance: save positions failed", slog.String("page", notePath), slog.String("error", err.Error()))
	}
}

// Outline builds the outline list fragment for a stored page. Returns
// apperr.ErrEmptyOutline when the page has no eligible headings.
func (e *Enhancer) Outline(pagePath string) ([]byte, error) {
	data, err := e.store.Read(pagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, pagePath)
	}
	doc, err := page.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	title := e.src.Current().Title(NotePath(pagePath))
	nodes := outline.Build(doc.Headings(), outline.ExcludeTitle(title))
	frag := outline.RenderHTML(nodes)
	if frag == nil {
		return nil, apperr.ErrEmptyOutline
	}
	return frag, nil
}

// EnhancePage rewrites one page in place: anchors on headings, the outline
// list in its container (or the container removed when empty), and the
// converged graph drawing. Unchanged pages are skipped via the checksum
// journal.
func (e *Enhancer) EnhancePage(pagePath string) error {
	data, err := e.store.Read(pagePath)
	if err != nil {
		return fmt.Errorf("enhance: read %s: %w", pagePath, err)
	}

	if e.db != nil {
		stored, _ := e.db.Checksum(pagePath)
		if checksum.Matches(data, stored) {
			e.logger.Debug("enhance: unchanged, skipped", slog.String("page", pagePath))
			return nil
		}
	}

	doc, err := page.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("enhance: %s: %w", pagePath, err)
	}

	np := NotePath(pagePath)
	title := e.src.Current().Title(np)
	nodes := outline.Build(doc.Headings(), outline.ExcludeTitle(title))
	doc.ApplyAnchors()

	if frag := outline.RenderHTML(nodes); frag == nil {
		doc.RemoveContainer(page.OutlineContainerID)
	} else if err := doc.Inject(page.OutlineContainerID, frag); err != nil {
		// A page without the container just doesn't get an outline.
		e.logger.Warn("enhance: outline skipped", slog.String("page", pagePath), slog.String("error", err.Error()))
	}

	state := e.BuildState(np)
	sim.Run(state, maxTicks)
	if err := doc.Inject(page.GraphContainerID, svg.Render(state, e.maxLabel)); err != nil {
		e.logger.Warn("enhance: graph skipped", slog.String("page", pagePath), slog.String("error", err.Error()))
	} else {
		e.SavePositions(np, state.Positions())
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return fmt.Errorf("enhance: %s: %w", pagePath, err)
	}
	if err := e.store.Write(pagePath, buf.Bytes()); err != nil {
		return fmt.Errorf("enhance: %s: %w", pagePath, err)
	}

	if e.db != nil {
		if err := e.db.SetChecksum(pagePath, checksum.Sum(buf.Bytes())); err != nil {
			e.logger.Warn("enhance: journal failed", slog.String("page", pagePath), slog.String("error", err.Error()))
		}
	}
	return nil
}

// EnhanceAll processes every page in the site. Per-page failures are
// logged and counted, never fatal: a broken page must not block the rest
// of the site's navigation.
func (e *Enhancer) EnhanceAll() (enhanced, failed int, err error) {
	metas, err := e.store.List("")
	if err != nil {
		return 0, 0, err
	}
	for _, m := range metas {
		if err := e.EnhancePage(m.Path); err != nil {
			e.logger.Warn("enhance: page failed", slog.String("page", m.Path), slog.String("error", err.Error()))
			failed++
			continue
		}
		enhanced++
	}
	return enhanced, failed, nil
}
