// Package pipeline turns one season of raw dropback plays into normalized,
// context-adjusted plays and exposes the aggregated views on top of them.
// Data flows strictly forward: raw plays → context metrics → normalized
// plays → summaries. Each request recomputes from scratch except for the
// normalized-play table, which may be reused through the injected cache.
package pipeline

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"time"

	"github.com/pable/go-qb-metrics/internal/aggregator"
	"github.com/pable/go-qb-metrics/internal/cache"
	"github.com/pable/go-qb-metrics/internal/model"
)

// DefaultTTL is how long a season's normalized-play table stays cached.
const DefaultTTL = time.Hour

// PlaySource delivers one season of raw dropback plays. Implementations are
// external collaborators (feed client, local store); the pipeline performs
// no retries of its own.
type PlaySource interface {
	SeasonPlays(ctx context.Context, season int) ([]model.Play, error)
}

// Pipeline is the request-driven analytics pipeline. Runs are pure and
// idempotent; concurrent runs for the same uncached season may each
// recompute, which is an accepted inefficiency rather than a hazard.
type Pipeline struct {
	source PlaySource
	cache  cache.Cache
	ttl    time.Duration
	log    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache sets the normalized-play cache backend. Default is no caching.
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithTTL overrides the cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(p *Pipeline) { p.ttl = ttl }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// New returns a Pipeline reading raw plays from source.
func New(source PlaySource, opts ...Option) *Pipeline {
	p := &Pipeline{
		source: source,
		cache:  cache.None{},
		ttl:    DefaultTTL,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// cacheKey derives the cache key for a season's normalized-play table.
func cacheKey(season int) string {
	return fmt.Sprintf("qbq:normplays:%d", season)
}

// NormalizedPlays returns the season's normalized-play table, from cache
// when fresh, otherwise computed from the source: fetch → context metrics →
// normalize → cache. Errors are never cached.
func (p *Pipeline) NormalizedPlays(ctx context.Context, season int) ([]model.NormalizedPlay, error) {
	key := cacheKey(season)
	if raw, ok, err := p.cache.Get(ctx, key); err != nil {
		// A broken cache degrades to recomputation, not failure.
		p.log.Warn("cache get failed", "key", key, "error", err)
	} else if ok {
		plays, err := decodePlays(raw)
		if err == nil {
			return plays, nil
		}
		p.log.Warn("cache entry undecodable, recomputing", "key", key, "error", err)
	}

	plays, err := p.source.SeasonPlays(ctx, season)
	if err != nil {
		return nil, &SourceError{Season: season, Err: err}
	}
	if len(plays) == 0 {
		return nil, &NoDataError{Season: season, Reason: "no play records"}
	}

	def := BuildDefenseMetrics(plays)
	ol := BuildOLMetrics(plays)
	normalized, err := Normalize(plays, def, ol)
	if err != nil {
		return nil, err
	}

	if raw, err := encodePlays(normalized); err != nil {
		p.log.Warn("encode normalized plays", "season", season, "error", err)
	} else if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
		p.log.Warn("cache set failed", "key", key, "error", err)
	}
	return normalized, nil
}

// Summaries returns the season EPA summary view (retention-filtered).
// Aggregations are cheap and recomputed on every call; only the
// normalized-play table is cached.
func (p *Pipeline) Summaries(ctx context.Context, season int) ([]model.SeasonSummary, error) {
	plays, err := p.NormalizedPlays(ctx, season)
	if err != nil {
		return nil, err
	}
	return aggregator.SeasonSummaries(plays), nil
}

// Totals returns the unfiltered season totals view.
func (p *Pipeline) Totals(ctx context.Context, season int) ([]model.SeasonTotals, error) {
	plays, err := p.NormalizedPlays(ctx, season)
	if err != nil {
		return nil, err
	}
	return aggregator.SeasonTotals(plays), nil
}

// Advanced returns the advanced detail view, optionally filtered to one
// passer.
func (p *Pipeline) Advanced(ctx context.Context, season int, passer string) ([]model.AdvancedStats, error) {
	plays, err := p.NormalizedPlays(ctx, season)
	if err != nil {
		return nil, err
	}
	return aggregator.AdvancedStats(plays, passer), nil
}

// Passers returns the qualified passer names for a season, for dropdowns and
// highlight pickers.
func (p *Pipeline) Passers(ctx context.Context, season int) ([]string, error) {
	totals, err := p.Totals(ctx, season)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(totals))
	for _, t := range totals {
		names = append(names, t.Passer)
	}
	return names, nil
}

// gob rather than JSON for the cache payload: normalized plays carry NaN for
// missing CPOE/air yards, which JSON cannot represent.

func encodePlays(plays []model.NormalizedPlay) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(plays); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePlays(raw []byte) ([]model.NormalizedPlay, error) {
	var plays []model.NormalizedPlay
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&plays); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	return plays, nil
}
