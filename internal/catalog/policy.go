package catalog

import (
	"context"

	"github.com/rs/zerolog"
)

// Source labels reported with every listing.
const (
	SourceLive               = "live"
	SourceFallback           = "fallback"
	SourceFallbackNoProducts = "fallback_no_products"
	SourceFallbackError      = "fallback_error"
)

// BraceletListing is a bracelet list and the source that produced it.
type BraceletListing struct {
	Items  []Bracelet
	Source string
	// Err is the live error that forced a fallback, if any.
	Err error
}

// CharmListing is a charm list and the source that produced it.
type CharmListing struct {
	Items  []Charm
	Source string
	Err    error
}

// FallbackPolicy picks between the live catalog and the static one:
//
//   - no live source configured, or static requested: static, labelled "fallback"
//   - live source fails: static, labelled "fallback_error"
//   - live source returns nothing for the query: static, labelled "fallback_no_products"
//   - otherwise: the live result, labelled "live"
//
// The query filters apply to the static data too.
type FallbackPolicy struct {
	live   Source
	static Source
	log    zerolog.Logger
}

// NewFallbackPolicy wires the two sources. live may be nil.
func NewFallbackPolicy(live, static Source, log zerolog.Logger) *FallbackPolicy {
	return &FallbackPolicy{live: live, static: static, log: log}
}

// Bracelets lists bracelets. forceStatic skips the live source.
func (p *FallbackPolicy) Bracelets(ctx context.Context, q Query, forceStatic bool) (BraceletListing, error) {
	if p.live == nil || forceStatic {
		items, err := p.static.Bracelets(ctx, q)
		return BraceletListing{Items: items, Source: SourceFallback}, err
	}

	items, liveErr := p.live.Bracelets(ctx, q)
	source := SourceLive
	switch {
	case liveErr != nil:
		p.log.Warn().Err(liveErr).Str("kind", "bracelets").Msg("live catalog failed, serving static catalog")
		source = SourceFallbackError
	case len(items) == 0:
		source = SourceFallbackNoProducts
	default:
		return BraceletListing{Items: items, Source: source}, nil
	}

	items, err := p.static.Bracelets(ctx, q)
	return BraceletListing{Items: items, Source: source, Err: liveErr}, err
}

// Charms lists charms. forceStatic skips the live source.
func (p *FallbackPolicy) Charms(ctx context.Context, q Query, forceStatic bool) (CharmListing, error) {
	if p.live == nil || forceStatic {
		items, err := p.static.Charms(ctx, q)
		return CharmListing{Items: items, Source: SourceFallback}, err
	}

	items, liveErr := p.live.Charms(ctx, q)
	source := SourceLive
	switch {
	case liveErr != nil:
		p.log.Warn().Err(liveErr).Str("kind", "charms").Msg("live catalog failed, serving static catalog")
		source = SourceFallbackError
	case len(items) == 0:
		source = SourceFallbackNoProducts
	default:
		return CharmListing{Items: items, Source: source}, nil
	}

	items, err := p.static.Charms(ctx, q)
	return CharmListing{Items: items, Source: source, Err: liveErr}, err
}
