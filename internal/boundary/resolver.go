// Package boundary resolves municipality names to boundary geometries in
// EPSG:4326, from a geocoding service or a local shapefile.
package boundary

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Resolver resolves a place name to a polygon or multipolygon boundary.
type Resolver interface {
	Resolve(ctx context.Context, place string) (geom.T, error)
}

// Provider is a single boundary backend.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, place string) (geom.T, error)
}

// Chain tries providers in order until one resolves the place. A place no
// provider can resolve is an error naming the place; an empty boundary is
// never returned silently.
type Chain struct {
	providers []Provider
}

// NewChain creates a Chain over the given providers.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Resolve implements Resolver.
func (c *Chain) Resolve(ctx context.Context, place string) (geom.T, error) {
	for _, p := range c.providers {
		g, err := p.Resolve(ctx, place)
		if err != nil {
			zap.L().Debug("boundary: provider miss, trying next",
				zap.String("provider", p.Name()),
				zap.String("place", place),
				zap.Error(err),
			)
			continue
		}
		if g != nil {
			return g, nil
		}
	}
	return nil, eris.Errorf("boundary: no provider resolved %q", place)
}
