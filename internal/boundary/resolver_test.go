package boundary

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

type stubProvider struct {
	name string
	geom geom.T
	err  error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Resolve(context.Context, string) (geom.T, error) {
	return p.geom, p.err
}

func TestChainFirstProviderWins(t *testing.T) {
	want := geom.NewPolygon(geom.XY)
	chain := NewChain(
		&stubProvider{name: "first", geom: want},
		&stubProvider{name: "second", err: eris.New("should not be reached")},
	)

	got, err := chain.Resolve(context.Background(), "Vancouver, British Columbia, Canada")
	require.NoError(t, err)
	assert.Same(t, geom.T(want), got)
}

func TestChainFallsThroughOnError(t *testing.T) {
	want := geom.NewMultiPolygon(geom.XY)
	chain := NewChain(
		&stubProvider{name: "first", err: eris.New("no match")},
		&stubProvider{name: "second", geom: want},
	)

	got, err := chain.Resolve(context.Background(), "Vancouver, British Columbia, Canada")
	require.NoError(t, err)
	assert.Same(t, geom.T(want), got)
}

func TestChainAllMissIsError(t *testing.T) {
	chain := NewChain(
		&stubProvider{name: "first", err: eris.New("no match")},
		&stubProvider{name: "second", err: eris.New("no match either")},
	)

	_, err := chain.Resolve(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Atlantis")
}
