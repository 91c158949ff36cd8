package boundary

import (
	"context"

	"github.com/twpayne/go-geom"

	"github.com/helioavila/landuse-intensity/pkg/nominatim"
)

// NominatimProvider resolves boundaries through the Nominatim search API.
type NominatimProvider struct {
	client *nominatim.Client
}

// NewNominatimProvider creates a provider over the given client.
func NewNominatimProvider(client *nominatim.Client) *NominatimProvider {
	return &NominatimProvider{client: client}
}

// Name implements Provider.
func (p *NominatimProvider) Name() string { return "nominatim" }

// Resolve implements Provider.
func (p *NominatimProvider) Resolve(ctx context.Context, place string) (geom.T, error) {
	return p.client.SearchBoundary(ctx, place)
}
