package export

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/helioavila/landuse-intensity/internal/feature"
)

// LoadGPKG loads a GeoPackage layer from a local path or an HTTP(S) URL.
// Remote containers are downloaded to a temporary file first.
func LoadGPKG(ctx context.Context, client *http.Client, source, layer string) (*feature.Collection, error) {
	path := source
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		tmp, err := downloadFile(ctx, client, source)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp) //nolint:errcheck
		path = tmp
	}

	zap.L().Info("loading GeoPackage layer",
		zap.String("source", source),
		zap.String("layer", layer),
	)
	return ReadGPKG(ctx, path, layer)
}

// downloadFile fetches a URL into a temporary file and returns its path.
func downloadFile(ctx context.Context, client *http.Client, url string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", eris.Wrap(err, "export: build download request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", eris.Wrapf(err, "export: download %s", url)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("export: download %s returned status %d", url, resp.StatusCode)
	}

	f, err := os.CreateTemp("", "landuse-*"+filepath.Ext(url))
	if err != nil {
		return "", eris.Wrap(err, "export: create temp file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name()) //nolint:errcheck
		return "", eris.Wrap(err, "export: write temp file")
	}
	return f.Name(), nil
}
