// Package boundary loads the India states boundary used by choropleths.
package boundary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
)

// DefaultURL serves the states boundary keyed by ST_NM
const DefaultURL = "https://gist.githubusercontent.com/jbrobst/56c13bbbf9d97d187fea01ca62ea5112/raw/e388c4cae20aa53cb5090210a42ebb9b765c0a36/india_states.geojson"

const maxBoundarySize = 64 << 20

// Fetch reads a FeatureCollection from an http(s) URL or a local path
func Fetch(ctx context.Context, client *http.Client, location string) (*geojson.FeatureCollection, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read boundary file: %w", err)
		}
		return parse(data)
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build boundary request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boundary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch boundary: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBoundarySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read boundary: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundary: %w", err)
	}
	return fc, nil
}

// Names lists the value of property key on every feature that carries it
func Names(fc *geojson.FeatureCollection, key string) []string {
	if fc == nil {
		return nil
	}
	names := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		if name := f.Properties.MustString(key, ""); name != "" {
			names = append(names, name)
		}
	}
	return names
}
