package present

import (
	"fmt"

	"github.com/paulmach/orb/geojson"

	"pulse-dashboard/internal/model"
)

// DefaultFeatureKey is the boundary property holding the state display name
const DefaultFeatureKey = "ST_NM"

// Choropleth colors boundary features by the first key of each row
type Choropleth struct {
	boundary   *geojson.FeatureCollection
	featureKey string
}

// NewChoropleth returns a renderer joining rows against boundary. A nil
// boundary renders locations and values only.
func NewChoropleth(boundary *geojson.FeatureCollection, featureKey string) *Choropleth {
	if featureKey == "" {
		featureKey = DefaultFeatureKey
	}
	return &Choropleth{boundary: boundary, featureKey: featureKey}
}

func (c *Choropleth) Render(res *model.Result, style Style) (*Artifact, error) {
	if len(res.GroupBy) == 0 {
		return nil, fmt.Errorf("%w: choropleth needs a region column", model.ErrInvalidQuery)
	}
	idx, err := measureIndex(res, style.Value)
	if err != nil {
		return nil, err
	}

	a := newArtifact(KindChoropleth, res, style)
	m := &Map{
		FeatureIDKey: "properties." + c.featureKey,
		Locations:    make([]string, 0, len(res.Rows)),
		Values:       make([]float64, 0, len(res.Rows)),
	}
	values := make(map[string]float64, len(res.Rows))
	for _, row := range res.Rows {
		name := fmt.Sprintf("%v", row.Key[0])
		v := row.Measures[idx].InexactFloat64()
		m.Locations = append(m.Locations, name)
		m.Values = append(m.Values, v)
		values[name] = v
	}

	if c.boundary != nil {
		m.GeoJSON, m.Unmatched = c.join(values, m.Locations)
	}
	a.Map = m
	return a, nil
}

// join copies the boundary with a value property on every matched feature
// and reports locations that no feature carries
func (c *Choropleth) join(values map[string]float64, locations []string) (*geojson.FeatureCollection, []string) {
	fc := geojson.NewFeatureCollection()
	matched := make(map[string]bool, len(values))
	for _, f := range c.boundary.Features {
		nf := *f
		nf.Properties = f.Properties.Clone()
		name := f.Properties.MustString(c.featureKey, "")
		if v, ok := values[name]; ok {
			nf.Properties["value"] = v
			matched[name] = true
		}
		fc.Append(&nf)
	}

	var unmatched []string
	for _, loc := range locations {
		if !matched[loc] {
			unmatched = append(unmatched, loc)
		}
	}
	return fc, unmatched
}
