// Package present turns normalized results into chart documents. Renderers
// never filter or aggregate; they only lay out what the pipeline produced.
package present

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pulse-dashboard/internal/model"
)

// NoDataNotice is shown in place of a chart whose result has no rows
const NoDataNotice = "No data available for the selected filters."

// Artifact kinds
const (
	KindChoropleth = "choropleth"
	KindBar        = "bar"
	KindPie        = "pie"
	KindScatter    = "scatter"
	KindLine       = "line"
	KindTreemap    = "treemap"
	KindBox        = "box"
	KindTable      = "table"
	KindKPI        = "kpi"
)

// Style carries the cosmetic settings of one view
type Style struct {
	Title       string            `json:"title,omitempty"`
	XTitle      string            `json:"xTitle,omitempty"`
	YTitle      string            `json:"yTitle,omitempty"`
	ColorScale  string            `json:"colorScale,omitempty"`
	Orientation string            `json:"orientation,omitempty"`
	Value       string            `json:"value,omitempty"` // measure to plot, first measure when empty
	X           string            `json:"x,omitempty"`     // scatter x measure
	Labels      map[string]string `json:"labels,omitempty"`
	Currency    string            `json:"currency,omitempty"`
}

// Point is one datum of a series
type Point struct {
	Label  string   `json:"label"`
	Parent string   `json:"parent,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      float64  `json:"y"`
}

// Series is a named list of points
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Table is a tabular view
type Table struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// KPI is a headline figure
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Raw   string `json:"raw"`
}

// Box summarizes the distribution of one group with quartiles computed by
// linear interpolation
type Box struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Map is a choropleth layer keyed by region display name
type Map struct {
	FeatureIDKey string                     `json:"featureIdKey"`
	Locations    []string                   `json:"locations"`
	Values       []float64                  `json:"values"`
	Unmatched    []string                   `json:"unmatched,omitempty"`
	GeoJSON      *geojson.FeatureCollection `json:"geojson,omitempty"`
}

// Artifact is the rendered document of one view
type Artifact struct {
	Kind        string   `json:"kind"`
	Title       string   `json:"title,omitempty"`
	Notice      string   `json:"notice,omitempty"`
	XAxis       string   `json:"xAxis,omitempty"`
	YAxis       string   `json:"yAxis,omitempty"`
	ColorScale  string   `json:"colorScale,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	Series      []Series `json:"series,omitempty"`
	Table       *Table   `json:"table,omitempty"`
	Map         *Map     `json:"map,omitempty"`
	KPIs        []KPI    `json:"kpis,omitempty"`
	Boxes       []Box    `json:"boxes,omitempty"`
}

// Renderer draws a result
type Renderer interface {
	Render(res *model.Result, style Style) (*Artifact, error)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(res *model.Result, style Style) (*Artifact, error)

func (f RendererFunc) Render(res *model.Result, style Style) (*Artifact, error) {
	return f(res, style)
}

// Registry resolves renderers by kind
type Registry struct {
	renderers map[string]Renderer
}

// RegistryOption configures a Registry
type RegistryOption func(*registryConfig)

type registryConfig struct {
	boundary   *geojson.FeatureCollection
	featureKey string
	printer    *message.Printer
}

// WithBoundary joins choropleths against the given features by the
// featureKey property
func WithBoundary(fc *geojson.FeatureCollection, featureKey string) RegistryOption {
	return func(c *registryConfig) {
		c.boundary = fc
		c.featureKey = featureKey
	}
}

// WithLocale formats KPI figures for the given BCP 47 tag
func WithLocale(tag string) RegistryOption {
	return func(c *registryConfig) {
		c.printer = message.NewPrinter(language.Make(tag))
	}
}

// NewRegistry returns a registry with every built-in renderer
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{featureKey: DefaultFeatureKey}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.printer == nil {
		cfg.printer = message.NewPrinter(language.English)
	}

	return &Registry{renderers: map[string]Renderer{
		KindChoropleth: NewChoropleth(cfg.boundary, cfg.featureKey),
		KindBar:        RendererFunc(renderBar),
		KindPie:        RendererFunc(renderPie),
		KindScatter:    RendererFunc(renderScatter),
		KindLine:       RendererFunc(renderLine),
		KindTreemap:    RendererFunc(renderTreemap),
		KindBox:        RendererFunc(renderBox),
		KindTable:      RendererFunc(renderTable),
		KindKPI:        &kpiRenderer{printer: cfg.printer},
	}}
}

// Register adds or replaces a renderer
func (r *Registry) Register(kind string, renderer Renderer) {
	r.renderers[kind] = renderer
}

// Render draws res with the renderer registered for kind
func (r *Registry) Render(kind string, res *model.Result, style Style) (*Artifact, error) {
	renderer, ok := r.renderers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown artifact kind %q", kind)
	}
	return renderer.Render(res, style)
}

func newArtifact(kind string, res *model.Result, style Style) *Artifact {
	a := &Artifact{
		Kind:        kind,
		Title:       style.Title,
		XAxis:       style.XTitle,
		YAxis:       style.YTitle,
		ColorScale:  style.ColorScale,
		Orientation: style.Orientation,
	}
	if res.Empty() {
		a.Notice = NoDataNotice
	}
	return a
}

// measureIndex resolves the measure a style plots
func measureIndex(res *model.Result, name string) (int, error) {
	if name == "" {
		if len(res.Measures) == 0 {
			return 0, fmt.Errorf("%w: result has no measures", model.ErrInvalidQuery)
		}
		return 0, nil
	}
	idx := res.MeasureIndex(name)
	if idx < 0 {
		return 0, fmt.Errorf("%w: measure %s not in result", model.ErrUnknownColumn, name)
	}
	return idx, nil
}
