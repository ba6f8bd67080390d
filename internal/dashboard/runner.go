package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pulse-dashboard/internal/model"
	"pulse-dashboard/internal/pipeline"
	"pulse-dashboard/internal/present"
)

// Options lists the values a selector offers and the one in effect
type Options struct {
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Values   []interface{} `json:"values"`
	Selected interface{}   `json:"selected"`
}

// PanelView is one rendered panel
type PanelView struct {
	ID       string            `json:"id"`
	Artifact *present.Artifact `json:"artifact"`
}

// View is a rendered page
type View struct {
	ID         string                 `json:"id"`
	Page       string                 `json:"page"`
	Title      string                 `json:"title"`
	Selections map[string]interface{} `json:"selections"`
	Panels     []PanelView            `json:"panels"`
	RenderedAt time.Time              `json:"renderedAt"`
}

// Runner renders pages through the pipeline and the renderer registry
type Runner struct {
	pipeline *pipeline.Pipeline
	registry *present.Registry
	logger   *slog.Logger
}

// NewRunner wires a runner
func NewRunner(p *pipeline.Pipeline, registry *present.Registry, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{pipeline: p, registry: registry, logger: logger}
}

// Filters enumerates the options of every selector of page and resolves the
// requested selections against them. A missing selection takes the first
// option; a selection that is not an option fails with ErrInvalidFilter.
func (r *Runner) Filters(ctx context.Context, page *Page, requested map[string]string) ([]Options, error) {
	out := make([]Options, 0, len(page.Selectors))
	for _, s := range page.Selectors {
		values, err := r.pipeline.DistinctValues(ctx, s.Table, s.Column)
		if err != nil {
			return nil, err
		}
		opt := Options{Name: s.Name, Label: s.Label, Values: values}
		if values == nil {
			opt.Values = []interface{}{}
		}

		raw, ok := requested[s.Name]
		switch {
		case ok && raw != "":
			selected, found := pick(values, raw)
			if !found {
				return nil, fmt.Errorf("%w: %s=%q is not one of the available options", model.ErrInvalidFilter, s.Name, raw)
			}
			opt.Selected = selected
		case len(values) > 0:
			opt.Selected = values[0]
		}
		out = append(out, opt)
	}
	return out, nil
}

func pick(values []interface{}, raw string) (interface{}, bool) {
	for _, v := range values {
		if fmt.Sprintf("%v", v) == raw {
			return v, true
		}
	}
	return nil, false
}

// Render runs every panel of page under the resolved selections. Any data
// access failure aborts the whole page.
func (r *Runner) Render(ctx context.Context, page *Page, requested map[string]string) (*View, error) {
	start := time.Now()
	opts, err := r.Filters(ctx, page, requested)
	if err != nil {
		return nil, err
	}

	view := &View{
		ID:         uuid.NewString(),
		Page:       page.ID,
		Title:      page.Title,
		Selections: make(map[string]interface{}, len(opts)),
		Panels:     make([]PanelView, 0, len(page.Panels)),
	}

	filter := model.NewFilter()
	// a selector without options means the table holds no rows at all
	unresolved := false
	for i, o := range opts {
		view.Selections[o.Name] = o.Selected
		if o.Selected == nil {
			unresolved = true
			continue
		}
		filter = filter.Where(page.Selectors[i].Column, o.Selected)
	}
	titles := titleReplacer(view.Selections)

	for _, panel := range page.Panels {
		var res *model.Result
		if panel.Scoped && unresolved {
			res = emptyResult(panel)
		} else {
			res, err = r.runPanel(ctx, panel, filter)
			if err != nil {
				r.logger.ErrorContext(ctx, "panel failed",
					slog.String("page", page.ID),
					slog.String("panel", panel.ID),
					slog.Any("error", err))
				return nil, fmt.Errorf("panel %s: %w", panel.ID, err)
			}
		}

		style := panel.Style
		style.Title = titles.Replace(style.Title)
		artifact, err := r.registry.Render(panel.Kind, res, style)
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", panel.ID, err)
		}
		view.Panels = append(view.Panels, PanelView{ID: panel.ID, Artifact: artifact})
	}

	view.RenderedAt = time.Now().UTC()
	r.logger.InfoContext(ctx, "page rendered",
		slog.String("page", page.ID),
		slog.String("view_id", view.ID),
		slog.Int("panels", len(view.Panels)),
		slog.Duration("duration", time.Since(start)))
	return view, nil
}

func (r *Runner) runPanel(ctx context.Context, panel Panel, filter model.Filter) (*model.Result, error) {
	res, err := r.pipeline.Aggregate(ctx, panel.Table, panel.Query(filter))
	if err != nil {
		return nil, err
	}
	if panel.Require != "" {
		if res, err = pipeline.DropZero(res, panel.Require); err != nil {
			return nil, err
		}
	}
	if panel.Rank != nil {
		res, err = pipeline.TopN(res, panel.Rank.By, panel.Rank.N, panel.Rank.Direction)
		if err != nil {
			return nil, err
		}
		if panel.Rank.Reverse {
			res = pipeline.Reverse(res)
		}
	}
	if panel.Limit > 0 {
		res = pipeline.Head(res, panel.Limit)
	}
	return res, nil
}

// emptyResult is what a scoped panel shows when its table has no rows
func emptyResult(panel Panel) *model.Result {
	res := &model.Result{
		Table:    panel.Table.Name,
		GroupBy:  panel.GroupBy,
		Measures: make([]string, len(panel.Measures)),
	}
	for i, m := range panel.Measures {
		res.Measures[i] = m.Name()
	}
	if len(panel.GroupBy) == 0 {
		row := model.Row{Key: []interface{}{}, Measures: make([]decimal.Decimal, len(panel.Measures))}
		for i := range row.Measures {
			row.Measures[i] = decimal.Zero
		}
		res.Rows = []model.Row{row}
	}
	return res
}

func titleReplacer(selections map[string]interface{}) *strings.Replacer {
	pairs := make([]string, 0, 2*len(selections))
	for name, v := range selections {
		text := ""
		if v != nil {
			text = fmt.Sprintf("%v", v)
		}
		pairs = append(pairs, "{"+name+"}", text)
	}
	return strings.NewReplacer(pairs...)
}
