package handler

import (
	"net/http"

	"pulse-dashboard/internal/dashboard"
)

// SelectorInfo describes one page selector
type SelectorInfo struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Table  string `json:"table"`
	Column string `json:"column"`
}

// PageInfo describes one page
type PageInfo struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Selectors []SelectorInfo `json:"selectors"`
	Panels    []string       `json:"panels"`
}

func pageInfo(p *dashboard.Page) PageInfo {
	info := PageInfo{ID: p.ID, Title: p.Title, Selectors: []SelectorInfo{}, Panels: make([]string, 0, len(p.Panels))}
	for _, s := range p.Selectors {
		info.Selectors = append(info.Selectors, SelectorInfo{Name: s.Name, Label: s.Label, Table: s.Table.Name, Column: s.Column})
	}
	for _, panel := range p.Panels {
		info.Panels = append(info.Panels, panel.ID)
	}
	return info
}

// selections collects the selector values present in the query string
func selections(r *http.Request, p *dashboard.Page) map[string]string {
	q := r.URL.Query()
	out := make(map[string]string, len(p.Selectors))
	for _, s := range p.Selectors {
		if q.Has(s.Name) {
			out[s.Name] = q.Get(s.Name)
		}
	}
	return out
}

// ListPages lists the dashboard pages
// @Summary List pages
// @Description List every dashboard page with its selectors and panels
// @Tags pages
// @Produce json
// @Success 200 {array} PageInfo
// @Router /pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages := dashboard.Pages()
	out := make([]PageInfo, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageInfo(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPage renders a page
// @Summary Render page
// @Description Render every panel of a page under the selected filters. Missing selectors take their first option.
// @Tags pages
// @Produce json
// @Param id path string true "Page ID"
// @Param year query string false "Year selector"
// @Param quarter query string false "Quarter selector"
// @Param city query string false "City selector"
// @Param month query string false "Month selector"
// @Success 200 {object} dashboard.View
// @Failure 400 {object} ErrorResponse "Invalid selection"
// @Failure 404 {object} ErrorResponse "Page not found"
// @Failure 503 {object} ErrorResponse "Data source unavailable"
// @Router /pages/{id} [get]
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := dashboard.Lookup(pathParam(r.URL.Path, "/api/v1/pages/"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.runner.Render(r.Context(), page, selections(r, page))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetPageFilters lists the options of every selector of a page
// @Summary Page filters
// @Description Enumerate the available selector values of a page
// @Tags pages
// @Produce json
// @Param id path string true "Page ID"
// @Success 200 {array} dashboard.Options
// @Failure 404 {object} ErrorResponse "Page not found"
// @Failure 503 {object} ErrorResponse "Data source unavailable"
// @Router /pages/{id}/filters [get]
func (h *Handler) GetPageFilters(w http.ResponseWriter, r *http.Request) {
	page, err := dashboard.Lookup(pathParam(r.URL.Path, "/api/v1/pages/"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	opts, err := h.runner.Filters(r.Context(), page, selections(r, page))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
