package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"pulse-dashboard/internal/catalog"
	"pulse-dashboard/internal/model"
	"pulse-dashboard/internal/pipeline"
	"pulse-dashboard/internal/present"
	"pulse-dashboard/internal/region"
)

// maxRequestBody caps ad-hoc query payloads
const maxRequestBody = 1 << 20

// ColumnInfo describes a table column
type ColumnInfo struct {
	Name string           `json:"name"`
	Kind model.ColumnKind `json:"kind"`
}

// DatasetInfo describes a table
type DatasetInfo struct {
	Name    string       `json:"name"`
	Title   string       `json:"title"`
	Columns []ColumnInfo `json:"columns"`
}

// RankRequest keeps the first N rows ordered by a measure
type RankRequest struct {
	By        string `json:"by"`
	N         int    `json:"n"`
	Direction string `json:"direction"`
}

// AggregateRequest is an ad-hoc aggregation over one table
type AggregateRequest struct {
	Filters  []model.Condition `json:"filters"`
	GroupBy  []string          `json:"groupBy"`
	Measures []model.Measure   `json:"measures"`
	Keys     [][]interface{}   `json:"keys,omitempty"`
	Rank     *RankRequest      `json:"rank,omitempty"`
}

// RegionsResponse is the region naming table
type RegionsResponse struct {
	Version  string         `json:"version"`
	Entries  []region.Entry `json:"entries"`
	Unmapped []string       `json:"unmapped"`
}

// ListDatasets lists the known tables
// @Summary List datasets
// @Description List every table with its columns
// @Tags datasets
// @Produce json
// @Success 200 {array} DatasetInfo
// @Router /datasets [get]
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	tables := catalog.Tables()
	out := make([]DatasetInfo, 0, len(tables))
	for _, t := range tables {
		info := DatasetInfo{Name: t.Name, Title: t.Title}
		for _, c := range t.Columns {
			info.Columns = append(info.Columns, ColumnInfo{Name: c.Name, Kind: c.Kind})
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDistinct lists the distinct values of a column
// @Summary Distinct values
// @Description Distinct non-null values of a column, ascending
// @Tags datasets
// @Produce json
// @Param table path string true "Table name"
// @Param column query string true "Column name"
// @Success 200 {array} interface{}
// @Failure 400 {object} ErrorResponse "Unknown column"
// @Failure 404 {object} ErrorResponse "Unknown table"
// @Failure 503 {object} ErrorResponse "Data source unavailable"
// @Router /datasets/{table}/distinct [get]
func (h *Handler) GetDistinct(w http.ResponseWriter, r *http.Request) {
	table, err := catalog.Lookup(pathParam(r.URL.Path, "/api/v1/datasets/"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	column := r.URL.Query().Get("column")
	if column == "" {
		h.writeError(w, r, fmt.Errorf("%w: column is required", model.ErrUnknownColumn))
		return
	}

	values, err := h.pipeline.DistinctValues(r.Context(), table, column)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

// Aggregate runs an ad-hoc aggregation
// @Summary Aggregate
// @Description Filter, group and reduce a table. Results are encoded as json, csv or msgpack.
// @Tags datasets
// @Accept json
// @Produce json
// @Produce text/csv
// @Produce application/msgpack
// @Param table path string true "Table name"
// @Param format query string false "json, csv or msgpack"
// @Param query body AggregateRequest true "Aggregation"
// @Success 200 {object} present.ExportTable
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Failure 404 {object} ErrorResponse "Unknown table"
// @Failure 503 {object} ErrorResponse "Data source unavailable"
// @Router /datasets/{table}/aggregate [post]
func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	table, err := catalog.Lookup(pathParam(r.URL.Path, "/api/v1/datasets/"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req AggregateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: invalid JSON payload: %w", model.ErrInvalidQuery, err))
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", present.FormatJSON, present.FormatCSV, present.FormatMsgpack:
	default:
		h.writeError(w, r, fmt.Errorf("%w: unsupported format %q", model.ErrInvalidQuery, format))
		return
	}

	res, err := h.pipeline.Aggregate(r.Context(), table, model.Query{
		Filter:   model.NewFilter(req.Filters...),
		GroupBy:  req.GroupBy,
		Measures: req.Measures,
		Keys:     req.Keys,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if req.Rank != nil {
		dir, err := pipeline.ParseDirection(req.Rank.Direction)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if res, err = pipeline.TopN(res, req.Rank.By, req.Rank.N, dir); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	var buf bytes.Buffer
	if err := present.Encode(&buf, format, res); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", present.ContentType(format))
	w.Write(buf.Bytes())
}

// GetRegions returns the region naming table
// @Summary Region names
// @Description The region code to display name table, its version and the unmapped codes seen so far
// @Tags regions
// @Produce json
// @Success 200 {object} RegionsResponse
// @Router /regions [get]
func (h *Handler) GetRegions(w http.ResponseWriter, r *http.Request) {
	resp := RegionsResponse{Version: region.TableVersion, Entries: region.Entries(), Unmapped: []string{}}
	if h.names != nil {
		resp.Unmapped = h.names.Unmapped()
	}
	writeJSON(w, http.StatusOK, resp)
}
