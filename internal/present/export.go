package present

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"pulse-dashboard/internal/model"
)

// Export formats
const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatMsgpack = "msgpack"
)

// ExportTable is the wire shape of a result in every export format.
// Measures travel as decimal strings so no precision is lost.
type ExportTable struct {
	Table   string          `json:"table" msgpack:"table"`
	Columns []string        `json:"columns" msgpack:"columns"`
	Rows    [][]interface{} `json:"rows" msgpack:"rows"`
}

// ContentType returns the media type of an export format
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case FormatCSV:
		return "text/csv"
	case FormatMsgpack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// Encode writes res to w in the given format; an empty format means JSON
func Encode(w io.Writer, format string, res *model.Result) error {
	t := tableOf(res)
	table := ExportTable{Table: res.Table, Columns: t.Columns, Rows: t.Rows}

	switch strings.ToLower(format) {
	case "", FormatJSON:
		return json.NewEncoder(w).Encode(table)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(table)
	case FormatCSV:
		return encodeCSV(w, table)
	default:
		return fmt.Errorf("%w: unsupported format %q", model.ErrInvalidQuery, format)
	}
}

func encodeCSV(w io.Writer, table ExportTable) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, v := range row {
			record[i] = fmt.Sprintf("%v", v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
