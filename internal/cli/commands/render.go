package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlinput/internal/config"
	"github.com/leapstack-labs/sqlinput/pkg/core"
)

func renderRows(w io.Writer, rows []core.Row, format string) error {
	switch strings.ToLower(format) {
	case config.OutputJSON:
		return renderJSON(w, rows)
	case config.OutputCSV:
		return renderCSV(w, rows)
	default:
		return renderTable(w, rows)
	}
}

func columnsOf(rows []core.Row) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Columns
}

func renderTable(w io.Writer, rows []core.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	cols := columnsOf(rows)
	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rows {
		out := make(table.Row, len(row.Values))
		for i, v := range row.Values {
			out[i] = formatValue(v)
		}
		t.AppendRow(out)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, rows []core.Row) error {
	results := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.Map())
	}
	return renderJSONValue(w, results)
}

func renderJSONValue(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCSV(w io.Writer, rows []core.Row) error {
	cw := csv.NewWriter(w)
	if cols := columnsOf(rows); cols != nil {
		if err := cw.Write(cols); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := cw.Write(csvRecord(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// pageRenderer writes consecutive result pages as one document: a single
// JSON array, or CSV with one header line. Table output gets one table per page.
type pageRenderer struct {
	w      io.Writer
	format string
	rows   int
	csv    *csv.Writer
}

func newPageRenderer(w io.Writer, format string) *pageRenderer {
	return &pageRenderer{w: w, format: strings.ToLower(format)}
}

// Update renders one page. It satisfies batch.Updater.
func (p *pageRenderer) Update(_ context.Context, rows []core.Row) error {
	switch p.format {
	case config.OutputJSON:
		for _, row := range rows {
			data, err := json.MarshalIndent(row.Map(), "  ", "  ")
			if err != nil {
				return err
			}
			sep := "[\n  "
			if p.rows > 0 {
				sep = ",\n  "
			}
			if _, err := io.WriteString(p.w, sep+string(data)); err != nil {
				return err
			}
			p.rows++
		}
		return nil
	case config.OutputCSV:
		if p.csv == nil {
			if len(rows) == 0 {
				return nil
			}
			p.csv = csv.NewWriter(p.w)
			if err := p.csv.Write(columnsOf(rows)); err != nil {
				return err
			}
		}
		for _, row := range rows {
			if err := p.csv.Write(csvRecord(row)); err != nil {
				return err
			}
		}
		p.rows += len(rows)
		p.csv.Flush()
		return p.csv.Error()
	default:
		p.rows += len(rows)
		return renderTable(p.w, rows)
	}
}

// Close terminates the document.
func (p *pageRenderer) Close() error {
	if p.format != config.OutputJSON {
		return nil
	}
	end := "\n]\n"
	if p.rows == 0 {
		end = "[]\n"
	}
	_, err := io.WriteString(p.w, end)
	return err
}

func csvRecord(row core.Row) []string {
	record := make([]string, len(row.Values))
	for i, v := range row.Values {
		record[i] = formatValue(v)
	}
	return record
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
