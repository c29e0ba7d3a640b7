// Package report renders simulation, ranking, portfolio and runway results as
// console tables, JSON, CSV or msgpack.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yourusername/venture-sim/internal/models"
	"github.com/yourusername/venture-sim/internal/portfolio"
	"github.com/yourusername/venture-sim/internal/ranking"
	"github.com/yourusername/venture-sim/internal/runway"
	"github.com/yourusername/venture-sim/internal/summary"
)

// Format selects an output encoding
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat resolves a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatConsole, FormatJSON, FormatCSV, FormatMsgpack:
		return f, nil
	case "":
		return FormatConsole, nil
	default:
		return "", models.NewConfigurationError("format", "unknown output format %q", name)
	}
}

// StartupReport is the per-startup output of a simulate run
type StartupReport struct {
	Name    string          `json:"name"`
	Seed    int64           `json:"seed"`
	Summary summary.Summary `json:"summary"`
	ROI     []float64       `json:"roi,omitempty"`
}

// WriteSummaries renders per-startup simulation summaries
func WriteSummaries(w io.Writer, f Format, reports []StartupReport) error {
	switch f {
	case FormatConsole:
		return writeString(w, ConsoleSummaries(reports))
	case FormatJSON:
		return writeJSON(w, reports)
	case FormatCSV:
		return WriteSummariesCSV(w, reports)
	case FormatMsgpack:
		return writeMsgpack(w, reports)
	}
	return fmt.Errorf("unsupported format %q", f)
}

// WriteRanking renders a company ranking
func WriteRanking(w io.Writer, f Format, rows []ranking.Row) error {
	switch f {
	case FormatConsole:
		return writeString(w, ConsoleRanking(rows))
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatCSV:
		return WriteRankingCSV(w, rows)
	case FormatMsgpack:
		return writeMsgpack(w, rows)
	}
	return fmt.Errorf("unsupported format %q", f)
}

// WritePortfolio renders a portfolio result. Trial samples are dropped unless
// includeSamples is set.
func WritePortfolio(w io.Writer, f Format, res *portfolio.Result, includeSamples bool) error {
	if res == nil {
		return fmt.Errorf("no portfolio result")
	}
	out := *res
	if !includeSamples {
		out.PortfolioSamples = nil
	}
	switch f {
	case FormatConsole:
		return writeString(w, ConsolePortfolio(&out))
	case FormatJSON:
		return writeJSON(w, &out)
	case FormatCSV:
		return WritePortfolioCSV(w, &out)
	case FormatMsgpack:
		return writeMsgpack(w, &out)
	}
	return fmt.Errorf("unsupported format %q", f)
}

// WriteRunway renders a runway simulation. CSV output has one row per month.
func WriteRunway(w io.Writer, f Format, res *runway.Result) error {
	if res == nil {
		return fmt.Errorf("no runway result")
	}
	switch f {
	case FormatConsole:
		return writeString(w, ConsoleRunway(res))
	case FormatJSON:
		return writeJSON(w, res)
	case FormatCSV:
		return WriteRunwayCSV(w, res)
	case FormatMsgpack:
		return writeMsgpack(w, res)
	}
	return fmt.Errorf("unsupported format %q", f)
}

// SaveFile creates the parent directory of path and writes to it with fn
func SaveFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// msgpack output reuses the json field names
func writeMsgpack(w io.Writer, v interface{}) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(v)
}

// DecodeMsgpack reads a value written by one of the msgpack writers
func DecodeMsgpack(r io.Reader, v interface{}) error {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
