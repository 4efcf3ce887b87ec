package coerce

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tabular/domain/core"
	"tabular/domain/frame"
	"tabular/domain/series"
)

// TypeCoercer turns columns of raw string cells into typed series, using
// threshold-based detection so a few bad cells do not force a column to
// string. The same input and config always produce the same kinds.
type TypeCoercer struct {
	config Config
	naSet  map[string]struct{}
}

// Config defines the coercion thresholds and rules
type Config struct {
	NumericThreshold   float64  `json:"numeric_threshold" toml:"numeric_threshold"`     // share of cells that must parse as numbers
	BooleanThreshold   float64  `json:"boolean_threshold" toml:"boolean_threshold"`     // share of cells that must parse as booleans
	TimestampThreshold float64  `json:"timestamp_threshold" toml:"timestamp_threshold"` // share of cells that must parse as timestamps
	MaxCategories      int      `json:"max_categories" toml:"max_categories"`           // distinct-value cap for categorical marking
	NAValues           []string `json:"na_values" toml:"na_values"`                     // tokens treated as missing
	NormalizeStrings   bool     `json:"normalize_strings" toml:"normalize_strings"`
	SampleSize         int      `json:"sample_size" toml:"sample_size"` // rows inspected per column, 0 means all
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		NumericThreshold:   0.8,
		BooleanThreshold:   0.9,
		TimestampThreshold: 0.8,
		MaxCategories:      100,
		NAValues:           []string{"", "na", "n/a", "nan", "null", "none", "-"},
		NormalizeStrings:   true,
		SampleSize:         1000,
	}
}

// Version hashes the config so coerced outputs can record which rules
// produced them.
func (c Config) Version() core.Hash {
	return core.HashFields(map[string]string{
		"numeric":    strconv.FormatFloat(c.NumericThreshold, 'f', -1, 64),
		"boolean":    strconv.FormatFloat(c.BooleanThreshold, 'f', -1, 64),
		"timestamp":  strconv.FormatFloat(c.TimestampThreshold, 'f', -1, 64),
		"categories": strconv.Itoa(c.MaxCategories),
		"na":         strings.Join(c.NAValues, "\x1f"),
		"normalize":  strconv.FormatBool(c.NormalizeStrings),
	})
}

// New creates a coercer with the given config
func New(config Config) *TypeCoercer {
	naSet := make(map[string]struct{}, len(config.NAValues))
	for _, tok := range config.NAValues {
		naSet[strings.ToLower(tok)] = struct{}{}
	}
	return &TypeCoercer{config: config, naSet: naSet}
}

// Analysis contains the results of type distribution analysis for one column
type Analysis struct {
	Column         string      `json:"column"`
	TotalCount     int         `json:"total_count"`
	ValidCount     int         `json:"valid_count"`
	NumericCount   int         `json:"numeric_count"`
	BooleanCount   int         `json:"boolean_count"`
	TimestampCount int         `json:"timestamp_count"`
	DistinctCount  int         `json:"distinct_count"`
	NumericRatio   float64     `json:"numeric_ratio"`
	BooleanRatio   float64     `json:"boolean_ratio"`
	TimestampRatio float64     `json:"timestamp_ratio"`
	Recommended    series.Kind `json:"recommended"`
	Categorical    bool        `json:"categorical"`
}

// IsNA reports whether a raw cell counts as missing under the config
func (c *TypeCoercer) IsNA(cell string) bool {
	_, ok := c.naSet[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// AnalyzeColumn inspects up to SampleSize cells and recommends a kind. The
// thresholds are checked most-restrictive first, so a column of 0s and 1s
// comes out numeric rather than boolean.
func (c *TypeCoercer) AnalyzeColumn(name string, cells []string) Analysis {
	a := Analysis{Column: name, TotalCount: len(cells)}

	sample := cells
	if c.config.SampleSize > 0 && len(sample) > c.config.SampleSize {
		sample = sample[:c.config.SampleSize]
	}

	allInt := true
	distinct := make(map[string]struct{})
	for _, cell := range sample {
		if c.IsNA(cell) {
			continue
		}
		a.ValidCount++
		distinct[cell] = struct{}{}

		if v, ok := parseNumericCell(cell); ok {
			a.NumericCount++
			if v != math.Trunc(v) {
				allInt = false
			}
		} else {
			allInt = false
		}
		if _, ok := parseBoolCell(cell); ok {
			a.BooleanCount++
		}
		if _, ok := parseTimeCell(cell); ok {
			a.TimestampCount++
		}
	}
	a.DistinctCount = len(distinct)

	if a.ValidCount == 0 {
		a.Recommended = series.String
		return a
	}

	valid := float64(a.ValidCount)
	a.NumericRatio = float64(a.NumericCount) / valid
	a.BooleanRatio = float64(a.BooleanCount) / valid
	a.TimestampRatio = float64(a.TimestampCount) / valid

	switch {
	case a.NumericRatio >= c.config.NumericThreshold && allInt && a.NumericRatio == 1:
		a.Recommended = series.Int
	case a.NumericRatio >= c.config.NumericThreshold:
		a.Recommended = series.Float
	case a.BooleanRatio >= c.config.BooleanThreshold:
		a.Recommended = series.Bool
	case a.TimestampRatio >= c.config.TimestampThreshold:
		a.Recommended = series.Time
	default:
		a.Recommended = series.String
		a.Categorical = c.config.MaxCategories > 0 && a.DistinctCount <= c.config.MaxCategories
	}
	return a
}

// CoerceColumn converts raw cells into a series of the analyzed kind. Cells
// that fail to parse under the chosen kind become missing.
func (c *TypeCoercer) CoerceColumn(name string, cells []string, kind series.Kind) (*series.Series, error) {
	vals := make([]any, len(cells))
	for i, cell := range cells {
		if c.IsNA(cell) {
			continue
		}
		switch kind {
		case series.Int:
			if v, ok := parseNumericCell(cell); ok && v == math.Trunc(v) {
				vals[i] = int64(v)
			}
		case series.Float:
			if v, ok := parseNumericCell(cell); ok {
				vals[i] = v
			}
		case series.Bool:
			if v, ok := parseBoolCell(cell); ok {
				vals[i] = v
			}
		case series.Time:
			if v, ok := parseTimeCell(cell); ok {
				vals[i] = v
			}
		case series.String:
			s := cell
			if c.config.NormalizeStrings {
				s = normalizeCell(s)
			}
			if s != "" {
				vals[i] = s
			}
		default:
			return nil, fmt.Errorf("column %q: %w: cannot coerce to %s", name, core.ErrTypeMismatch, kind)
		}
	}
	out, err := series.FromValues(name, vals)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	return out, nil
}

// CoerceTable analyzes and coerces every column concurrently and assembles a
// frame. header names the columns, rows holds cells in header order. Kinds in
// overrides skip analysis for that column.
func (c *TypeCoercer) CoerceTable(ctx context.Context, header []string, rows [][]string, overrides map[string]series.Kind) (*frame.Frame, error) {
	if len(header) == 0 {
		return nil, core.ErrEmptyFrame
	}
	for _, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row width: %w", core.NewLengthMismatchError(len(header), len(row)))
		}
	}

	cols := make([]*series.Series, len(header))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range header {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cells := make([]string, len(rows))
			for r, row := range rows {
				cells[r] = row[i]
			}
			kind, ok := overrides[name]
			if !ok {
				kind = c.AnalyzeColumn(name, cells).Recommended
			}
			col, err := c.CoerceColumn(name, cells, kind)
			if err != nil {
				return err
			}
			cols[i] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frame.New(cols...)
}

// parseNumericCell parses a number tolerating currency symbols, percent
// signs, thousands separators, and parenthesized negatives.
func parseNumericCell(cell string) (float64, bool) {
	clean := strings.TrimSpace(cell)
	if clean == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		clean = strings.ReplaceAll(clean, symbol, "")
	}
	clean = strings.TrimSpace(clean)

	// Comma with no period reads as a European decimal separator, otherwise
	// commas are thousands separators.
	if strings.Contains(clean, ",") && !strings.Contains(clean, ".") {
		if strings.Count(clean, ",") == 1 && len(clean)-strings.LastIndex(clean, ",") <= 3 {
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}
	clean = strings.ReplaceAll(clean, " ", "")

	if negative {
		clean = "-" + clean
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func parseBoolCell(cell string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "true", "yes", "y", "on":
		return true, true
	case "false", "no", "n", "off":
		return false, true
	}
	return false, false
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

func parseTimeCell(cell string) (time.Time, bool) {
	clean := strings.TrimSpace(cell)
	if clean == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeCell trims, collapses inner whitespace, and strips control
// characters.
func normalizeCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}
