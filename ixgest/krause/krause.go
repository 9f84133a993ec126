// Package krause parses the Keski-Rahkonen & Krause core-hole width table
// (Atomic Data and Nuclear Data Tables 14, 1974).
package krause

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/xraydb/errors"
	"github.com/teranos/xraydb/logger"
)

// Table is the destination table.
const Table = "KeskiRahkonen_Krause"

// Width is the natural width of one core hole, in eV.
type Width struct {
	ID           int     `json:"id"`
	AtomicNumber int     `json:"atomic_number"`
	Element      string  `json:"element"`
	Edge         string  `json:"edge"`
	Width        float64 `json:"width"`
}

func (Width) Table() string { return Table }
func (Width) Columns() []string {
	return []string{"id", "atomic_number", "element", "edge", "width"}
}
func (w Width) Values() []any {
	return []any{w.ID, w.AtomicNumber, w.Element, w.Edge, w.Width}
}

type Parser struct {
	logger *zap.SugaredLogger
}

func NewParser(log *zap.SugaredLogger) *Parser {
	return &Parser{logger: logger.OrNop(log)}
}

// Parse reads "<Z> <element> <edge> <width>" rows. Lines starting with '#'
// and blank lines are skipped.
func (p *Parser) Parse(lines []string) ([]Width, error) {
	var out []Width
	for i, line := range lines {
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, errors.Wrapf(errors.ErrFieldCount,
				"line %d: %d fields, want 4", i+1, len(fields))
		}
		z, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrMalformedNumber, "line %d: atomic number %q", i+1, fields[0])
		}
		width, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrMalformedNumber, "line %d: width %q", i+1, fields[3])
		}

		out = append(out, Width{
			ID:           len(out) + 1,
			AtomicNumber: z,
			Element:      fields[1],
			Edge:         fields[2],
			Width:        width,
		})
	}

	p.logger.Debugw("Parsed core-hole widths", logger.FieldCount, len(out))
	return out, nil
}
