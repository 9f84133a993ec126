// Package waasmaier parses the Waasmaier & Kirfel table of atomic and ionic
// scattering-factor coefficients:
//
//	f0(s) = offset + sum_i scale[i] * exp(-exponents[i] * s^2)
package waasmaier

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/teranos/xraydb/errors"
	"github.com/teranos/xraydb/logger"
	"github.com/teranos/xraydb/store"
)

const (
	// Table is the destination table.
	Table = "Waasmaier"

	// Signature must appear on the second line of the file.
	Signature = "Elastic Photon-Atom Scatt"

	// recordMarker starts a record: "#S <Z> <ion>".
	recordMarker = "#S "

	// coefficientOffset is the distance from the marker to the coefficient row.
	coefficientOffset = 3

	// a1..a5, c, b1..b5
	coefficientCount = 11
)

// Coefficients is one ion's f0 parameterization.
type Coefficients struct {
	ID           int       `json:"id"`
	AtomicNumber int       `json:"atomic_number"`
	Element      string    `json:"element"`
	Ion          string    `json:"ion"`
	Offset       float64   `json:"offset"`
	Scale        []float64 `json:"scale"`
	Exponents    []float64 `json:"exponents"`
}

func (Coefficients) Table() string { return Table }
func (Coefficients) Columns() []string {
	return []string{"id", "atomic_number", "element", "ion", "offset", "scale", "exponents"}
}
func (c Coefficients) Values() []any {
	return []any{c.ID, c.AtomicNumber, c.Element, c.Ion, c.Offset,
		store.FloatArray(c.Scale), store.FloatArray(c.Exponents)}
}

// Parser reads the Waasmaier & Kirfel table.
type Parser struct {
	logger *zap.SugaredLogger
}

// NewParser creates a parser. A nil logger is silent.
func NewParser(log *zap.SugaredLogger) *Parser {
	return &Parser{logger: logger.OrNop(log)}
}

// Parse returns one record per "#S" marker, ids from 1 in file order.
func (p *Parser) Parse(lines []string) ([]Coefficients, error) {
	if len(lines) < 2 || !strings.Contains(lines[1], Signature) {
		return nil, errors.WithHintf(errors.ErrSignature,
			"the second line of a Waasmaier & Kirfel file must contain %q", Signature)
	}

	var out []Coefficients
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], recordMarker) {
			continue
		}

		rec, err := p.record(lines, i)
		if err != nil {
			return nil, err
		}
		rec.ID = len(out) + 1
		out = append(out, rec)
		i += coefficientOffset
	}

	p.logger.Debugw("Parsed Waasmaier table", logger.FieldCount, len(out))
	return out, nil
}

func (p *Parser) record(lines []string, pos int) (Coefficients, error) {
	header := strings.Fields(lines[pos][len(recordMarker):])
	if len(header) != 2 {
		return Coefficients{}, errors.Wrapf(errors.ErrFieldCount,
			"line %d: record header has %d fields, want 2", pos+1, len(header))
	}
	z, err := strconv.Atoi(header[0])
	if err != nil {
		return Coefficients{}, errors.Wrapf(errors.ErrMalformedNumber,
			"line %d: atomic number %q", pos+1, header[0])
	}

	row := pos + coefficientOffset
	if row >= len(lines) {
		return Coefficients{}, errors.Wrapf(errors.ErrFieldCount,
			"line %d: coefficient row missing for %s", pos+1, header[1])
	}
	words, err := parseFloats(strings.Fields(lines[row]))
	if err != nil {
		return Coefficients{}, errors.Wrapf(err, "line %d", row+1)
	}
	if len(words) != coefficientCount {
		return Coefficients{}, errors.Wrapf(errors.ErrFieldCount,
			"line %d: %d coefficients, want %d", row+1, len(words), coefficientCount)
	}

	return Coefficients{
		AtomicNumber: z,
		Element:      ElementOf(header[1]),
		Ion:          header[1],
		Offset:       words[5],
		Scale:        words[:5],
		Exponents:    words[6:],
	}, nil
}

// ElementOf strips charge and valence decorations from an ion label:
// "Fe2+" -> "Fe", "Siva" -> "Si", "O1-" -> "O".
func ElementOf(ion string) string {
	elem := strings.TrimSpace(strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' || r == '-' {
			return ' '
		}
		return r
	}, ion))
	for _, suffix := range []string{"va", "val"} {
		elem = strings.TrimSuffix(elem, suffix)
	}
	return elem
}

func parseFloats(tokens []string) ([]float64, error) {
	var bad string
	out := lo.Map(tokens, func(tok string, _ int) float64 {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil && bad == "" {
			bad = tok
		}
		return v
	})
	if bad != "" {
		return nil, errors.Wrapf(errors.ErrMalformedNumber, "%q", bad)
	}
	return out, nil
}
