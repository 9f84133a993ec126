// Package elam parses the Elam, Ravel and Sieber X-ray fluorescence data file
// into elements, absorption edges, emission lines, Coster-Kronig transitions
// and photoabsorption/scattering curves.
//
// The file has no explicit nesting: every record belongs to the most recent
// "Element" header above it, and Coster-Kronig rows also belong to the most
// recent "Edge" header. The parser is a single fold over the lines that
// threads that (element, edge) scope from line to line.
package elam

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/teranos/xraydb/errors"
	"github.com/teranos/xraydb/logger"
)

const (
	photoColumns   = 3 // energy, photoabsorption, spline
	scatterColumns = 5 // energy, coherent, coherent spline, incoherent, incoherent spline
)

// Parser turns Elam lines into a Document.
type Parser struct {
	logger *zap.SugaredLogger
}

// NewParser creates a parser. A nil logger is silent.
func NewParser(log *zap.SugaredLogger) *Parser {
	return &Parser{logger: logger.OrNop(log)}
}

// scope is the open context: nil element before the first Element header,
// nil edge until an Edge header follows the current Element.
type scope struct {
	element *Element
	edge    *Level
}

// ids holds the last identifier issued per record kind.
type ids struct {
	level, transition, ck, photo, scatter int
}

type fold struct {
	lines  []string
	offset int
	doc    Document
	ids    ids
	seen   map[int]int // atomic number -> file line of its Element header
	logger *zap.SugaredLogger
}

// Parse folds lines into a Document. Line numbers in errors count from 1.
// On error no partial document is returned.
func (p *Parser) Parse(lines []string) (*Document, error) {
	return p.parse(lines, 0)
}

// ParseInput parses a loaded file; error line numbers refer to the file.
func (p *Parser) ParseInput(in *Input) (*Document, error) {
	return p.parse(in.Lines, in.FirstLine-1)
}

func (p *Parser) parse(lines []string, offset int) (*Document, error) {
	f := &fold{lines: lines, offset: offset, seen: map[int]int{}, logger: p.logger}

	var sc scope
	for pos := 0; pos < len(lines); {
		next, nsc, err := f.step(pos, sc)
		if err != nil {
			return nil, err
		}
		pos, sc = next, nsc
	}

	p.logger.Debugw("Parsed Elam document",
		"elements", len(f.doc.Elements),
		"levels", len(f.doc.Levels),
		"transitions", len(f.doc.Transitions),
		"coster_kronig", len(f.doc.CosterKronig),
		"photoabsorption", len(f.doc.Photoabsorption),
		"scattering", len(f.doc.Scattering),
	)
	return &f.doc, nil
}

// step handles the line at pos and returns the next position and scope.
func (f *fold) step(pos int, sc scope) (int, scope, error) {
	kind := Classify(f.lines[pos])

	switch kind {
	case ElementHeader:
		el, err := f.element(pos)
		if err != nil {
			return 0, sc, err
		}
		return pos + 1, scope{element: el}, nil

	case EdgeHeader:
		if err := f.requireElement(pos, sc, kind); err != nil {
			return 0, sc, err
		}
		lvl, err := f.edge(pos, sc)
		if err != nil {
			return 0, sc, err
		}
		return pos + 1, scope{element: sc.element, edge: lvl}, nil

	case LinesOpener:
		if err := f.requireElement(pos, sc, kind); err != nil {
			return 0, sc, err
		}
		return f.emissionLines(pos, sc)

	case CKOpener:
		if err := f.requireElement(pos, sc, kind); err != nil {
			return 0, sc, err
		}
		if sc.edge == nil {
			return 0, sc, f.fail(pos, errors.Wrapf(errors.ErrUnexpectedContext,
				"CK before any Edge of %s", sc.element.Symbol))
		}
		return f.costerKronig(pos, sc)

	case PhotoOpener:
		if err := f.requireElement(pos, sc, kind); err != nil {
			return 0, sc, err
		}
		return f.photo(pos, sc)

	case ScatterOpener:
		if err := f.requireElement(pos, sc, kind); err != nil {
			return 0, sc, err
		}
		return f.scatter(pos, sc)

	default:
		// Blank lines, stray data rows and orphan CKtotal lines carry no records
		return pos + 1, sc, nil
	}
}

func (f *fold) requireElement(pos int, sc scope, kind LineKind) error {
	if sc.element != nil {
		return nil
	}
	return f.fail(pos, errors.Wrapf(errors.ErrUnexpectedContext, "%s before any Element", kind))
}

// Element <symbol> <atomic_number> <molar_mass> <density>
func (f *fold) element(pos int) (*Element, error) {
	fields, err := f.headerFields(pos, 4)
	if err != nil {
		return nil, err
	}

	z, err := strconv.Atoi(fields[1])
	if err != nil || z <= 0 {
		return nil, f.fail(pos, errors.Wrapf(errors.ErrMalformedNumber, "atomic number %q", fields[1]))
	}
	if prev, ok := f.seen[z]; ok {
		return nil, f.fail(pos, errors.Wrapf(errors.ErrDuplicate,
			"atomic number %d already declared on line %d", z, prev))
	}
	f.seen[z] = pos + 1 + f.offset
	nums, err := f.floats(pos, fields[2:])
	if err != nil {
		return nil, err
	}

	el := Element{AtomicNumber: z, Symbol: fields[0], MolarMass: nums[0], Density: nums[1]}
	f.doc.Elements = append(f.doc.Elements, el)
	f.logger.Debugw("Element", logger.FieldElement, el.Symbol, logger.FieldLine, pos+1+f.offset)
	return &el, nil
}

// Edge <label> <energy> <fluorescence_yield> <jump_ratio>
func (f *fold) edge(pos int, sc scope) (*Level, error) {
	fields, err := f.headerFields(pos, 4)
	if err != nil {
		return nil, err
	}
	nums, err := f.floats(pos, fields[1:])
	if err != nil {
		return nil, err
	}

	f.ids.level++
	lvl := Level{
		ID:                f.ids.level,
		Element:           sc.element.Symbol,
		IUPACSymbol:       fields[0],
		AbsorptionEdge:    nums[0],
		FluorescenceYield: nums[1],
		JumpRatio:         nums[2],
	}
	f.doc.Levels = append(f.doc.Levels, lvl)
	return &lvl, nil
}

// Lines block rows: <iupac> <siegbahn> <energy> <intensity>
func (f *fold) emissionLines(pos int, sc scope) (int, scope, error) {
	rows, next := readBlock(f.lines, pos+1)

	for _, r := range rows {
		if len(r.fields) != 4 {
			return 0, sc, f.fail(r.index, errors.Wrapf(errors.ErrFieldCount,
				"Lines row has %d fields, want 4", len(r.fields)))
		}
		levels := strings.Split(r.fields[0], "-")
		if len(levels) != 2 || levels[0] == "" || levels[1] == "" {
			return 0, sc, f.fail(r.index, errors.Wrapf(errors.ErrFieldCount,
				"transition %q is not <initial>-<final>", r.fields[0]))
		}
		nums, err := f.floats(r.index, r.fields[2:])
		if err != nil {
			return 0, sc, err
		}

		f.ids.transition++
		f.doc.Transitions = append(f.doc.Transitions, Transition{
			ID:             f.ids.transition,
			Element:        sc.element.Symbol,
			IUPACSymbol:    r.fields[0],
			SiegbahnSymbol: r.fields[1],
			InitialLevel:   levels[0],
			FinalLevel:     levels[1],
			EmissionEnergy: nums[0],
			Intensity:      nums[1],
		})
	}

	return next, sc, nil
}

// ckPair is one (subshell, probability) pair from a CK or CKtotal line.
type ckPair struct {
	subshell    string
	probability float64
}

// costerKronig reads a CK line and an optional CKtotal line directly below it.
// Totals are matched to probabilities by position, not by subshell label.
// Without a CKtotal line each probability is its own total.
func (f *fold) costerKronig(pos int, sc scope) (int, scope, error) {
	pairs, err := f.ckPairs(pos)
	if err != nil {
		return 0, sc, err
	}

	totals := pairs
	next := pos + 1
	if next < len(f.lines) && Classify(f.lines[next]) == CKTotalOpener {
		totals, err = f.ckPairs(next)
		if err != nil {
			return 0, sc, err
		}
		next++
	}

	if len(totals) != len(pairs) {
		f.logger.Warnw("CK and CKtotal pair counts differ, extra pairs ignored",
			logger.FieldElement, sc.element.Symbol,
			logger.FieldEdge, sc.edge.IUPACSymbol,
			logger.FieldLine, pos+1+f.offset,
			"ck", len(pairs),
			"ck_total", len(totals),
		)
	}

	for i := 0; i < len(pairs) && i < len(totals); i++ {
		f.ids.ck++
		f.doc.CosterKronig = append(f.doc.CosterKronig, CosterKronig{
			ID:                         f.ids.ck,
			Element:                    sc.element.Symbol,
			InitialLevel:               sc.edge.IUPACSymbol,
			FinalLevel:                 pairs[i].subshell,
			TransitionProbability:      pairs[i].probability,
			TotalTransitionProbability: totals[i].probability,
		})
	}

	return next, sc, nil
}

// ckPairs groups the tokens after the keyword two at a time.
func (f *fold) ckPairs(pos int) ([]ckPair, error) {
	tokens := strings.Fields(f.lines[pos])[1:]
	if len(tokens)%2 != 0 {
		return nil, f.fail(pos, errors.Wrapf(errors.ErrFieldCount,
			"%d tokens do not form (subshell, probability) pairs", len(tokens)))
	}

	pairs := make([]ckPair, 0, len(tokens)/2)
	for _, chunk := range lo.Chunk(tokens, 2) {
		p, err := f.float(pos, chunk[1])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ckPair{subshell: chunk[0], probability: p})
	}
	return pairs, nil
}

func (f *fold) photo(pos int, sc scope) (int, scope, error) {
	cols, next, err := f.curve(pos, photoColumns)
	if err != nil {
		return 0, sc, err
	}

	f.ids.photo++
	f.doc.Photoabsorption = append(f.doc.Photoabsorption, Photoabsorption{
		ID:                       f.ids.photo,
		Element:                  sc.element.Symbol,
		LogEnergy:                cols[0],
		LogPhotoabsorption:       cols[1],
		LogPhotoabsorptionSpline: cols[2],
	})
	return next, sc, nil
}

func (f *fold) scatter(pos int, sc scope) (int, scope, error) {
	cols, next, err := f.curve(pos, scatterColumns)
	if err != nil {
		return 0, sc, err
	}

	f.ids.scatter++
	f.doc.Scattering = append(f.doc.Scattering, Scattering{
		ID:                         f.ids.scatter,
		Element:                    sc.element.Symbol,
		LogEnergy:                  cols[0],
		LogCoherentScatter:         cols[1],
		LogCoherentScatterSpline:   cols[2],
		LogIncoherentScatter:       cols[3],
		LogIncoherentScatterSpline: cols[4],
	})
	return next, sc, nil
}

// curve reads the block below pos into width parallel columns.
// Every row must have exactly width numeric fields.
func (f *fold) curve(pos, width int) ([][]float64, int, error) {
	rows, next := readBlock(f.lines, pos+1)

	cols := make([][]float64, width)
	for i := range cols {
		cols[i] = make([]float64, 0, len(rows))
	}

	for _, r := range rows {
		if len(r.fields) != width {
			return nil, 0, f.fail(r.index, errors.Wrapf(errors.ErrFieldCount,
				"%s row has %d fields, want %d", Classify(f.lines[pos]), len(r.fields), width))
		}
		nums, err := f.floats(r.index, r.fields)
		if err != nil {
			return nil, 0, err
		}
		for i, v := range nums {
			cols[i] = append(cols[i], v)
		}
	}

	return cols, next, nil
}

// headerFields returns the n fields after the header keyword.
func (f *fold) headerFields(pos, n int) ([]string, error) {
	fields := strings.Fields(f.lines[pos])
	if len(fields) != n+1 {
		return nil, f.fail(pos, errors.Wrapf(errors.ErrFieldCount,
			"%s header has %d fields, want %d", fields[0], len(fields)-1, n))
	}
	return fields[1:], nil
}

func (f *fold) floats(pos int, tokens []string) ([]float64, error) {
	out := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := f.float(pos, tok)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// float parses a finite number; NaN and Inf spellings are rejected.
func (f *fold) float(pos int, tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, f.fail(pos, errors.Wrapf(errors.ErrMalformedNumber, "%q", tok))
	}
	return v, nil
}

func (f *fold) fail(pos int, err error) error {
	return errors.WithStack(&LineError{
		Line: pos + 1 + f.offset,
		Text: f.lines[pos],
		Err:  err,
	})
}
