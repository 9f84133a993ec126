// Package chantler parses Chantler's tables of X-ray form factors and
// attenuation coefficients, one file per element.
package chantler

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/xraydb/errors"
	"github.com/teranos/xraydb/ixgest/types"
	"github.com/teranos/xraydb/logger"
)

// MaxElements is the highest atomic number with a table.
const MaxElements = 92

// dataColumns: E(keV), f1, f2, photo, incoh, total
const dataColumns = 6

const (
	relativisticMarker = "Relativistic"
	nuclearMarker      = "Nuclear Thomson"
)

// Parser reads per-element Chantler files.
type Parser struct {
	logger  *zap.SugaredLogger
	workers int
}

// NewParser creates a parser that reads up to workers files at once
// (1 when workers < 1). A nil logger is silent.
func NewParser(log *zap.SugaredLogger, workers int) *Parser {
	if workers < 1 {
		workers = 1
	}
	return &Parser{logger: logger.OrNop(log), workers: workers}
}

// Load reads elements 1..n of variant v from dir. Files are read and parsed
// concurrently; the result is ordered by atomic number. The first failure
// cancels the remaining reads.
func (p *Parser) Load(ctx context.Context, dir string, v Variant, n int) ([]ElementTable, error) {
	if n < 1 || n > MaxElements {
		return nil, errors.Newf("element count %d out of range 1..%d", n, MaxElements)
	}

	start := time.Now()
	tables := make([]ElementTable, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for z := 1; z <= n; z++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, v.FileName(z))
			lines, err := types.ReadLines(path)
			if err != nil {
				return err
			}
			t, err := p.Parse(z, lines)
			if err != nil {
				return errors.Wrapf(err, "%s", path)
			}
			t.TableName = v.Table
			tables[z-1] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Debugw("Loaded Chantler tables",
		logger.FieldTable, v.Table,
		logger.FieldCount, n,
		logger.FieldWorkers, p.workers,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return tables, nil
}

// Parse reads one element file. The first three lines are '#' headers
// carrying the symbol and density, sigma_mu, and mue_f2; further '#' lines
// may carry the f1 corrections. Every other non-blank line is a data row.
func (p *Parser) Parse(z int, lines []string) (ElementTable, error) {
	t := ElementTable{ID: z}
	if len(lines) < 3 {
		return t, errors.Wrapf(errors.ErrFieldCount, "%d header lines, want 3", len(lines))
	}

	// line 1: "#<symbol>: ... <density> <unit>"
	words := headerWords(lines[0])
	if len(words) < 3 {
		return t, errors.Wrapf(errors.ErrFieldCount, "line 1: %d fields, want at least 3", len(words))
	}
	t.Element = strings.ReplaceAll(words[0], ":", "")
	var err error
	if t.Density, err = parseFloat(1, words[len(words)-2]); err != nil {
		return t, err
	}
	if t.SigmaMu, err = lastFloat(2, lines[1]); err != nil {
		return t, err
	}
	if t.MueF2, err = lastFloat(3, lines[2]); err != nil {
		return t, err
	}

	rows := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			if err := t.correction(i+1, line); err != nil {
				return t, err
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < dataColumns {
			return t, errors.Wrapf(errors.ErrFieldCount,
				"line %d: %d fields, want %d", i+1, len(fields), dataColumns)
		}
		var w [dataColumns]float64
		for j := range w {
			if w[j], err = parseFloat(i+1, fields[j]); err != nil {
				return t, err
			}
		}

		// corrections seen so far apply to f1
		t.Energy = append(t.Energy, 1000*w[0])
		t.F1 = append(t.F1, w[1]-float64(z)+t.CorrCL35+t.CorrNucl)
		t.F2 = append(t.F2, w[2])
		t.MuPhoto = append(t.MuPhoto, w[3])
		t.MuIncoh = append(t.MuIncoh, w[4])
		t.MuTotal = append(t.MuTotal, w[5])
		rows++
	}

	p.logger.Debugw("Parsed Chantler element",
		logger.FieldElement, t.Element,
		logger.FieldRows, rows,
	)
	return t, nil
}

// correction picks up "#Relativistic ... = <henke>, <cl35> e/atom" and
// "#Nuclear Thomson ... = <nucl> e/atom" comment lines. Other comments are ignored.
func (t *ElementTable) correction(lineNo int, line string) error {
	relativistic := strings.Contains(line, relativisticMarker)
	if !relativistic && !strings.Contains(line, nuclearMarker) {
		return nil
	}

	parts := strings.Split(strings.ReplaceAll(line[1:], "#", " "), "=")
	if len(parts) != 2 {
		return errors.Wrapf(errors.ErrFieldCount, "line %d: correction is not <label> = <value>", lineNo)
	}
	val := strings.NewReplacer(",", "", "e/atom", "").Replace(parts[1])
	words := strings.Fields(val)

	want := 1
	if relativistic {
		want = 2
	}
	if len(words) != want {
		return errors.Wrapf(errors.ErrFieldCount, "line %d: %d correction values, want %d", lineNo, len(words), want)
	}

	nums := make([]float64, want)
	for i, w := range words {
		v, err := parseFloat(lineNo, w)
		if err != nil {
			return err
		}
		nums[i] = v
	}

	if relativistic {
		t.CorrHenke, t.CorrCL35 = nums[0], nums[1]
	} else {
		t.CorrNucl = nums[0]
	}
	return nil
}

// headerWords drops the leading '#' and splits on whitespace.
func headerWords(line string) []string {
	if line == "" {
		return nil
	}
	return strings.Fields(line[1:])
}

func lastFloat(lineNo int, line string) (float64, error) {
	words := headerWords(line)
	if len(words) == 0 {
		return 0, errors.Wrapf(errors.ErrFieldCount, "line %d: empty header", lineNo)
	}
	return parseFloat(lineNo, words[len(words)-1])
}

func parseFloat(lineNo int, tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrMalformedNumber, "line %d: %q", lineNo, tok)
	}
	return v, nil
}
