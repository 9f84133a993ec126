package elam

import (
	"context"

	"github.com/teranos/xraydb/store"
)

// Destination tables
const (
	TableElements        = "elements"
	TableLevels          = "xray_levels"
	TableTransitions     = "xray_transitions"
	TableCosterKronig    = "Coster_Kronig"
	TablePhotoabsorption = "photoabsorption"
	TableScattering      = "scattering"
)

// Element is one "Element" header.
type Element struct {
	AtomicNumber int     `json:"atomic_number"`
	Symbol       string  `json:"element"`
	MolarMass    float64 `json:"molar_mass"`
	Density      float64 `json:"density"`
}

func (Element) Table() string { return TableElements }
func (Element) Columns() []string {
	return []string{"atomic_number", "element", "molar_mass", "density"}
}
func (e Element) Values() []any {
	return []any{e.AtomicNumber, e.Symbol, e.MolarMass, e.Density}
}

// Level is one absorption edge of an element.
type Level struct {
	ID                int     `json:"id"`
	Element           string  `json:"element"`
	IUPACSymbol       string  `json:"iupac_symbol"`
	AbsorptionEdge    float64 `json:"absorption_edge"`
	FluorescenceYield float64 `json:"fluorescence_yield"`
	JumpRatio         float64 `json:"jump_ratio"`
}

func (Level) Table() string { return TableLevels }
func (Level) Columns() []string {
	return []string{"id", "element", "iupac_symbol", "absorption_edge", "fluorescence_yield", "jump_ratio"}
}
func (l Level) Values() []any {
	return []any{l.ID, l.Element, l.IUPACSymbol, l.AbsorptionEdge, l.FluorescenceYield, l.JumpRatio}
}

// Transition is one emission line.
type Transition struct {
	ID             int     `json:"id"`
	Element        string  `json:"element"`
	IUPACSymbol    string  `json:"iupac_symbol"`
	SiegbahnSymbol string  `json:"siegbahn_symbol"`
	InitialLevel   string  `json:"initial_level"`
	FinalLevel     string  `json:"final_level"`
	EmissionEnergy float64 `json:"emission_energy"`
	Intensity      float64 `json:"intensity"`
}

func (Transition) Table() string { return TableTransitions }
func (Transition) Columns() []string {
	return []string{"id", "element", "iupac_symbol", "siegbahn_symbol", "initial_level", "final_level", "emission_energy", "intensity"}
}
func (t Transition) Values() []any {
	return []any{t.ID, t.Element, t.IUPACSymbol, t.SiegbahnSymbol, t.InitialLevel, t.FinalLevel, t.EmissionEnergy, t.Intensity}
}

// CosterKronig is one Coster-Kronig transition from the open edge
// (InitialLevel) to a subshell (FinalLevel).
type CosterKronig struct {
	ID                         int     `json:"id"`
	Element                    string  `json:"element"`
	InitialLevel               string  `json:"initial_level"`
	FinalLevel                 string  `json:"final_level"`
	TransitionProbability      float64 `json:"transition_probability"`
	TotalTransitionProbability float64 `json:"total_transition_probability"`
}

func (CosterKronig) Table() string { return TableCosterKronig }
func (CosterKronig) Columns() []string {
	return []string{"id", "element", "initial_level", "final_level", "transition_probability", "total_transition_probability"}
}
func (c CosterKronig) Values() []any {
	return []any{c.ID, c.Element, c.InitialLevel, c.FinalLevel, c.TransitionProbability, c.TotalTransitionProbability}
}

// Photoabsorption is one tabulated photoabsorption curve.
// All three sequences have the same length.
type Photoabsorption struct {
	ID                       int       `json:"id"`
	Element                  string    `json:"element"`
	LogEnergy                []float64 `json:"log_energy"`
	LogPhotoabsorption       []float64 `json:"log_photoabsorption"`
	LogPhotoabsorptionSpline []float64 `json:"log_photoabsorption_spline"`
}

func (Photoabsorption) Table() string { return TablePhotoabsorption }
func (Photoabsorption) Columns() []string {
	return []string{"id", "element", "log_energy", "log_photoabsorption", "log_photoabsorption_spline"}
}
func (p Photoabsorption) Values() []any {
	return []any{p.ID, p.Element,
		store.FloatArray(p.LogEnergy),
		store.FloatArray(p.LogPhotoabsorption),
		store.FloatArray(p.LogPhotoabsorptionSpline),
	}
}

// Scattering is one tabulated coherent/incoherent scattering curve.
// All five sequences have the same length.
type Scattering struct {
	ID                         int       `json:"id"`
	Element                    string    `json:"element"`
	LogEnergy                  []float64 `json:"log_energy"`
	LogCoherentScatter         []float64 `json:"log_coherent_scatter"`
	LogCoherentScatterSpline   []float64 `json:"log_coherent_scatter_spline"`
	LogIncoherentScatter       []float64 `json:"log_incoherent_scatter"`
	LogIncoherentScatterSpline []float64 `json:"log_incoherent_scatter_spline"`
}

func (Scattering) Table() string { return TableScattering }
func (Scattering) Columns() []string {
	return []string{"id", "element", "log_energy",
		"log_coherent_scatter", "log_coherent_scatter_spline",
		"log_incoherent_scatter", "log_incoherent_scatter_spline"}
}
func (s Scattering) Values() []any {
	return []any{s.ID, s.Element,
		store.FloatArray(s.LogEnergy),
		store.FloatArray(s.LogCoherentScatter),
		store.FloatArray(s.LogCoherentScatterSpline),
		store.FloatArray(s.LogIncoherentScatter),
		store.FloatArray(s.LogIncoherentScatterSpline),
	}
}

// Document holds every record produced by one pass, each kind in emission order.
type Document struct {
	Elements        []Element         `json:"elements"`
	Levels          []Level           `json:"xray_levels"`
	Transitions     []Transition      `json:"xray_transitions"`
	CosterKronig    []CosterKronig    `json:"coster_kronig"`
	Photoabsorption []Photoabsorption `json:"photoabsorption"`
	Scattering      []Scattering      `json:"scattering"`
}

// Counts returns the number of records per destination table.
func (d *Document) Counts() map[string]int {
	return map[string]int{
		TableElements:        len(d.Elements),
		TableLevels:          len(d.Levels),
		TableTransitions:     len(d.Transitions),
		TableCosterKronig:    len(d.CosterKronig),
		TablePhotoabsorption: len(d.Photoabsorption),
		TableScattering:      len(d.Scattering),
	}
}

// Records flattens the document table by table: every Element, then every
// Level, and so on. Within a kind, records keep the order they were parsed in.
// Kinds are not interleaved; identifiers are explicit, so the stored rows do
// not depend on it.
func (d *Document) Records() []store.Record {
	total := 0
	for _, n := range d.Counts() {
		total += n
	}

	out := make([]store.Record, 0, total)
	for _, r := range d.Elements {
		out = append(out, r)
	}
	for _, r := range d.Levels {
		out = append(out, r)
	}
	for _, r := range d.Transitions {
		out = append(out, r)
	}
	for _, r := range d.CosterKronig {
		out = append(out, r)
	}
	for _, r := range d.Photoabsorption {
		out = append(out, r)
	}
	for _, r := range d.Scattering {
		out = append(out, r)
	}
	return out
}

// Emit appends every record to sink. The caller commits.
func (d *Document) Emit(ctx context.Context, sink store.Sink) error {
	return store.AppendAll(ctx, sink, d.Records()...)
}
