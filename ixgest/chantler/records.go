package chantler

import (
	"fmt"

	"github.com/teranos/xraydb/store"
)

// Destination tables
const (
	TableFine = "Chantler"
	TableOrig = "Chantler_orig"
)

// Variant selects one of the two per-element file sets.
type Variant struct {
	Table  string `json:"table"`
	Suffix string `json:"suffix"`
}

var (
	// Fine is the dense energy grid, files NN_fine.dat.
	Fine = Variant{Table: TableFine, Suffix: "_fine.dat"}

	// Orig is the grid of the original publication, files NN.dat.
	Orig = Variant{Table: TableOrig, Suffix: ".dat"}
)

// FileName returns the file holding element z.
func (v Variant) FileName(z int) string {
	return fmt.Sprintf("%02d%s", z, v.Suffix)
}

// ElementTable is one element's anomalous scattering factors and attenuation
// coefficients. Energy is in eV; f1 has Z and the relativistic and nuclear
// Thomson corrections applied.
type ElementTable struct {
	ID        int       `json:"id"`
	TableName string    `json:"-"`
	Element   string    `json:"element"`
	SigmaMu   float64   `json:"sigma_mu"`
	MueF2     float64   `json:"mue_f2"`
	Density   float64   `json:"density"`
	CorrHenke float64   `json:"corr_henke"`
	CorrCL35  float64   `json:"corr_cl35"`
	CorrNucl  float64   `json:"corr_nucl"`
	Energy    []float64 `json:"energy"`
	F1        []float64 `json:"f1"`
	F2        []float64 `json:"f2"`
	MuPhoto   []float64 `json:"mu_photo"`
	MuIncoh   []float64 `json:"mu_incoh"`
	MuTotal   []float64 `json:"mu_total"`
}

func (e ElementTable) Table() string { return e.TableName }
func (ElementTable) Columns() []string {
	return []string{"id", "element", "sigma_mu", "mue_f2", "density",
		"corr_henke", "corr_cl35", "corr_nucl",
		"energy", "f1", "f2", "mu_photo", "mu_incoh", "mu_total"}
}
func (e ElementTable) Values() []any {
	return []any{e.ID, e.Element, e.SigmaMu, e.MueF2, e.Density,
		e.CorrHenke, e.CorrCL35, e.CorrNucl,
		store.FloatArray(e.Energy),
		store.FloatArray(e.F1),
		store.FloatArray(e.F2),
		store.FloatArray(e.MuPhoto),
		store.FloatArray(e.MuIncoh),
		store.FloatArray(e.MuTotal),
	}
}
