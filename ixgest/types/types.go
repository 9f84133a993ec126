// Package types describes the reference data sources the build ingests and
// holds the line reader they share.
package types

// SourceDef describes one ingested source and the tables it fills.
type SourceDef struct {
	Name   string   `json:"name"`
	Label  string   `json:"label"`
	Tables []string `json:"tables"`
}

// Reference data sources, in build order
var (
	Elam = SourceDef{
		Name:  "elam",
		Label: "Elam, Ravel & Sieber",
		Tables: []string{
			"elements", "xray_levels", "xray_transitions",
			"Coster_Kronig", "photoabsorption", "scattering",
		},
	}

	Waasmaier = SourceDef{
		Name:   "waasmaier",
		Label:  "Waasmaier & Kirfel f0",
		Tables: []string{"Waasmaier"},
	}

	KeskiRahkonen = SourceDef{
		Name:   "keski_rahkonen",
		Label:  "Keski-Rahkonen & Krause core-hole widths",
		Tables: []string{"KeskiRahkonen_Krause"},
	}

	ChantlerOrig = SourceDef{
		Name:   "chantler_orig",
		Label:  "Chantler f'/f'' (original grid)",
		Tables: []string{"Chantler_orig"},
	}

	Chantler = SourceDef{
		Name:   "chantler",
		Label:  "Chantler f'/f'' (fine grid)",
		Tables: []string{"Chantler"},
	}
)

// All lists every source in build order.
func All() []SourceDef {
	return []SourceDef{Elam, Waasmaier, KeskiRahkonen, ChantlerOrig, Chantler}
}
