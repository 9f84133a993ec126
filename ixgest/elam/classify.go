package elam

import "strings"

// LineKind tags one input line for the document parser.
type LineKind int

const (
	Blank LineKind = iota // unrecognized or empty; skipped
	ElementHeader
	EdgeHeader
	LinesOpener
	CKOpener
	CKTotalOpener
	PhotoOpener
	ScatterOpener
	DataRow
)

// dataIndent marks a data row inside a block.
const dataIndent = "    "

var kindNames = map[LineKind]string{
	Blank:         "blank",
	ElementHeader: "Element",
	EdgeHeader:    "Edge",
	LinesOpener:   "Lines",
	CKOpener:      "CK",
	CKTotalOpener: "CKtotal",
	PhotoOpener:   "Photo",
	ScatterOpener: "Scatter",
	DataRow:       "data",
}

func (k LineKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Classify returns the kind of a single line. It never fails:
// anything it does not recognize is Blank.
//
// Top-level headers start in column 0 with a case-sensitive keyword token.
// Block openers inside an edge are indented by exactly two spaces.
// A CK line needs at least one token after the keyword; a bare "  CK" is Blank.
// Any line indented by four or more spaces is a data row.
func Classify(line string) LineKind {
	switch {
	case hasKeyword(line, "Element"):
		return ElementHeader
	case hasKeyword(line, "Edge"):
		return EdgeHeader
	case hasKeyword(line, "Photo"):
		return PhotoOpener
	case hasKeyword(line, "Scatter"):
		return ScatterOpener
	case hasKeyword(line, "  Lines"):
		return LinesOpener
	case hasKeyword(line, "  CKtotal"):
		return CKTotalOpener
	case hasKeyword(line, "  CK") && len(strings.Fields(line)) > 1:
		return CKOpener
	case strings.HasPrefix(line, dataIndent):
		return DataRow
	default:
		return Blank
	}
}

// hasKeyword reports whether line starts with keyword followed by
// whitespace or end of line.
func hasKeyword(line, keyword string) bool {
	if !strings.HasPrefix(line, keyword) {
		return false
	}
	if len(line) == len(keyword) {
		return true
	}
	switch line[len(keyword)] {
	case ' ', '\t':
		return true
	}
	return false
}
