package elam

import "strings"

// row is one tokenized data line and its index in the input.
type row struct {
	index  int
	fields []string
}

// readBlock consumes the maximal run of data rows starting at pos.
// It returns the rows in source order and the index of the first line
// that is not a data row (len(lines) at end of input). An empty run is valid.
func readBlock(lines []string, pos int) ([]row, int) {
	var rows []row
	for pos < len(lines) && Classify(lines[pos]) == DataRow {
		rows = append(rows, row{index: pos, fields: strings.Fields(lines[pos])})
		pos++
	}
	return rows, pos
}
