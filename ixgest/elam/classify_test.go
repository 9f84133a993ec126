package elam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"Element Fe 26 55.85 7.87", ElementHeader},
		{"Element", ElementHeader},
		{"Edge K 7112.0 0.350 8.5", EdgeHeader},
		{"Edge\tK 7112.0 0.350 8.5", EdgeHeader},
		{"Photo", PhotoOpener},
		{"Scatter", ScatterOpener},
		{"  Lines", LinesOpener},
		{"  CK L2 0.1", CKOpener},
		{"  CKtotal L2 0.1", CKTotalOpener},
		{"    K-L3 Ka1 6404.0 1.00", DataRow},
		{"      0.1 0.2 0.3", DataRow},
		{"", Blank},
		{"End", Blank},
		{"/ comment", Blank},
		// keyword must be a whole token
		{"Elements 1 2 3 4", Blank},
		{"Edges", Blank},
		{"Photons", Blank},
		// openers are indented by exactly two spaces
		{"Lines", Blank},
		{"   CK L2 0.1", Blank},
		{"  CKx L2 0.1", Blank},
		{"  CK", Blank},
		{"  CK   ", Blank},
		// case-sensitive
		{"element Fe 26 55.85 7.87", Blank},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "CKtotal", CKTotalOpener.String())
	assert.Equal(t, "Scatter", ScatterOpener.String())
	assert.Equal(t, "unknown", LineKind(99).String())
}

func TestReadBlock(t *testing.T) {
	lines := []string{
		"  Lines",
		"    K-L3 Ka1 6404.0 1.00",
		"    K-L2 Ka2 6391.0 0.50",
		"Photo",
		"    1 2 3",
	}

	rows, next := readBlock(lines, 1)
	assert.Equal(t, 3, next)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, 1, rows[0].index)
		assert.Equal(t, []string{"K-L2", "Ka2", "6391.0", "0.50"}, rows[1].fields)
	}

	t.Run("empty block", func(t *testing.T) {
		rows, next := readBlock(lines, 3)
		assert.Empty(t, rows)
		assert.Equal(t, 3, next)
	})

	t.Run("block runs to end of input", func(t *testing.T) {
		rows, next := readBlock(lines, 4)
		assert.Len(t, rows, 1)
		assert.Equal(t, len(lines), next)
	})
}
