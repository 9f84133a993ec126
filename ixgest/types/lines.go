package types

import (
	"os"
	"strings"

	"github.com/teranos/xraydb/errors"
)

// ReadLines reads path into lines without terminators.
// A missing file wraps errors.ErrSourceMissing.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrSourceMissing, "%s", path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits on '\n', trims a trailing '\r' from each line and drops
// the empty element after a final newline.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
