package elam

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/teranos/xraydb/errors"
	"github.com/teranos/xraydb/ixgest/types"
)

// Signature must appear on the first line of an Elam data file.
const Signature = "Elam, Ravel, Sieber"

// Input is a loaded Elam file ready for parsing.
type Input struct {
	Path string
	// Lines excludes the leading '/' comment lines.
	Lines []string
	// FirstLine is the 1-based file line number of Lines[0].
	FirstLine int
}

// ReadFile loads path. A missing file wraps errors.ErrSourceMissing.
func ReadFile(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrSourceMissing, "%s", path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	in, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	in.Path = path
	return in, nil
}

// Load reads an Elam file from r, checks the signature and drops the leading
// block of '/' comment lines. Input must be ASCII.
func Load(r io.Reader) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}

	if i := bytes.IndexFunc(data, func(c rune) bool { return c > 0x7f }); i >= 0 {
		line := bytes.Count(data[:i], []byte("\n")) + 1
		return nil, errors.Newf("line %d: non-ASCII input", line)
	}

	lines := types.SplitLines(string(data))
	if len(lines) == 0 || !strings.Contains(lines[0], Signature) {
		return nil, errors.WithHintf(errors.ErrSignature,
			"the first line of an Elam file must contain %q", Signature)
	}

	skip := 0
	for skip < len(lines) && strings.HasPrefix(lines[skip], "/") {
		skip++
	}

	return &Input{Lines: lines[skip:], FirstLine: skip + 1}, nil
}
