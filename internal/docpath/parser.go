// internal/docpath/parser.go
package docpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pieceRegex matches one dot-separated piece: an optional key followed by
// any number of bracketed indices, e.g. `SlurmQueues[0]` or `matrix[1][2]`.
var pieceRegex = regexp.MustCompile(`^([^\[\]]*)((?:\[\d+\])*)$`)

var indexRegex = regexp.MustCompile(`\[(\d+)\]`)

// Parse creates a Path from its canonical string representation. The empty
// string parses to the root path.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Root, nil
	}

	var segs []Segment
	for i, piece := range strings.Split(raw, ".") {
		matches := pieceRegex.FindStringSubmatch(piece)
		if matches == nil {
			return Root, fmt.Errorf("invalid path segment format: %q", piece)
		}

		name, indices := matches[1], matches[2]
		switch {
		case name != "":
			segs = append(segs, Key(name))
		case indices == "" || i > 0:
			return Root, fmt.Errorf("path %q contains an empty segment", raw)
		}

		for _, m := range indexRegex.FindAllStringSubmatch(indices, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return Root, fmt.Errorf("invalid index in segment %q: %w", piece, err)
			}
			segs = append(segs, Index(n))
		}
	}

	return Path{segments: segs}, nil
}

// MustParse is like Parse but panics on malformed input. It is meant for
// package-level path constants.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}
