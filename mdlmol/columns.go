package mdlmol

import (
	"strconv"
	"strings"

	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/molecule"
)

// column returns line[from:to] trimmed, clipped to the line length.
func column(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[from:min(to, len(line))])
}

// intColumn parses an integer field. A blank field reads as 0.
func intColumn(line string, from, to, lineNo int, what string) (int, error) {
	s := column(line, from, to)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, malformed(lineNo, "%s: %q is not an integer", what, s)
	}
	return v, nil
}

func floatColumn(line string, from, to, lineNo int, what string) (float64, error) {
	s := column(line, from, to)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, malformed(lineNo, "%s: %q is not a number", what, s)
	}
	return v, nil
}

func malformed(lineNo int, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(errors.Newf(format, args...), "line %d", lineNo), molecule.ErrMalformedRecord)
}

func outOfRange(lineNo int, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(errors.Newf(format, args...), "line %d", lineNo), molecule.ErrOutOfRange)
}
