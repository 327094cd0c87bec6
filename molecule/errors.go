package molecule

import "github.com/H1W0XXX/chiralcarbon/errors"

// Error kinds. Concrete errors carry a message naming the construct and line
// and are marked with one of these. Test for a kind with
// github.com/H1W0XXX/chiralcarbon/errors.Is; the standard library errors.Is
// does not see marks.
var (
	// ErrFormat: the record has no V2000 counts line.
	ErrFormat = errors.New("mdl mol format error")

	// ErrMalformedRecord: a line is too short or a field is not numeric.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrOutOfRange: a bond endpoint or property-block position does not
	// address an existing atom or bond.
	ErrOutOfRange = errors.New("index out of range")

	// ErrLookup: a query named an atom or bond index that does not exist.
	ErrLookup = errors.New("lookup error")

	// ErrFinalized: a mutation was attempted after Build.
	ErrFinalized = errors.New("molecule already finalized")
)

func lookupError(kind string, index, total int) error {
	return errors.Mark(errors.Newf("%s: get %d, total=%d", kind, index, total), ErrLookup)
}
