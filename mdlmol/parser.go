// Package mdlmol reads MDL MOL (V2000) connection tables and SDF files.
//
// Parsing is all-or-nothing: a record with any structural defect yields an
// error and no molecule. Errors are marked with the kinds declared in package
// molecule, so callers can tell a missing counts line (molecule.ErrFormat)
// from a short or non-numeric line (molecule.ErrMalformedRecord) or an index
// that addresses nothing (molecule.ErrOutOfRange). The marks are cockroachdb
// marks: test them with github.com/H1W0XXX/chiralcarbon/errors.Is, which the
// standard library errors.Is cannot stand in for.
package mdlmol

import (
	"strings"

	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/molecule"
)

const (
	versionTag    = "V2000"
	versionColumn = 34

	minCountsLen = 39
	minAtomLen   = 39
	minBondLen   = 12
	mapNumberEnd = 63

	endTag = "M  END"
)

// Record is one parsed MOL/SDF record.
type Record struct {
	// Title is the first header line, when the record has one.
	Title    string
	Molecule *molecule.Molecule
	// Data holds SDF data items ("> <NAME>" blocks) that follow M  END.
	Data map[string]string
}

// Parse reads one MOL record and returns its finalized molecule.
func Parse(text string) (*molecule.Molecule, error) {
	rec, err := ParseRecord(text)
	if err != nil {
		return nil, err
	}
	return rec.Molecule, nil
}

// ParseRecord reads one MOL or SDF record, including its title and data items.
func ParseRecord(text string) (*Record, error) {
	p := &parser{lines: splitLines(text)}
	return p.parse()
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

type parser struct {
	lines  []string
	counts int // index of the counts line
	nAtoms int
	nBonds int
}

func (p *parser) parse() (*Record, error) {
	if err := p.findCounts(); err != nil {
		return nil, err
	}
	atoms, err := p.atoms()
	if err != nil {
		return nil, err
	}
	bonds, err := p.bonds()
	if err != nil {
		return nil, err
	}
	b, err := molecule.NewBuilder(atoms, bonds)
	if err != nil {
		return nil, err
	}
	end, err := p.properties(b)
	if err != nil {
		return nil, err
	}

	rec := &Record{Molecule: b.Build()}
	if p.counts >= 3 {
		rec.Title = strings.TrimSpace(p.lines[p.counts-3])
	}
	if end >= 0 {
		rec.Data = dataItems(p.lines[end+1:])
	}
	return rec, nil
}

// findCounts locates the counts line by its version tag, anywhere in the text.
func (p *parser) findCounts() error {
	p.counts = -1
	for i, line := range p.lines {
		if len(line) >= minCountsLen && strings.HasPrefix(line[versionColumn:], versionTag) {
			p.counts = i
			break
		}
	}
	if p.counts < 0 {
		return errors.Mark(errors.Newf("%s tag not found", versionTag), molecule.ErrFormat)
	}

	line, lineNo := p.lines[p.counts], p.counts+1
	var err error
	if p.nAtoms, err = intColumn(line, 0, 3, lineNo, "atom count"); err != nil {
		return err
	}
	if p.nBonds, err = intColumn(line, 3, 6, lineNo, "bond count"); err != nil {
		return err
	}
	if p.nAtoms < 0 || p.nBonds < 0 {
		return malformed(lineNo, "negative counts %d/%d", p.nAtoms, p.nBonds)
	}
	return nil
}

// line returns the i-th line after the counts line and its 1-based number.
func (p *parser) line(i int) (string, int, bool) {
	idx := p.counts + 1 + i
	if idx >= len(p.lines) {
		return "", idx + 1, false
	}
	return p.lines[idx], idx + 1, true
}

func (p *parser) atoms() ([]molecule.Atom, error) {
	atoms := make([]molecule.Atom, p.nAtoms)
	for i := range atoms {
		line, lineNo, ok := p.line(i)
		if !ok || len(line) < minAtomLen {
			return nil, malformed(lineNo, "atom line %d shorter than %d columns", i+1, minAtomLen)
		}
		a, err := parseAtom(line, lineNo)
		if err != nil {
			return nil, err
		}
		atoms[i] = a
	}
	return atoms, nil
}

func parseAtom(line string, lineNo int) (molecule.Atom, error) {
	var a molecule.Atom
	var err error
	if a.X, err = floatColumn(line, 0, 10, lineNo, "x"); err != nil {
		return a, err
	}
	if a.Y, err = floatColumn(line, 10, 20, lineNo, "y"); err != nil {
		return a, err
	}
	if a.Z, err = floatColumn(line, 20, 30, lineNo, "z"); err != nil {
		return a, err
	}
	a.Element = column(line, 31, 34)

	code, err := intColumn(line, 36, 39, lineNo, "charge code")
	if err != nil {
		return a, err
	}
	a.Charge, a.Unpaired = chargeCode(code)

	if len(line) >= mapNumberEnd {
		if a.MapNumber, err = intColumn(line, 60, 63, lineNo, "map number"); err != nil {
			return a, err
		}
	}
	return a, nil
}

// chargeCode maps the atom-block charge field to a formal charge and radical
// count: 1..3 are +3..+1, 4 is a doublet radical, 5..7 are -1..-3.
func chargeCode(code int) (charge, unpaired int) {
	switch {
	case code == 4:
		return 0, 2
	case code >= 1 && code <= 7:
		return 4 - code, 0
	default:
		return 0, 0
	}
}

func (p *parser) bonds() ([]molecule.Bond, error) {
	bonds := make([]molecule.Bond, p.nBonds)
	for i := range bonds {
		line, lineNo, ok := p.line(p.nAtoms + i)
		if !ok || len(line) < minBondLen {
			return nil, malformed(lineNo, "bond line %d shorter than %d columns", i+1, minBondLen)
		}
		b, err := p.parseBond(line, lineNo)
		if err != nil {
			return nil, err
		}
		bonds[i] = b
	}
	return bonds, nil
}

func (p *parser) parseBond(line string, lineNo int) (molecule.Bond, error) {
	var fields [4]int
	for k, what := range [4]string{"from", "to", "type", "stereo"} {
		v, err := intColumn(line, 3*k, 3*k+3, lineNo, what)
		if err != nil {
			return molecule.Bond{}, err
		}
		fields[k] = v
	}
	from, to, typ, stereo := fields[0], fields[1], fields[2], fields[3]

	if from == to || from < 1 || from > p.nAtoms || to < 1 || to > p.nAtoms {
		return molecule.Bond{}, outOfRange(lineNo, "bond %d-%d does not join two distinct atoms of %d", from, to, p.nAtoms)
	}

	b := molecule.Bond{From: from, To: to, Order: 1}
	if typ >= 1 && typ <= 3 {
		b.Order = typ
	}
	switch stereo {
	case 1:
		b.Stereo = molecule.StereoWedgeUp
	case 6:
		b.Stereo = molecule.StereoWedgeDown
	}
	return b, nil
}

// dataItems collects "> <NAME>" blocks; each value runs to the next blank line.
func dataItems(lines []string) map[string]string {
	var items map[string]string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !strings.HasPrefix(line, ">") {
			continue
		}
		lt := strings.IndexByte(line, '<')
		gt := strings.LastIndexByte(line, '>')
		if lt < 0 || gt <= lt {
			continue
		}
		name := line[lt+1 : gt]

		var value []string
		for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			i++
			value = append(value, lines[i])
		}
		if items == nil {
			items = make(map[string]string)
		}
		items[name] = strings.Join(value, "\n")
	}
	return items
}
