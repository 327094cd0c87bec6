package mdlmol

import (
	"strconv"
	"strings"

	"github.com/H1W0XXX/chiralcarbon/molecule"
)

const (
	aliasPrefix = "A  "

	propCountFrom = 6
	propCountTo   = 9
	propFirst     = 9
	propStride    = 8
	propField     = 4
)

// property is one "M  XXX" line type. apply edits the builder for one
// (position, value) pair.
type property struct {
	prefix string
	apply  func(b *molecule.Builder, pos, val int) error
}

var properties = []property{
	{"M  CHG", func(b *molecule.Builder, pos, val int) error {
		return editAtom(b, pos, func(a *molecule.Atom) { a.Charge = val })
	}},
	{"M  RAD", func(b *molecule.Builder, pos, val int) error {
		return editAtom(b, pos, func(a *molecule.Atom) { a.Unpaired = val })
	}},
	{"M  ISO", func(b *molecule.Builder, pos, val int) error {
		return editAtom(b, pos, func(a *molecule.Atom) { a.Isotope = val })
	}},
	{"M  RGP", func(b *molecule.Builder, pos, val int) error {
		return editAtom(b, pos, func(a *molecule.Atom) { a.Element = "R" + strconv.Itoa(val) })
	}},
	{"M  HYD", func(b *molecule.Builder, pos, _ int) error {
		return editAtom(b, pos, func(a *molecule.Atom) { a.ExplicitShow = true })
	}},
	{"M  ZCH", func(b *molecule.Builder, pos, val int) error {
		return editAtom(b, pos, func(a *molecule.Atom) { a.Charge = val })
	}},
	{"M  ZBO", func(b *molecule.Builder, pos, val int) error {
		bond, err := b.Bond(pos)
		if err != nil {
			return err
		}
		bond.Stereo = stereoValue(val)
		return nil
	}},
}

func editAtom(b *molecule.Builder, pos int, edit func(*molecule.Atom)) error {
	a, err := b.Atom(pos)
	if err != nil {
		return err
	}
	edit(a)
	return nil
}

// stereoValue reads a property-block stereo value, which uses the collapsed
// codes directly: 1 up, 2 down.
func stereoValue(val int) molecule.Stereo {
	switch val {
	case 1:
		return molecule.StereoWedgeUp
	case 2:
		return molecule.StereoWedgeDown
	default:
		return molecule.StereoNone
	}
}

func lookupProperty(line string) (property, bool) {
	for _, prop := range properties {
		if strings.HasPrefix(line, prop.prefix) {
			return prop, true
		}
	}
	return property{}, false
}

// properties applies the property and alias lines between the bond block and
// M  END. It returns the index of the M  END line, or -1 if there is none.
func (p *parser) properties(b *molecule.Builder) (int, error) {
	for i := p.counts + p.nAtoms + p.nBonds + 1; i < len(p.lines); i++ {
		line, lineNo := p.lines[i], i+1
		if strings.HasPrefix(line, endTag) {
			return i, nil
		}

		if prop, ok := lookupProperty(line); ok {
			if err := applyProperty(b, prop, line, lineNo); err != nil {
				return -1, err
			}
			continue
		}

		if !strings.HasPrefix(line, aliasPrefix) || len(line) < 6 {
			continue
		}
		target, err := strconv.Atoi(column(line, 3, 6))
		if err != nil || target < 1 || target > p.nAtoms {
			continue
		}
		// The alias text is the whole next line.
		i++
		if i >= len(p.lines) {
			break
		}
		a, err := b.Atom(target)
		if err != nil {
			return -1, err
		}
		a.Element = p.lines[i]
	}
	return -1, nil
}

func applyProperty(b *molecule.Builder, prop property, line string, lineNo int) error {
	if len(line) < propCountTo {
		return malformed(lineNo, "invalid M-block %q: missing entry count", prop.prefix)
	}
	n, err := intColumn(line, propCountFrom, propCountTo, lineNo, "M-block entry count")
	if err != nil {
		return err
	}

	for k := 0; k < n; k++ {
		off := propFirst + k*propStride
		if len(line) < off+propStride {
			return malformed(lineNo, "invalid M-block %q: entry %d truncated", prop.prefix, k+1)
		}
		pos, err := intColumn(line, off, off+propField, lineNo, "M-block position")
		if err != nil {
			return err
		}
		val, err := intColumn(line, off+propField, off+propStride, lineNo, "M-block value")
		if err != nil {
			return err
		}
		if pos < 1 {
			return outOfRange(lineNo, "invalid M-block %q: position %d", prop.prefix, pos)
		}
		if err := prop.apply(b, pos, val); err != nil {
			return outOfRange(lineNo, "invalid M-block %q: position %d: %v", prop.prefix, pos, err)
		}
	}
	return nil
}
