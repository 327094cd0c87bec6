package molecule

import (
	"github.com/H1W0XXX/chiralcarbon/errors"
)

// Builder holds a connection table while it is still being edited. Property
// blocks adjust atoms and bonds through Atom and Bond; Build then finalizes
// the table into a read-only Molecule.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	atoms []Atom
	bonds []Bond
	mol   *Molecule
}

// NewBuilder takes ownership of atoms and bonds. Every bond must join two
// distinct atoms in [1, len(atoms)].
func NewBuilder(atoms []Atom, bonds []Bond) (*Builder, error) {
	for i, b := range bonds {
		if b.From == b.To || b.From < 1 || b.From > len(atoms) || b.To < 1 || b.To > len(atoms) {
			return nil, errors.Mark(
				errors.Newf("bond %d: %d-%d does not join two distinct atoms of %d", i+1, b.From, b.To, len(atoms)),
				ErrOutOfRange)
		}
	}
	return &Builder{atoms: atoms, bonds: bonds}, nil
}

// NumAtoms returns the number of atoms.
func (b *Builder) NumAtoms() int { return len(b.atoms) }

// NumBonds returns the number of bonds.
func (b *Builder) NumBonds() int { return len(b.bonds) }

// Atom returns a mutable pointer to the atom at a 1-based index.
func (b *Builder) Atom(index int) (*Atom, error) {
	if b.mol != nil {
		return nil, errors.WithStack(ErrFinalized)
	}
	if index < 1 || index > len(b.atoms) {
		return nil, lookupError("atoms", index, len(b.atoms))
	}
	return &b.atoms[index-1], nil
}

// Bond returns a mutable pointer to the bond at a 1-based index.
func (b *Builder) Bond(index int) (*Bond, error) {
	if b.mol != nil {
		return nil, errors.WithStack(ErrFinalized)
	}
	if index < 1 || index > len(b.bonds) {
		return nil, lookupError("bonds", index, len(b.bonds))
	}
	return &b.bonds[index-1], nil
}

// Build finalizes the table and returns the Molecule. Finalization runs once;
// later calls return the same Molecule.
func (b *Builder) Build() *Molecule {
	if b.mol != nil {
		return b.mol
	}
	m := newMolecule(b.atoms, b.bonds)
	m.finalize()
	b.mol = m
	return m
}
