// Package molecule is the in-memory molecular graph: atoms and bonds addressed
// by stable 1-based indices, with the derived geometry and valence data that
// is computed once when a Builder is finalized.
package molecule

import (
	"math"
	"sync"
)

// Molecule is a finalized connection table. Accessors return copies, so a
// Molecule never changes after Build and may be shared between goroutines.
type Molecule struct {
	atoms []Atom
	bonds []Bond
	adj   [][]int // adj[i-1]: 1-based bond indices touching atom i, in declaration order

	avgBondLength float64

	boundsOnce             sync.Once
	minX, minY, maxX, maxY float64
}

func newMolecule(atoms []Atom, bonds []Bond) *Molecule {
	m := &Molecule{
		atoms: append([]Atom(nil), atoms...),
		bonds: append([]Bond(nil), bonds...),
		adj:   make([][]int, len(atoms)),
	}
	for i, b := range m.bonds {
		m.adj[b.From-1] = append(m.adj[b.From-1], i+1)
		m.adj[b.To-1] = append(m.adj[b.To-1], i+1)
	}
	return m
}

// NumAtoms returns the number of atoms.
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the number of bonds.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// Atom returns the atom at a 1-based index.
func (m *Molecule) Atom(index int) (Atom, error) {
	if index < 1 || index > len(m.atoms) {
		return Atom{}, lookupError("atoms", index, len(m.atoms))
	}
	return m.atoms[index-1], nil
}

// Bond returns the bond at a 1-based index.
func (m *Molecule) Bond(index int) (Bond, error) {
	if index < 1 || index > len(m.bonds) {
		return Bond{}, lookupError("bonds", index, len(m.bonds))
	}
	return m.bonds[index-1], nil
}

// MustAtom is Atom for indices the caller already knows are valid, such as
// bond endpoints. It panics otherwise.
func (m *Molecule) MustAtom(index int) Atom {
	a, err := m.Atom(index)
	if err != nil {
		panic(err)
	}
	return a
}

// MustBond is Bond for indices the caller already knows are valid.
func (m *Molecule) MustBond(index int) Bond {
	b, err := m.Bond(index)
	if err != nil {
		panic(err)
	}
	return b
}

// BondsOf returns the 1-based indices of every bond touching atom, in
// declaration order.
func (m *Molecule) BondsOf(atom int) ([]int, error) {
	if atom < 1 || atom > len(m.atoms) {
		return nil, lookupError("atoms", atom, len(m.atoms))
	}
	return append([]int(nil), m.adj[atom-1]...), nil
}

// Degree returns the number of declared bonds on atom, or 0 for an invalid index.
func (m *Molecule) Degree(atom int) int {
	if atom < 1 || atom > len(m.atoms) {
		return 0
	}
	return len(m.adj[atom-1])
}

// IsTerminalHydrogen reports whether atom is an explicit hydrogen with exactly
// one declared bond.
func (m *Molecule) IsTerminalHydrogen(atom int) bool {
	if atom < 1 || atom > len(m.atoms) {
		return false
	}
	return m.atoms[atom-1].Element == "H" && len(m.adj[atom-1]) == 1
}

// Atoms returns a copy of the atom list; element i has index i+1.
func (m *Molecule) Atoms() []Atom {
	return append([]Atom(nil), m.atoms...)
}

// Bonds returns a copy of the bond list; element i has index i+1.
func (m *Molecule) Bonds() []Bond {
	return append([]Bond(nil), m.bonds...)
}

// NearestAtom returns the atom closest to (x, y). ok is false when the
// molecule is empty or the closest atom is farther than tolerance. The first
// atom wins ties.
func (m *Molecule) NearestAtom(x, y, tolerance float64) (index int, ok bool) {
	if len(m.atoms) == 0 {
		return 0, false
	}
	best := 1
	dx, dy := m.atoms[0].X-x, m.atoms[0].Y-y
	curr := dx*dx + dy*dy
	for i := 1; i < len(m.atoms); i++ {
		dx, dy = m.atoms[i].X-x, m.atoms[i].Y-y
		if d := dx*dx + dy*dy; d < curr {
			best, curr = i+1, d
		}
	}
	if curr > tolerance*tolerance {
		return 0, false
	}
	return best, true
}

func (m *Molecule) bounds() {
	m.boundsOnce.Do(func() {
		if len(m.atoms) == 0 {
			return
		}
		m.minX, m.maxX = m.atoms[0].X, m.atoms[0].X
		m.minY, m.maxY = m.atoms[0].Y, m.atoms[0].Y
		for _, a := range m.atoms[1:] {
			m.minX = math.Min(m.minX, a.X)
			m.maxX = math.Max(m.maxX, a.X)
			m.minY = math.Min(m.minY, a.Y)
			m.maxY = math.Max(m.maxY, a.Y)
		}
	})
}

// MinX and the other bounds are computed from all atoms on first use.
func (m *Molecule) MinX() float64 {
	m.bounds()
	return m.minX
}

func (m *Molecule) MinY() float64 {
	m.bounds()
	return m.minY
}

func (m *Molecule) MaxX() float64 {
	m.bounds()
	return m.maxX
}

func (m *Molecule) MaxY() float64 {
	m.bounds()
	return m.maxY
}

func (m *Molecule) RangeX() float64 { return m.MaxX() - m.MinX() }
func (m *Molecule) RangeY() float64 { return m.MaxY() - m.MinY() }

// AverageBondLength is the mean 2D length over all bonds, 0 without bonds.
func (m *Molecule) AverageBondLength() float64 {
	return m.avgBondLength
}
