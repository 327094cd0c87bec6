// Package chiral finds stereocenters (chiral carbons) in a finalized molecule.
//
// The test is a local heuristic, not CIP ranking: a carbon is a stereocenter
// when it carries four substituents (one may be hydrogen) whose chains all
// differ when walked outward by element, bond order, hydrogen count and
// branching. Chains are compared to a depth of floor(3+sqrt(atoms)); two
// chains still alike at that depth count as equivalent, so stereocenters in
// large rings or long chains may be missed. Substituent matching is
// existential rather than one-to-one, which can also miss stereocenters on
// highly symmetric branches.
package chiral

import (
	"math"

	"github.com/H1W0XXX/chiralcarbon/molecule"
)

// FindChiralCarbons returns the 1-based indices of all chiral carbons in
// ascending order.
func FindChiralCarbons(m *molecule.Molecule) []int {
	var result []int
	for i := 1; i <= m.NumAtoms(); i++ {
		if isChiralCarbon(m, i) {
			result = append(result, i)
		}
	}
	return result
}

// IsChiralCarbon reports whether the atom at a 1-based index is a chiral
// carbon. It fails only for an index outside the molecule.
func IsChiralCarbon(m *molecule.Molecule, index int) (bool, error) {
	if _, err := m.Atom(index); err != nil {
		return false, err
	}
	return isChiralCarbon(m, index), nil
}

func isChiralCarbon(m *molecule.Molecule, index int) bool {
	atom := m.MustAtom(index)
	if !atom.IsCarbon() {
		return false
	}

	bonds, _ := m.BondsOf(index)
	for _, bi := range bonds {
		if m.MustBond(bi).Order != 1 {
			return false
		}
	}

	hcnt := atom.HydrogenCount
	var heavy []int
	for _, bi := range bonds {
		if m.IsTerminalHydrogen(m.MustBond(bi).Other(index)) {
			hcnt++
		} else {
			heavy = append(heavy, bi)
		}
	}

	// Four heavy substituents, or three plus one hydrogen.
	if !(len(heavy) == 4 && hcnt == 0) && !(len(heavy) == 3 && hcnt == 1) {
		return false
	}

	for i := 0; i < len(heavy); i++ {
		for j := i + 1; j < len(heavy); j++ {
			if CompareChain(m, index, heavy[i], heavy[j]) {
				return false
			}
		}
	}
	return true
}

// CompareChain reports whether the substituent chains leaving center through
// bonds chain1 and chain2 are equivalent.
func CompareChain(m *molecule.Molecule, center, chain1, chain2 int) bool {
	return compareChain(m, center, center, chain1, chain2, depthBudget(m))
}

// depthBudget is the recursion budget for one chain comparison.
func depthBudget(m *molecule.Molecule) int {
	return int(math.Floor(3 + math.Sqrt(float64(m.NumAtoms()))))
}

// compareChain compares the branch reached from atom1 over chain1 with the
// branch reached from atom2 over chain2.
func compareChain(m *molecule.Molecule, atom1, atom2, chain1, chain2, ttl int) bool {
	b1 := m.MustBond(chain1)
	b2 := m.MustBond(chain2)
	if b1.Order != b2.Order {
		return false
	}

	next1 := b1.Other(atom1)
	next2 := b2.Other(atom2)
	if m.MustAtom(next1).Element != m.MustAtom(next2).Element {
		return false
	}

	h1, subs1 := substituents(m, next1, atom1)
	h2, subs2 := substituents(m, next2, atom2)
	if h1 != h2 || len(subs1) != len(subs2) {
		return false
	}

	if ttl < 0 {
		return true
	}
	ttl--

	for _, s1 := range subs1 {
		matched := false
		for _, s2 := range subs2 {
			if compareChain(m, next1, next2, s1, s2, ttl) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// substituents returns the hydrogen count of atom, including terminal explicit
// hydrogens, and the bonds to its other heavy neighbours, skipping any bond
// back to from.
func substituents(m *molecule.Molecule, atom, from int) (hydrogens int, heavy []int) {
	hydrogens = m.MustAtom(atom).HydrogenCount
	bonds, _ := m.BondsOf(atom)
	for _, bi := range bonds {
		other := m.MustBond(bi).Other(atom)
		switch {
		case other == from:
		case m.IsTerminalHydrogen(other):
			hydrogens++
		default:
			heavy = append(heavy, bi)
		}
	}
	return hydrogens, heavy
}
