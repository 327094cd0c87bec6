package molecule

import "math"

// Clearance thresholds, in radians, for placing hydrogen labels to the right
// or left before falling back to the widest gap.
const (
	rightClearance = 1.0
	leftClearance  = 1.4

	linearTolerance = 10.0 / 360 * 2 * math.Pi
)

func (m *Molecule) finalize() {
	for i := range m.atoms {
		idx := i + 1
		a := &m.atoms[i]

		if a.HydrogenCount == 0 {
			a.HydrogenCount = implicitHydrogens(*a, m.bondOrderSum(idx))
		}

		// A carbon between two collinear bonds would render as a bare line.
		if a.IsCarbon() && len(m.adj[i]) == 2 {
			t1 := m.lineAngle(m.adj[i][0])
			t2 := m.lineAngle(m.adj[i][1])
			if math.Abs(t1-t2) < linearTolerance {
				a.ExplicitShow = true
			}
		}

		a.SpareDirection = m.spareDirection(idx)
	}

	if len(m.bonds) > 0 {
		sum := 0.0
		for _, b := range m.bonds {
			a1, a2 := m.atoms[b.From-1], m.atoms[b.To-1]
			sum += math.Hypot(a1.X-a2.X, a1.Y-a2.Y)
		}
		m.avgBondLength = sum / float64(len(m.bonds))
	}
}

func (m *Molecule) bondOrderSum(atom int) int {
	sum := 0
	for _, bi := range m.adj[atom-1] {
		sum += m.bonds[bi-1].Order
	}
	return sum
}

// implicitHydrogens applies the per-element valence rule. Elements without a
// rule get none.
func implicitHydrogens(a Atom, orders int) int {
	switch a.Element {
	case "C":
		return max(0, 4-a.Unpaired-abs(a.Charge)-orders)
	case "O", "S":
		return max(0, 2-a.Unpaired+a.Charge-orders)
	case "N", "P":
		return max(0, 3-a.Unpaired+a.Charge-orders)
	case "F", "Cl", "Br", "I":
		return max(0, 1-a.Unpaired-abs(a.Charge)-orders)
	}
	return 0
}

// lineAngle is the undirected angle of a bond, in [0, π).
func (m *Molecule) lineAngle(bond int) float64 {
	b := m.bonds[bond-1]
	from, to := m.atoms[b.From-1], m.atoms[b.To-1]
	t := math.Atan2(from.Y-to.Y, from.X-to.X)
	if t < 0 {
		t += math.Pi
	}
	if t >= math.Pi {
		t -= math.Pi
	}
	return t
}

func (m *Molecule) spareDirection(atom int) Direction {
	top, bottom, left, right := 2*math.Pi, 2*math.Pi, 2*math.Pi, 2*math.Pi
	a := m.atoms[atom-1]
	for _, bi := range m.adj[atom-1] {
		n := m.atoms[m.bonds[bi-1].Other(atom)-1]
		dt := math.Atan2(n.Y-a.Y, n.X-a.X)
		right = math.Min(right, angularDistance(dt, 0))
		left = math.Min(left, angularDistance(dt, math.Pi))
		top = math.Min(top, angularDistance(dt, math.Pi/2))
		bottom = math.Min(bottom, angularDistance(dt, -math.Pi/2))
	}

	switch widest := math.Max(math.Max(top, bottom), math.Max(left, right)); {
	case right > rightClearance:
		return Right
	case left > leftClearance:
		return Left
	case widest == right:
		return Right
	case widest == left:
		return Left
	case widest == bottom:
		return Bottom
	default:
		return Top
	}
}

// angularDistance is the smallest rotation between two angles, in [0, π].
func angularDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
