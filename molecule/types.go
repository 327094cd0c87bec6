package molecule

// Direction is the side of an atom with the most angular clearance, used to
// place implicit-hydrogen labels.
type Direction int

const (
	Unspecified Direction = iota
	Top
	Bottom
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unspecified"
	}
}

// Stereo is the collapsed MDL bond stereo code.
type Stereo int

const (
	StereoNone Stereo = iota
	StereoWedgeUp
	StereoWedgeDown // also cis/trans either
)

// Atom is one entry of the atom block. Indices are 1-based and owned by the
// Molecule; an Atom never carries its own index.
type Atom struct {
	Element        string
	X, Y, Z        float64
	Charge         int
	Isotope        int // 0 means natural abundance
	Unpaired       int // radical electron count: 0, 1 or 2
	HydrogenCount  int // implicit hydrogens; inferred at Build unless already set
	MapNumber      int
	ExplicitShow   bool // always draw the label
	SpareDirection Direction
}

// IsCarbon reports whether the atom is a carbon.
func (a Atom) IsCarbon() bool {
	return a.Element == "C"
}

// Bond joins two 1-based atom indices. Order is 1, 2 or 3.
type Bond struct {
	From, To int
	Order    int
	Stereo   Stereo
}

// Other returns the endpoint of b that is not atom. The result is undefined
// when atom is not an endpoint.
func (b Bond) Other(atom int) int {
	if b.From == atom {
		return b.To
	}
	return b.From
}
