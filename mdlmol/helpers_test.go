package mdlmol

import (
	"fmt"
	"strings"
)

type testAtom struct {
	x, y   float64
	el     string
	chg    int
	mapnum int
}

type testBond struct {
	from, to, typ, stereo int
}

func countsLine(atoms, bonds int) string {
	return fmt.Sprintf("%3d%3d  0  0  0  0  0  0  0  0999 V2000", atoms, bonds)
}

func atomLine(a testAtom) string {
	return fmt.Sprintf("%10.4f%10.4f%10.4f %-3s 0%3d  0  0  0  0  0  0  0%3d  0  0",
		a.x, a.y, 0.0, a.el, a.chg, a.mapnum)
}

func bondLine(b testBond) string {
	return fmt.Sprintf("%3d%3d%3d%3d  0  0  0", b.from, b.to, b.typ, b.stereo)
}

func propLine(prefix string, pairs ...[2]int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%3d", prefix, len(pairs))
	for _, p := range pairs {
		fmt.Fprintf(&sb, " %3d %3d", p[0], p[1])
	}
	return sb.String()
}

// molText assembles a V2000 record: three header lines, the counts line, the
// atom and bond blocks, any extra lines, and M  END.
func molText(title string, atoms []testAtom, bonds []testBond, extra ...string) string {
	lines := []string{title, "  -test-  2D", ""}
	lines = append(lines, countsLine(len(atoms), len(bonds)))
	for _, a := range atoms {
		lines = append(lines, atomLine(a))
	}
	for _, b := range bonds {
		lines = append(lines, bondLine(b))
	}
	lines = append(lines, extra...)
	lines = append(lines, "M  END")
	return strings.Join(lines, "\n") + "\n"
}

func ethane() string {
	return molText("ethane",
		[]testAtom{{x: 0, y: 0, el: "C"}, {x: 1.5, y: 0, el: "C"}},
		[]testBond{{1, 2, 1, 0}})
}
