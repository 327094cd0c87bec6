package render

import (
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/H1W0XXX/chiralcarbon/molecule"
)

// labelBox is the space a drawn label occupies around its atom centre. Bonds
// stop at its edge.
type labelBox struct {
	left, right, top, bottom float64
}

type renderer struct {
	dc    *gg.Context
	cfg   *Config
	mol   *molecule.Molecule
	boxes []labelBox

	full, half font.Face
}

func (r *renderer) draw() error {
	var err error
	if r.full, err = face(r.cfg.FontSize); err != nil {
		return err
	}
	if r.half, err = face(r.cfg.FontSize / 2); err != nil {
		return err
	}

	r.dc.SetRGB(0, 0, 0)
	r.dc.SetLineWidth(r.cfg.FontSize / 12)
	for i, a := range r.mol.Atoms() {
		r.drawAtom(i, a)
	}
	for _, b := range r.mol.Bonds() {
		r.drawBond(b)
	}
	return nil
}

// hidesLabel: plain carbons are drawn as bare bond junctions.
func hidesLabel(a molecule.Atom) bool {
	return a.IsCarbon() && a.Charge == 0 && a.Unpaired == 0 && !a.ExplicitShow
}

func (r *renderer) drawAtom(i int, a molecule.Atom) {
	dc, fs := r.dc, r.cfg.FontSize
	x, y := r.cfg.Point(a)
	box := &r.boxes[i]
	marked := r.cfg.Marked[i+1]

	dc.SetFontFace(r.full)
	if hidesLabel(a) {
		if marked {
			w, _ := dc.MeasureString("*")
			off := w/4 + fs/4
			dc.DrawStringAnchored("*", x+off, y-off, 0.5, 0.5)
		}
		return
	}

	w, _ := dc.MeasureString(a.Element)
	box.left, box.right = w/2, w/2
	box.top, box.bottom = fs/2, fs/2
	dc.DrawStringAnchored(a.Element, x, y, 0.5, 0.5)

	if a.Charge != 0 {
		text := chargeText(a.Charge)
		dc.SetFontFace(r.half)
		cw, _ := dc.MeasureString(text)
		dc.DrawStringAnchored(text, x+box.right+cw/2, y-fs/3, 0.5, 0.5)
		dc.SetFontFace(r.full)
	}

	if a.HydrogenCount > 0 {
		r.drawHydrogens(box, a, x, y)
	}

	if marked {
		sw, _ := dc.MeasureString("*")
		dc.DrawStringAnchored("*", x-box.left-sw/2, y, 0.5, 0.5)
		box.left += sw
	}
}

// drawHydrogens writes "H" or "Hn" on the atom's spare side.
func (r *renderer) drawHydrogens(box *labelBox, a molecule.Atom, x, y float64) {
	dc, fs := r.dc, r.cfg.FontSize

	var count string
	var numWidth float64
	if a.HydrogenCount > 1 {
		count = strconv.Itoa(a.HydrogenCount)
		dc.SetFontFace(r.half)
		numWidth, _ = dc.MeasureString(count)
		dc.SetFontFace(r.full)
	}
	hWidth, _ := dc.MeasureString("H")

	hx, hy := x, y
	switch a.SpareDirection {
	case molecule.Bottom:
		hy = y + fs
		box.bottom += fs
	case molecule.Top:
		hy = y - fs
		box.top += fs
	case molecule.Left:
		hx = x - box.left - hWidth/2 - numWidth
		box.left += hWidth + numWidth
	default:
		hx = x + box.right + hWidth/2
		box.right += hWidth + numWidth
	}

	dc.DrawStringAnchored("H", hx, hy, 0.5, 0.5)
	if count != "" {
		dc.SetFontFace(r.half)
		dc.DrawStringAnchored(count, hx+hWidth/2+numWidth/2, hy+fs/4, 0.5, 0.5)
		dc.SetFontFace(r.full)
	}
}

func chargeText(c int) string {
	switch {
	case c == 1:
		return "+"
	case c == -1:
		return "-"
	case c > 0:
		return strconv.Itoa(c) + "+"
	default:
		return strconv.Itoa(-c) + "-"
	}
}

func (r *renderer) drawBond(b molecule.Bond) {
	dc := r.dc
	a1, a2 := r.mol.MustAtom(b.From), r.mol.MustAtom(b.To)
	x1, y1 := r.cfg.Point(a1)
	x2, y2 := r.cfg.Point(a2)
	box1, box2 := r.boxes[b.From-1], r.boxes[b.To-1]

	p1 := confine(x1, y1, x2, y2, box1)
	p2 := confine(x2, y2, x1, y1, box2)

	rad := math.Atan2(y2-y1, x2-x1)
	delta := r.cfg.FontSize / 6
	dx := math.Sin(rad) * delta
	dy := -math.Cos(rad) * delta

	switch {
	case b.Order == 1 && b.Stereo == molecule.StereoWedgeUp:
		// Solid wedge widening toward the far atom.
		dc.MoveTo(p1.X, p1.Y)
		dc.LineTo(p2.X+dx/2, p2.Y+dy/2)
		dc.LineTo(p2.X-dx/2, p2.Y-dy/2)
		dc.ClosePath()
		dc.Fill()
		return
	case b.Order == 1 && b.Stereo == molecule.StereoWedgeDown:
		const hashes = 6
		for k := 1; k <= hashes; k++ {
			t := float64(k) / hashes
			cx, cy := p1.X+(p2.X-p1.X)*t, p1.Y+(p2.Y-p1.Y)*t
			dc.DrawLine(cx+dx*t/2, cy+dy*t/2, cx-dx*t/2, cy-dy*t/2)
		}
	case b.Order == 2:
		dc.DrawLine(p1.X+dx/2, p1.Y+dy/2, p2.X+dx/2, p2.Y+dy/2)
		dc.DrawLine(p1.X-dx/2, p1.Y-dy/2, p2.X-dx/2, p2.Y-dy/2)
	case b.Order == 3:
		dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
		dc.DrawLine(p1.X+dx, p1.Y+dy, p2.X+dx, p2.Y+dy)
		dc.DrawLine(p1.X-dx, p1.Y-dy, p2.X-dx, p2.Y-dy)
	default:
		dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
	}
	dc.Stroke()
}

// confine moves the start of the segment (x, y)→(x2, y2) to the edge of the
// label box around (x, y).
func confine(x, y, x2, y2 float64, box labelBox) gg.Point {
	w := box.right
	if x2 <= x {
		w = box.left
	}
	h := box.bottom
	if y2 < y {
		h = box.top
	}
	k := math.Atan2(h, w)
	sigx := math.Copysign(1, x2-x)
	sigy := math.Copysign(1, y2-y)
	absRad := math.Atan2(math.Abs(y2-y), math.Abs(x2-x))
	if absRad > k {
		return gg.Point{X: x + sigx*h/math.Tan(absRad), Y: y + sigy*h}
	}
	return gg.Point{X: x + sigx*w, Y: y + sigy*w*math.Tan(absRad)}
}
