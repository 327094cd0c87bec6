// Package render draws a finalized molecule as a PNG over a tagged grid, with
// stereocenters marked by a star.
package render

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/molecule"
)

// Config is the canvas layout for one molecule.
type Config struct {
	Width, Height          int
	FontSize               float64
	ScaleFactor            float64
	GridCountX, GridCountY int
	DrawGrid               bool

	// Marked holds the 1-based indices of atoms to star.
	Marked map[int]bool

	originX, originY float64
}

// CalculateConfig scales the molecule so its larger extent fits maxSize and
// sizes the font from the average bond length.
func CalculateConfig(m *molecule.Molecule, maxSize, gridX, gridY int) (*Config, error) {
	rx, ry := m.RangeX(), m.RangeY()
	if rx == 0 || ry == 0 {
		return nil, errors.Newf("molecule has no range (%gx%g)", rx, ry)
	}
	if gridX < 1 || gridY < 1 {
		return nil, errors.Newf("invalid grid %dx%d", gridX, gridY)
	}

	scale := math.Min(float64(maxSize)/rx, float64(maxSize)/ry)
	fontSize := m.AverageBondLength() / 1.8 * scale
	if fontSize <= 0 || fontSize > float64(maxSize)/16 {
		fontSize = float64(maxSize) / 16
	}

	return &Config{
		Width:       int(rx*scale) + 2*int(fontSize),
		Height:      int(ry*scale) + 2*int(fontSize),
		FontSize:    fontSize,
		ScaleFactor: scale,
		GridCountX:  gridX,
		GridCountY:  gridY,
		DrawGrid:    true,
		Marked:      make(map[int]bool),
		originX:     m.MinX(),
		originY:     m.MinY(),
	}, nil
}

// Point maps molecule coordinates to canvas pixels; canvas y grows downward.
func (c *Config) Point(a molecule.Atom) (x, y float64) {
	x = c.FontSize + c.ScaleFactor*(a.X-c.originX)
	y = float64(c.Height) - c.FontSize - c.ScaleFactor*(a.Y-c.originY)
	return x, y
}

// CellOf returns the tag of the grid cell containing the atom.
func (c *Config) CellOf(a molecule.Atom) string {
	px, py := c.Point(a)
	cellW := float64(c.Width) / float64(c.GridCountX)
	cellH := float64(c.Height) / float64(c.GridCountY)
	col := min(max(int(px/cellW), 0), c.GridCountX-1)
	row := min(max(int(py/cellH), 0), c.GridCountY-1)
	return Tag(col, row)
}

// Regions lists every cell tag, column by column.
func (c *Config) Regions() []string {
	regions := make([]string, 0, c.GridCountX*c.GridCountY)
	for i := 0; i < c.GridCountX; i++ {
		for j := 0; j < c.GridCountY; j++ {
			regions = append(regions, Tag(i, j))
		}
	}
	return regions
}

// Render draws the molecule and returns the PNG bytes and the cell tags.
func Render(m *molecule.Molecule, cfg *Config) ([]byte, []string, error) {
	dc := gg.NewContext(cfg.Width, cfg.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	if cfg.DrawGrid {
		if err := drawGrid(dc, cfg); err != nil {
			return nil, nil, err
		}
	}

	r := &renderer{dc: dc, cfg: cfg, mol: m, boxes: make([]labelBox, m.NumAtoms())}
	if err := r.draw(); err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), cfg.Regions(), nil
}

// drawGrid paints a two-tone checkerboard with a tag in each cell.
func drawGrid(dc *gg.Context, cfg *Config) error {
	unitX := float64(cfg.Width) / float64(cfg.GridCountX)
	unitY := float64(cfg.Height) / float64(cfg.GridCountY)
	for i := 0; i < cfg.GridCountX; i++ {
		for j := 0; j < cfg.GridCountY; j++ {
			if (i+j)%2 == 0 {
				dc.SetHexColor("#FFFFFF")
			} else {
				dc.SetHexColor("#E0E0E0")
			}
			dc.DrawRectangle(float64(i)*unitX, float64(j)*unitY, unitX, unitY)
			dc.Fill()
		}
	}

	labelSize := math.Min(math.Min(unitX, unitY)/2, cfg.FontSize)
	f, err := face(labelSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(f)
	dc.SetRGB(0.627, 0.627, 0.627)
	for i := 0; i < cfg.GridCountX; i++ {
		for j := 0; j < cfg.GridCountY; j++ {
			x := float64(i)*unitX + labelSize*0.25
			y := float64(j+1)*unitY - dc.FontHeight()/2
			dc.DrawString(Tag(i, j), x, y)
		}
	}
	return nil
}
