package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H1W0XXX/chiralcarbon/molecule"
)

// sample is a zigzag 4 units wide and 2 high that uses every bond style
// and a charged heteroatom.
func sample(t *testing.T) *molecule.Molecule {
	t.Helper()
	atoms := []molecule.Atom{
		{Element: "C", X: 0, Y: 0},
		{Element: "C", X: 1, Y: 1},
		{Element: "O", X: 1, Y: 2},
		{Element: "C", X: 2, Y: 0},
		{Element: "C", X: 4, Y: 0},
		{Element: "N", X: 3, Y: 1, Charge: 1},
	}
	bonds := []molecule.Bond{
		{From: 1, To: 2, Order: 1},
		{From: 2, To: 3, Order: 1, Stereo: molecule.StereoWedgeUp},
		{From: 2, To: 4, Order: 1, Stereo: molecule.StereoWedgeDown},
		{From: 4, To: 5, Order: 2},
		{From: 5, To: 6, Order: 3},
	}
	b, err := molecule.NewBuilder(atoms, bonds)
	require.NoError(t, err)
	return b.Build()
}

func TestAutoGrid(t *testing.T) {
	tests := []struct {
		n, cols, rows int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
		{9, 3, 3},
		{10, 4, 3},
	}
	for _, tt := range tests {
		cols, rows := AutoGrid(tt.n)
		assert.Equal(t, tt.cols, cols, "n=%d", tt.n)
		assert.Equal(t, tt.rows, rows, "n=%d", tt.n)
		assert.GreaterOrEqual(t, cols*rows, tt.n)
	}
}

func TestCalculateConfig(t *testing.T) {
	m := sample(t)
	cfg, err := CalculateConfig(m, 600, 2, 2)
	require.NoError(t, err)

	// 4x2 extent scaled to fit 600: the x range limits the scale.
	assert.InDelta(t, 150, cfg.ScaleFactor, 1e-9)
	assert.LessOrEqual(t, cfg.FontSize, 600.0/16)
	assert.Equal(t, 600+2*int(cfg.FontSize), cfg.Width)
	assert.Equal(t, 300+2*int(cfg.FontSize), cfg.Height)
	assert.NotNil(t, cfg.Marked)
}

func TestCalculateConfig_Errors(t *testing.T) {
	b, err := molecule.NewBuilder(
		[]molecule.Atom{{Element: "C"}, {Element: "C", X: 1.5}},
		[]molecule.Bond{{From: 1, To: 2, Order: 1}})
	require.NoError(t, err)
	flat := b.Build()

	_, err = CalculateConfig(flat, 600, 1, 1)
	assert.Error(t, err)

	_, err = CalculateConfig(sample(t), 600, 0, 1)
	assert.Error(t, err)
}

func TestCellOfAndRegions(t *testing.T) {
	m := sample(t)
	cfg, err := CalculateConfig(m, 600, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, cfg.Regions())

	assert.Equal(t, "A2", cfg.CellOf(m.MustAtom(1)), "bottom left")
	assert.Equal(t, "A1", cfg.CellOf(m.MustAtom(3)), "top left")
	assert.Equal(t, "B2", cfg.CellOf(m.MustAtom(5)), "bottom right")

	// Points outside the canvas clamp to the border cells.
	assert.Equal(t, "B1", cfg.CellOf(molecule.Atom{X: 100, Y: 100}))
	assert.Equal(t, "A2", cfg.CellOf(molecule.Atom{X: -100, Y: -100}))
}

func TestRender(t *testing.T) {
	m := sample(t)
	cfg, err := CalculateConfig(m, 300, 2, 1)
	require.NoError(t, err)
	cfg.Marked[2] = true
	cfg.Marked[3] = true

	data, regions, err := Render(m, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1"}, regions)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, cfg.Width, img.Bounds().Dx())
	assert.Equal(t, cfg.Height, img.Bounds().Dy())
}

func TestRender_NoGrid(t *testing.T) {
	m := sample(t)
	cfg, err := CalculateConfig(m, 200, 1, 1)
	require.NoError(t, err)
	cfg.DrawGrid = false

	data, _, err := Render(m, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestChargeText(t *testing.T) {
	assert.Equal(t, "+", chargeText(1))
	assert.Equal(t, "-", chargeText(-1))
	assert.Equal(t, "2+", chargeText(2))
	assert.Equal(t, "3-", chargeText(-3))
}

func TestConfine(t *testing.T) {
	box := labelBox{left: 2, right: 2, top: 1, bottom: 1}

	p := confine(0, 0, 10, 0, box)
	assert.InDelta(t, 2, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)

	p = confine(0, 0, 0, -10, box)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, -1, p.Y, 1e-9)

	p = confine(0, 0, 5, 5, labelBox{})
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
}
