package render

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/H1W0XXX/chiralcarbon/errors"
)

var (
	fontOnce sync.Once
	ttf      *truetype.Font
	fontErr  error
)

// face returns a Go Regular face of the given pixel size.
func face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		ttf, fontErr = truetype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = errors.Wrap(fontErr, "parse embedded font")
		}
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
