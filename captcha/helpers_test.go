package captcha

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/H1W0XXX/chiralcarbon/mdlmol"
)

// threeCenters has stereocenters at atoms 1, 2 and 3.
const threeCenters = `threeCenters
  -test-  2D

  8  7  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.3000    0.7500    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    2.6000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
   -1.3000    0.7500    0.0000 Br  0  0  0  0  0  0  0  0  0  0  0  0
    0.0000   -1.5000    0.0000 Cl  0  0  0  0  0  0  0  0  0  0  0  0
    1.3000    2.2500    0.0000 F   0  0  0  0  0  0  0  0  0  0  0  0
    3.9000    0.7500    0.0000 I   0  0  0  0  0  0  0  0  0  0  0  0
    2.6000   -1.5000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0  0  0  0
  2  3  1  0  0  0  0
  1  4  1  0  0  0  0
  1  5  1  0  0  0  0
  2  6  1  0  0  0  0
  3  7  1  0  0  0  0
  3  8  1  0  0  0  0
M  END
`

const propane = `propane
  -test-  2D

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.3000    0.7500    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    2.6000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0  0  0  0
  2  3  1  0  0  0  0
M  END
`

// sequence returns the records of texts in turn, then repeats the last one.
func sequence(t *testing.T, texts ...string) (Source, *int) {
	t.Helper()
	recs := make([]*mdlmol.Record, len(texts))
	for i, text := range texts {
		rec, err := mdlmol.ParseRecord(text)
		require.NoError(t, err)
		recs[i] = rec
	}
	calls := 0
	return SourceFunc(func(ctx context.Context) (*mdlmol.Record, error) {
		rec := recs[min(calls, len(recs)-1)]
		calls++
		return rec, nil
	}), &calls
}
