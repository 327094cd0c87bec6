package captcha

import (
	"context"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/mdlmol"
)

func writeSDF(t *testing.T, records ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compounds.sdf")
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(r)
		sb.WriteString("$$$$\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestIndexedSDF_BuildsMissingIndex(t *testing.T) {
	sdf := writeSDF(t, propane, threeCenters)
	index := strings.TrimSuffix(sdf, ".sdf") + ".index"

	src, err := OpenIndexedSDF(sdf, index)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())

	data, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(t, "0\n"+strconv.Itoa(len(propane)+5)+"\n", string(data))
}

func TestIndexedSDF_Next(t *testing.T) {
	sdf := writeSDF(t, propane, threeCenters)
	src, err := OpenIndexedSDF(sdf, sdf+".index")
	require.NoError(t, err)

	seen := map[string]bool{}
	for range 50 {
		rec, err := src.Next(context.Background())
		require.NoError(t, err)
		seen[rec.Title] = true
	}
	assert.Subset(t, []string{"propane", "threeCenters"}, slices.Collect(maps.Keys(seen)))
	assert.NotEmpty(t, seen)
}

func TestIndexedSDF_EmptyFile(t *testing.T) {
	sdf := writeSDF(t)
	_, err := OpenIndexedSDF(sdf, sdf+".index")
	assert.Error(t, err)
}

func TestIndexedSDF_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := OpenIndexedSDF(filepath.Join(dir, "none.sdf"), filepath.Join(dir, "none.index"))
	assert.Error(t, err)
}

func TestIndexedSDF_FailedIndexWriteLeavesNoFile(t *testing.T) {
	sdf := writeSDF(t, propane, threeCenters)
	index := sdf + ".index"

	writeIndex = func(w io.Writer, offsets []int64) error {
		w.Write([]byte("0\n"))
		return errors.New("disk full")
	}
	_, err := OpenIndexedSDF(sdf, index)
	writeIndex = mdlmol.WriteIndex
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, statErr := os.Stat(index)
	assert.True(t, os.IsNotExist(statErr), "partial index left behind")

	src, err := OpenIndexedSDF(sdf, index)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())
}
