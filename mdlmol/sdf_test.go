package mdlmol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sdfOf(records ...string) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(r)
		sb.WriteString(RecordTerminator + "\n")
	}
	return sb.String()
}

func water() string {
	return molText("water", []testAtom{{el: "O"}}, nil)
}

func TestScanner(t *testing.T) {
	s := NewScanner(strings.NewReader(sdfOf(ethane(), water()) + "\n\n"))

	var texts []string
	for s.Scan() {
		texts = append(texts, s.Text())
	}
	require.NoError(t, s.Err())
	require.Len(t, texts, 2)
	assert.True(t, strings.HasPrefix(texts[0], "ethane\n"))
	assert.True(t, strings.HasPrefix(texts[1], "water\n"))
}

func TestScanner_UnterminatedLastRecord(t *testing.T) {
	s := NewScanner(strings.NewReader(sdfOf(ethane()) + water()))

	n := 0
	for s.Scan() {
		n++
	}
	require.NoError(t, s.Err())
	assert.Equal(t, 2, n)
}

func TestParseAll_SkipsBadRecords(t *testing.T) {
	bad := "not a molecule\n"
	records, skipped, err := ParseAll(strings.NewReader(sdfOf(ethane(), bad, water())))
	require.NoError(t, err)

	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "ethane", records[0].Title)
	assert.Equal(t, "water", records[1].Title)
}

func TestIndexRoundTrip(t *testing.T) {
	// The second record has a blank title line.
	anonymous := molText("", []testAtom{{el: "N"}}, nil)
	data := sdfOf(ethane(), anonymous, water()) + "\n"

	offsets, err := BuildIndex(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, offsets, 3)
	assert.Equal(t, int64(0), offsets[0])

	var buf bytes.Buffer
	require.NoError(t, WriteIndex(&buf, offsets))
	read, err := ReadIndex(strings.NewReader(buf.String() + "\n"))
	require.NoError(t, err)
	assert.Equal(t, offsets, read)

	r := strings.NewReader(data)
	wantElements := []string{"C", "N", "O"}
	for i, off := range read {
		text, err := ReadRecordAt(r, off)
		require.NoError(t, err)
		assert.NotContains(t, text, RecordTerminator)

		m, err := Parse(text)
		require.NoError(t, err, "record %d", i)
		assert.Equal(t, wantElements[i], m.MustAtom(1).Element)
	}
}

func TestReadIndex_BadOffset(t *testing.T) {
	_, err := ReadIndex(strings.NewReader("0\nabc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc")
}

func TestBuildIndex_Empty(t *testing.T) {
	offsets, err := BuildIndex(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, offsets)
}
