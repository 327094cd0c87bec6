package captcha

import (
	"context"
	"math/rand/v2"
	"os"

	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/mdlmol"
)

// Source yields candidate molecules for challenges.
type Source interface {
	Next(ctx context.Context) (*mdlmol.Record, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*mdlmol.Record, error)

func (f SourceFunc) Next(ctx context.Context) (*mdlmol.Record, error) { return f(ctx) }

// IndexedSDF picks random records from a large SDF file through its offset
// index, reading only the chosen record.
type IndexedSDF struct {
	path    string
	offsets []int64
}

// OpenIndexedSDF loads the index at indexPath. When the index file does not
// exist it is built from the SDF file and written there.
func OpenIndexedSDF(sdfPath, indexPath string) (*IndexedSDF, error) {
	offsets, err := loadIndex(sdfPath, indexPath)
	if err != nil {
		return nil, err
	}
	if len(offsets) == 0 {
		return nil, errors.Newf("index %s is empty", indexPath)
	}
	return &IndexedSDF{path: sdfPath, offsets: offsets}, nil
}

func loadIndex(sdfPath, indexPath string) ([]int64, error) {
	f, err := os.Open(indexPath)
	if err == nil {
		defer f.Close()
		return mdlmol.ReadIndex(f)
	}
	if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "open index %s", indexPath)
	}

	sdf, err := os.Open(sdfPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open sdf %s", sdfPath)
	}
	defer sdf.Close()
	offsets, err := mdlmol.BuildIndex(sdf)
	if err != nil {
		return nil, err
	}

	if err := writeIndexFile(indexPath, offsets); err != nil {
		return nil, err
	}
	return offsets, nil
}

// writeIndex is replaced in tests to simulate a failed write.
var writeIndex = mdlmol.WriteIndex

// writeIndexFile removes a partly written index so the next start rebuilds it.
func writeIndexFile(path string, offsets []int64) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create index %s", path)
	}
	err = writeIndex(out, offsets)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = errors.Wrapf(cerr, "close index %s", path)
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// Len returns the number of indexed records.
func (s *IndexedSDF) Len() int { return len(s.offsets) }

// Next parses a random record.
func (s *IndexedSDF) Next(ctx context.Context) (*mdlmol.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	off := s.offsets[rand.IntN(len(s.offsets))]

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sdf %s", s.path)
	}
	defer f.Close()

	text, err := mdlmol.ReadRecordAt(f, off)
	if err != nil {
		return nil, err
	}
	rec, err := mdlmol.ParseRecord(text)
	if err != nil {
		return nil, errors.Wrapf(err, "record at offset %d", off)
	}
	return rec, nil
}
