package mdlmol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/H1W0XXX/chiralcarbon/errors"
)

// RecordTerminator ends every record of an SDF file.
const RecordTerminator = "$$$$"

const maxLineSize = 1 << 20

// Scanner splits an SDF stream into record texts.
type Scanner struct {
	sc   *bufio.Scanner
	text string
	err  error
}

func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Scanner{sc: sc}
}

// Scan advances to the next record, which is then available through Text.
func (s *Scanner) Scan() bool {
	var sb strings.Builder
	content := false
	for s.sc.Scan() {
		line := s.sc.Text()
		if strings.TrimSpace(line) == RecordTerminator {
			if content {
				s.text = sb.String()
				return true
			}
			sb.Reset()
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		if strings.TrimSpace(line) != "" {
			content = true
		}
	}
	s.err = s.sc.Err()
	if content && s.err == nil {
		s.text = sb.String()
		return true
	}
	s.text = ""
	return false
}

func (s *Scanner) Text() string { return s.text }

func (s *Scanner) Err() error { return s.err }

// ParseAll reads every record of an SDF stream. Records that fail to parse
// are skipped and counted; a read error aborts.
func ParseAll(r io.Reader) (records []*Record, skipped int, err error) {
	s := NewScanner(r)
	for s.Scan() {
		rec, err := ParseRecord(s.Text())
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := s.Err(); err != nil {
		return records, skipped, errors.Wrap(err, "read sdf")
	}
	return records, skipped, nil
}

// BuildIndex returns the byte offset at which each record of an SDF stream
// starts.
func BuildIndex(r io.Reader) ([]int64, error) {
	br := bufio.NewReader(r)
	var offsets []int64
	var pos, start int64
	content := false
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "read sdf")
		}
		pos += int64(len(line))
		switch trimmed := strings.TrimSpace(line); {
		case trimmed == RecordTerminator:
			if content {
				offsets = append(offsets, start)
			}
			start, content = pos, false
		case trimmed != "":
			content = true
		}
		if err == io.EOF {
			break
		}
	}
	if content {
		offsets = append(offsets, start)
	}
	return offsets, nil
}

// WriteIndex writes one ASCII offset per line.
func WriteIndex(w io.Writer, offsets []int64) error {
	bw := bufio.NewWriter(w)
	for _, off := range offsets {
		if _, err := fmt.Fprintln(bw, off); err != nil {
			return errors.Wrap(err, "write index")
		}
	}
	return errors.Wrap(bw.Flush(), "write index")
}

// ReadIndex reads an index written by WriteIndex. Blank lines are ignored.
func ReadIndex(r io.Reader) ([]int64, error) {
	var offsets []int64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		off, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse offset %q", line)
		}
		offsets = append(offsets, off)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read index")
	}
	return offsets, nil
}

// ReadRecordAt returns the text of the record starting at offset, without
// its terminator line.
func ReadRecordAt(rs io.ReadSeeker, offset int64) (string, error) {
	if _, err := rs.Seek(offset, io.SeekStart); err != nil {
		return "", errors.Wrapf(err, "seek to %d", offset)
	}

	reader := bufio.NewReader(rs)
	var sb strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", errors.Wrapf(err, "read record at %d", offset)
		}
		if strings.TrimSpace(line) == RecordTerminator {
			break
		}
		sb.WriteString(line)
		if err == io.EOF {
			break
		}
	}
	return sb.String(), nil
}
