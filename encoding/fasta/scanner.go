package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

// ErrInvalid is returned when sequence data appears before the first
// '>' header line.
var ErrInvalid = errors.New("invalid FASTA file")

var errEOF = errors.New("eof")

// A Record is one named sequence of a FASTA file.
type Record struct {
	Name, Seq string
}

// Scanner reads FASTA records one at a time, in file order. Unlike New, it
// never holds more than one sequence in memory. Scanners are not
// threadsafe.
type Scanner struct {
	r        *bufio.Reader
	name     string // name of the record being assembled.
	haveName bool
	seq      strings.Builder
	err      error
}

// NewScanner constructs a Scanner that reads raw FASTA data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, 1<<20)}
}

// Scan reads the next record into rec. It returns false once the input is
// exhausted or an error occurs, and never returns true again afterwards.
// The caller should check Err to distinguish the two cases.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	s.seq.Reset()
	for {
		line, err := s.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			s.err = err
			return false
		}
		eof := err == io.EOF
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0:
		case line[0] == '>':
			name := seqName(line[1:])
			if s.haveName {
				rec.Name, rec.Seq = s.name, s.seq.String()
				s.name = name
				return true
			}
			s.name, s.haveName = name, true
		default:
			if !s.haveName {
				s.err = ErrInvalid
				return false
			}
			s.seq.Write(line)
		}
		if eof {
			s.err = errEOF
			if !s.haveName {
				return false
			}
			rec.Name, rec.Seq = s.name, s.seq.String()
			s.haveName = false
			return true
		}
	}
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

func seqName(header []byte) string {
	if fields := bytes.Fields(header); len(fields) > 0 {
		return string(fields[0])
	}
	return ""
}
