// Package fasta contains code for reading and writing FASTA files.  FASTA
// files consist of a number of named sequences that may be interrupted by
// newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters excluding
// whitespace immediately after '>'.  Any text appearing after a space is
// ignored.  For example, '>chr1 A viral sequence' becomes 'chr1'.
package fasta

import (
	"io"

	"github.com/pkg/errors"
)

// Fasta represents FASTA-formatted data, consisting of a set of named
// sequences.
type Fasta interface {
	// Seq returns the whole sequence with the given name. Seq is
	// thread-safe.
	Seq(seqName string) (string, error)

	// SeqNames returns the names of all sequences, in the order of appearance in
	// the FASTA file. A name that appears more than once is listed once, and
	// refers to its first occurrence.
	SeqNames() []string
}

type fasta struct {
	seqs     map[string]string
	seqNames []string
}

// New creates a new Fasta that holds all the FASTA data from the given reader
// in memory.
func New(r io.Reader) (Fasta, error) {
	f := &fasta{seqs: make(map[string]string)}
	sc := NewScanner(r)
	var rec Record
	for sc.Scan(&rec) {
		if _, ok := f.seqs[rec.Name]; ok {
			continue
		}
		f.seqs[rec.Name] = rec.Seq
		f.seqNames = append(f.seqNames, rec.Name)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "couldn't read FASTA data")
	}
	return f, nil
}

// Seq implements Fasta.Seq().
func (f *fasta) Seq(seqName string) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	return s, nil
}

// SeqNames implements Fasta.SeqNames().
func (f *fasta) SeqNames() []string {
	return f.seqNames
}
