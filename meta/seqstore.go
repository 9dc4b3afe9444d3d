package meta

import (
	"context"
	"io"
	"sync"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/metaref/encoding/fasta"
)

// SequenceStore is a lazily loaded name -> sequence index of one FASTA
// file. The file is read in a single pass the first time any method needs
// it, no matter how many lookups follow. SequenceStore is thread-safe.
type SequenceStore struct {
	path string
	once sync.Once
	fa   fasta.Fasta
	err  error
}

// NewSequenceStore creates a store for the FASTA file at path. Nothing is
// read until the first lookup.
func NewSequenceStore(path string) *SequenceStore {
	return &SequenceStore{path: path}
}

func (s *SequenceStore) load(ctx context.Context) error {
	s.once.Do(func() {
		s.err = readFasta(ctx, s.path, func(r io.Reader) (err error) {
			s.fa, err = fasta.New(r)
			return
		})
	})
	return s.err
}

// Seq returns the sequence of the named contig. The boolean is false if the
// file holds no such contig.
func (s *SequenceStore) Seq(ctx context.Context, name string) (string, bool, error) {
	if err := s.load(ctx); err != nil {
		return "", false, err
	}
	seq, err := s.fa.Seq(name)
	if err != nil {
		return "", false, nil
	}
	return seq, true, nil
}

// Names lists the contig names in file order.
func (s *SequenceStore) Names(ctx context.Context) ([]string, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s.fa.SeqNames(), nil
}

// readFasta opens a possibly compressed FASTA file and passes its
// decompressed contents to fn.
func readFasta(ctx context.Context, path string, fn func(io.Reader) error) error {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open", path)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	e := errors.Once{}
	if err := fn(r); err != nil {
		e.Set(errors.E(err, "read", path))
	}
	e.Set(in.Close(ctx))
	return e.Err()
}
