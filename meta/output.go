package meta

import (
	"bufio"
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/metaref/encoding/fasta"
)

// fastaOutput is a FASTA file being written. Creating one truncates any
// existing file at the same path.
type fastaOutput struct {
	path string
	out  file.File
	buf  *bufio.Writer
	w    *fasta.Writer
}

func createFasta(ctx context.Context, path string) (*fastaOutput, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	buf := bufio.NewWriterSize(out.Writer(ctx), 1<<20)
	return &fastaOutput{
		path: path,
		out:  out,
		buf:  buf,
		w:    fasta.NewWriter(buf, fasta.DefaultLineWidth),
	}, nil
}

func (o *fastaOutput) Write(name, seq string) error {
	if err := o.w.Write(name, seq); err != nil {
		return errors.E(err, "write", o.path)
	}
	return nil
}

func (o *fastaOutput) Close(ctx context.Context) error {
	e := errors.Once{}
	e.Set(o.buf.Flush())
	e.Set(o.out.Close(ctx))
	if err := e.Err(); err != nil {
		return errors.E(err, "close", o.path)
	}
	return nil
}

// discard releases the file after a failure elsewhere. Errors are dropped
// since the caller already has one to report.
func (o *fastaOutput) discard(ctx context.Context) {
	if o == nil {
		return
	}
	o.buf.Flush() // nolint: errcheck
	o.out.Close(ctx) // nolint: errcheck
}
