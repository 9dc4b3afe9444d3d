package fasta

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// IndexSuffix is appended to a FASTA path to name its index.
const IndexSuffix = ".fai"

// GenerateIndexFile reads the FASTA file at fastaPath and writes its index
// to fastaPath+IndexSuffix, replacing any existing index.
func GenerateIndexFile(ctx context.Context, fastaPath string) error {
	in, err := file.Open(ctx, fastaPath)
	if err != nil {
		return errors.E(err, "open", fastaPath)
	}
	indexPath := fastaPath + IndexSuffix
	out, err := file.Create(ctx, indexPath)
	if err != nil {
		in.Close(ctx) // nolint: errcheck
		return errors.E(err, "create", indexPath)
	}
	w := bufio.NewWriter(out.Writer(ctx))
	e := errors.Once{}
	e.Set(GenerateIndex(w, in.Reader(ctx)))
	e.Set(w.Flush())
	e.Set(out.Close(ctx))
	e.Set(in.Close(ctx))
	if err := e.Err(); err != nil {
		return errors.E(err, "generate index", indexPath)
	}
	return nil
}

// GenerateIndex generates an index (*.fai) from FASTA.  Aligners and
// samtools use the index to random-access the FASTA file quickly.
//
// The index format is defined by "samtool faidx"
// (http://www.htslib.org/doc/faidx.html). A record without bases gets an
// entry with zero length and zero line widths.
func GenerateIndex(out io.Writer, in io.Reader) (err error) {
	var (
		tsvOut   = tsv.NewWriter(out)
		r        = bufio.NewReader(in)
		inRecord bool
		entry    faiEntry
		cumByte  int64
		eof      bool
	)

	setErr := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}
	flush := func() {
		if !inRecord {
			return
		}
		tsvOut.WriteString(entry.name)
		tsvOut.WriteInt64(entry.length)
		tsvOut.WriteInt64(entry.offset)
		tsvOut.WriteInt64(entry.lineBases)
		tsvOut.WriteInt64(entry.lineWidth)
		setErr(tsvOut.EndLine())
	}
	for !eof && err == nil {
		fullLine, e := r.ReadBytes('\n')
		if e == io.EOF {
			eof = true
		} else if e != nil {
			setErr(e)
		}
		cumByte += int64(len(fullLine))
		line := bytes.TrimRight(fullLine, "\r\n")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			inRecord = true
			entry = faiEntry{offset: cumByte}
			if fields := strings.Fields(string(line[1:])); len(fields) > 0 {
				entry.name = fields[0]
			}
			continue
		}
		if !inRecord {
			setErr(errors.E("malformed FASTA file"))
			break
		}
		if entry.lineWidth == 0 {
			entry.lineWidth = int64(len(fullLine))
			entry.lineBases = int64(len(line))
		}
		entry.length += int64(len(line))
	}
	flush()
	setErr(tsvOut.Flush())
	if cumByte == 0 {
		setErr(errors.E("empty FASTA file"))
	}
	return
}

// faiEntry is one line of a .fai index.
type faiEntry struct {
	name      string
	length    int64
	offset    int64
	lineBases int64
	lineWidth int64
}
