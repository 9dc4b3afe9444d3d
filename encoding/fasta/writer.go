package fasta

import (
	"io"

	"github.com/grailbio/base/unsafe"
)

// DefaultLineWidth is the number of bases per sequence line written by
// NewWriter when no width is given.
const DefaultLineWidth = 60

var newline = []byte{'\n'}

// Writer appends FASTA records to an underlying writer, wrapping sequences
// at a fixed line width.
type Writer struct {
	w     io.Writer
	width int
	err   error
}

// NewWriter constructs a Writer on w. Width <= 0 selects DefaultLineWidth.
func NewWriter(w io.Writer, width int) *Writer {
	if width <= 0 {
		width = DefaultLineWidth
	}
	return &Writer{w: w, width: width}
}

// Write appends one record. Once a write fails, every later call returns
// the same error.
func (w *Writer) Write(name, seq string) error {
	w.write(">")
	w.write(name)
	w.write("\n")
	for len(seq) > w.width {
		w.write(seq[:w.width])
		w.write("\n")
		seq = seq[w.width:]
	}
	if len(seq) > 0 {
		w.write(seq)
		w.write("\n")
	}
	return w.err
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	if s == "\n" {
		_, w.err = w.w.Write(newline)
		return
	}
	_, w.err = w.w.Write(unsafe.StringToBytes(s))
}
