package fasta

import (
	"io"

	"github.com/grailbio/msatrim/msa"
)

var newline = []byte{'\n'}

// Writer is a FASTA file writer.
type Writer struct {
	w         io.Writer
	lineWidth int
	err       error
}

// NewWriter constructs a new FASTA writer that writes sequences to the
// underlying writer w, wrapping sequence lines after lineWidth characters.
// A lineWidth of zero or less writes each sequence on one line.
func NewWriter(w io.Writer, lineWidth int) *Writer {
	return &Writer{w: w, lineWidth: lineWidth}
}

// Write writes one named sequence.  An error is returned if the write
// failed; once a write fails, all later writes fail with the same error.
func (w *Writer) Write(name string, seq []byte) error {
	w.writeln([]byte(">" + name))
	if w.lineWidth <= 0 {
		w.writeln(seq)
		return w.err
	}
	for len(seq) > w.lineWidth {
		w.writeln(seq[:w.lineWidth])
		seq = seq[w.lineWidth:]
	}
	if len(seq) > 0 {
		w.writeln(seq)
	}
	return w.err
}

func (w *Writer) writeln(line []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(line)
	if w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}

// WriteAlignment writes every row of a, in order, to w.
func WriteAlignment(w io.Writer, a *msa.Alignment, lineWidth int) error {
	fw := NewWriter(w, lineWidth)
	for i := 0; i < a.NumRows(); i++ {
		if err := fw.Write(a.Name(i), a.Seq(i)); err != nil {
			return err
		}
	}
	return nil
}
