// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package msa

import (
	"bytes"
	"fmt"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
)

// Row is one taxon of an alignment.
type Row struct {
	// Name is the taxon label.  It is unique within an Alignment.
	Name string
	// Seq is the aligned sequence.
	Seq []byte
}

// String implements fmt.Stringer.
func (r Row) String() string {
	return fmt.Sprintf("%s:%s", r.Name, r.Seq)
}

// Alignment is an ordered set of rows of identical length.  The zero value
// is not valid; use New.
type Alignment struct {
	rows  []Row
	width int
}

// New validates rows and returns an Alignment holding a private copy of
// them.  It fails if rows is empty, if any row has width zero or a length
// different from the first row, or if a name is empty or repeated.
func New(rows []Row) (*Alignment, error) {
	if len(rows) == 0 {
		return nil, errors.E("msa.New: alignment has no rows")
	}
	width := len(rows[0].Seq)
	if width == 0 {
		return nil, errors.E("msa.New: alignment has width zero")
	}
	names := make(map[string]struct{}, len(rows))
	a := &Alignment{rows: make([]Row, len(rows)), width: width}
	for i, r := range rows {
		if r.Name == "" {
			return nil, errors.E(fmt.Sprintf("msa.New: row %d has an empty name", i))
		}
		if _, ok := names[r.Name]; ok {
			return nil, errors.E(fmt.Sprintf("msa.New: duplicate row name %s", r.Name))
		}
		names[r.Name] = struct{}{}
		if len(r.Seq) != width {
			return nil, errors.E(
				fmt.Sprintf("msa.New: row %s has length %d, expected %d", r.Name, len(r.Seq), width))
		}
		a.rows[i] = Row{Name: r.Name, Seq: append([]byte(nil), r.Seq...)}
	}
	return a, nil
}

// NumRows returns the number of rows.
func (a *Alignment) NumRows() int { return len(a.rows) }

// Width returns the number of columns.
func (a *Alignment) Width() int { return a.width }

// Name returns the name of the i-th row.
func (a *Alignment) Name(i int) string { return a.rows[i].Name }

// Names returns the row names in order.
func (a *Alignment) Names() []string {
	names := make([]string, len(a.rows))
	for i, r := range a.rows {
		names[i] = r.Name
	}
	return names
}

// Seq returns the sequence of the i-th row.  The result aliases the
// Alignment's storage and must not be modified.
func (a *Alignment) Seq(i int) []byte { return a.rows[i].Seq }

// Row returns a copy of the i-th row.
func (a *Alignment) Row(i int) Row {
	r := a.rows[i]
	return Row{Name: r.Name, Seq: append([]byte(nil), r.Seq...)}
}

// Rows returns a copy of all rows.
func (a *Alignment) Rows() []Row {
	rows := make([]Row, len(a.rows))
	for i := range a.rows {
		rows[i] = a.Row(i)
	}
	return rows
}

// Column stores the col-th character of every row into dst, which is
// grown as needed, and returns it.
func (a *Alignment) Column(col int, dst []byte) []byte {
	dst = dst[:0]
	for _, r := range a.rows {
		dst = append(dst, r.Seq[col])
	}
	return dst
}

// Clip returns a new Alignment holding columns [start, end) of a.
func (a *Alignment) Clip(start, end int) (*Alignment, error) {
	if start < 0 || end > a.width || start >= end {
		return nil, errors.E(
			fmt.Sprintf("msa.Clip: invalid column range [%d, %d) for width %d", start, end, a.width))
	}
	rows := make([]Row, len(a.rows))
	for i, r := range a.rows {
		rows[i] = Row{Name: r.Name, Seq: r.Seq[start:end]}
	}
	return New(rows)
}

// FirstUninformative returns the index of the first row that consists only
// of gap and missing-data markers, or -1 if every row has data.
func (a *Alignment) FirstUninformative() int {
	for i, r := range a.rows {
		if IsUninformative(r.Seq) {
			return i
		}
	}
	return -1
}

// Equal reports whether a and b have the same rows, in the same order.
func (a *Alignment) Equal(b *Alignment) bool {
	if a.width != b.width || len(a.rows) != len(b.rows) {
		return false
	}
	for i := range a.rows {
		if a.rows[i].Name != b.rows[i].Name || !bytes.Equal(a.rows[i].Seq, b.rows[i].Seq) {
			return false
		}
	}
	return true
}

// Fingerprint returns a hash of the names and sequences of a, in order.
// Equal alignments have equal fingerprints.
func (a *Alignment) Fingerprint() uint64 {
	var buf []byte
	for _, r := range a.rows {
		buf = append(buf, r.Name...)
		buf = append(buf, 0)
		buf = append(buf, r.Seq...)
		buf = append(buf, '\n')
	}
	return farm.Fingerprint64(buf)
}
