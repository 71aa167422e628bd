// Package fasta reads and writes aligned FASTA files.  FASTA files consist of
// a number of named sequences that may be interrupted by newlines.  For
// example:
//
// >taxon1
// ACGTAC
// GA--AC
// >taxon2
// ACGTAC
// --GGAC
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appear after a space are ignored.
// For example, '>taxon1 A viral sequence' becomes 'taxon1'.
//
// In an aligned FASTA file every sequence has the same length, and '-' and
// '?' mark gaps and missing data.
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/msatrim/msa"
	"github.com/pkg/errors"
)

const (
	bufferInitSize = 1024 * 1024 * 300 // 300 MB
)

// parse reads FASTA data and returns its sequences in file order.  It fails
// if the data holds no sequence, if sequence data appears before the first
// name, or if a name is empty or repeated.
func parse(r io.Reader) ([]msa.Row, error) {
	var (
		rows    []msa.Row
		names   = make(map[string]struct{})
		seqName string
		inSeq   bool
		seq     bytes.Buffer
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	flush := func() error {
		if !inSeq {
			return nil
		}
		if seqName == "" {
			return errors.Errorf("malformed FASTA file: empty sequence name")
		}
		if _, ok := names[seqName]; ok {
			return errors.Errorf("malformed FASTA file: duplicate sequence name %s", seqName)
		}
		names[seqName] = struct{}{}
		rows = append(rows, msa.Row{Name: seqName, Seq: append([]byte(nil), seq.Bytes()...)})
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if err := flush(); err != nil {
				return nil, err
			}
			seqName = strings.Split(string(line[1:]), " ")[0]
			inSeq = true
		} else {
			if !inSeq {
				return nil, errors.Errorf("malformed FASTA file: sequence data before the first name")
			}
			seq.Write(line)
		}
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("malformed FASTA file: no sequences")
	}
	return rows, nil
}

// ReadAlignment reads aligned FASTA data and returns it as an alignment whose
// rows are in file order.
func ReadAlignment(r io.Reader) (*msa.Alignment, error) {
	rows, err := parse(r)
	if err != nil {
		return nil, err
	}
	a, err := msa.New(rows)
	if err != nil {
		return nil, errors.Wrap(err, "malformed alignment")
	}
	return a, nil
}
