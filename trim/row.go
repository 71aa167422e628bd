package trim

import (
	"errors"
	"fmt"

	"github.com/grailbio/msatrim/msa"
)

// DefaultRowWindow is the length of the run of consensus matches that
// anchors each end of a row.
const DefaultRowWindow = 5

// fullWindow is the moving-average level taken to mean that every sample of
// the window matched.
const fullWindow = 0.99

var (
	// ErrNoConservedRun is returned when a row has no run of consecutive
	// consensus matches long enough to anchor its edges.
	ErrNoConservedRun = errors.New("no conserved run")
	// ErrRowFullyGapped is returned when masking leaves a row with nothing
	// but gap and missing-data markers.
	ErrRowFullyGapped = errors.New("row fully gapped")
)

// RowError reports the row whose edge trimming failed.
type RowError struct {
	// Row is the name of the failing row.
	Row string
	// Err is ErrNoConservedRun or ErrRowFullyGapped.
	Err error
}

// Error implements error.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %s: %v", e.Row, e.Err)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error { return e.Err }

type direction int

const (
	forward direction = iota
	backward
)

// conservedEdge scans avg, the zero-padded w-wide moving average of a match
// sequence, from one end and returns where the first fully matching window
// seen from that end lies.  Scanning forward, the result is the index of
// its first sample; scanning backward, it is one past its last sample.
// Both are in the coordinates of avg.
func conservedEdge(avg []float64, w int, dir direction) (int, bool) {
	lo, hi := windowBounds(w)
	n := len(avg)
	for k := 0; k < n; k++ {
		c := k
		if dir == backward {
			c = n - 1 - k
		}
		if avg[c] <= fullWindow {
			continue
		}
		if dir == forward {
			return c - lo, true
		}
		return c + hi + 1, true
	}
	return 0, false
}

// TrimRow masks the ragged edges of one alignment row.  seq is compared with
// consensus position by position, ignoring case, over the span left after
// removing seq's own leading and trailing gaps.  Everything before the first
// run of w consecutive matches and after the last such run is replaced by
// GapChar; the part in between is left as is, interior gaps included.  The
// result has the length of seq.
func TrimRow(seq, consensus []byte, w int) ([]byte, error) {
	if len(seq) != len(consensus) {
		return nil, fmt.Errorf("trim.TrimRow: row length %d differs from consensus length %d", len(seq), len(consensus))
	}
	start, end := msa.DataSpan(seq)
	match := make([]bool, end-start)
	for i := range match {
		match[i] = msa.SameBase(seq[start+i], consensus[start+i])
	}
	avg := movingAverage(match, w, EdgeZeroPad)
	badStart, ok := conservedEdge(avg, w, forward)
	if !ok {
		return nil, ErrNoConservedRun
	}
	badEnd, _ := conservedEdge(avg, w, backward)

	out := append([]byte(nil), seq...)
	for i := 0; i < start+badStart; i++ {
		out[i] = msa.GapChar
	}
	for i := start + badEnd; i < len(out); i++ {
		out[i] = msa.GapChar
	}
	if msa.IsUninformative(out) {
		return nil, ErrRowFullyGapped
	}
	return out, nil
}

// TrimRows applies TrimRow to every row of a against consensus.  If any row
// fails, the error is a *RowError naming it and no alignment is returned.
func TrimRows(a *msa.Alignment, consensus []byte, w int) (*msa.Alignment, error) {
	rows := make([]msa.Row, a.NumRows())
	for i := range rows {
		seq, err := TrimRow(a.Seq(i), consensus, w)
		if err != nil {
			return nil, &RowError{Row: a.Name(i), Err: err}
		}
		rows[i] = msa.Row{Name: a.Name(i), Seq: seq}
	}
	return msa.New(rows)
}
