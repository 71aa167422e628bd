package trim

import (
	"fmt"

	"github.com/grailbio/msatrim/msa"
)

// State is a step of the trimming state machine.  Transitions are
// RunningA -> RunningB -> RunningC -> Done, and any running state may
// move to Dropped.  Done and Dropped are final.
type State int

const (
	// StateRunningA is block trimming of the input.
	StateRunningA State = iota
	// StateRunningB is row-edge trimming against the consensus.
	StateRunningB
	// StateRunningC is block trimming of the row-trimmed alignment.
	StateRunningC
	// StateDone means a trimmed alignment was produced.
	StateDone
	// StateDropped means the alignment was dropped.
	StateDropped
)

var stateNames = [...]string{"pass-a", "pass-b", "pass-c", "done", "dropped"}

// String implements fmt.Stringer.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Reason says why an alignment was dropped.
type Reason int

const (
	// ReasonNone is the reason of an alignment that was kept.
	ReasonNone Reason = iota
	// NoStableRegion means no column reached the smoothed threshold.
	NoStableRegion
	// RowFullyGapped means a row had no data left after clipping or masking.
	RowFullyGapped
	// NoConservedRun means a row had no run of consensus matches to anchor
	// its edges.
	NoConservedRun
)

var reasonNames = [...]string{"", "NoStableRegion", "RowFullyGapped", "NoConservedRun"}

// String implements fmt.Stringer.
func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return fmt.Sprintf("Reason(%d)", int(r))
	}
	return reasonNames[r]
}

// Drop messages, as reported to the user.
const (
	MsgNoStableRegion     = "no stable block region"
	MsgRowGappedAfterClip = "row fully gapped after block clip"
	MsgRowGappedAfterTrim = "row fully gapped after row-edge trim"
)

// Result is the outcome of Trim.
type Result struct {
	// State is StateDone or StateDropped.
	State State
	// Alignment is the trimmed alignment.  It is nil when the alignment was
	// dropped; no partial result is ever returned.
	Alignment *msa.Alignment

	// Reason, Stage and Message describe a drop.  Stage is the pass that
	// dropped the alignment.
	Reason  Reason
	Stage   State
	Message string
	// Row names the row responsible for a drop, when there is one.
	Row string

	// BlockSpan is the span kept by pass A, and FinalSpan the span kept by
	// pass C, both in input column coordinates.  FinalSpan lies within
	// BlockSpan.  They are zero for dropped alignments that did not get that
	// far.
	BlockSpan Span
	FinalSpan Span
}

// Dropped reports whether the alignment was dropped.
func (r Result) Dropped() bool { return r.State == StateDropped }

// String describes the result for logging.
func (r Result) String() string {
	if r.Dropped() {
		if r.Row != "" {
			return fmt.Sprintf("dropped in %v: %s (%v, row %s)", r.Stage, r.Message, r.Reason, r.Row)
		}
		return fmt.Sprintf("dropped in %v: %s (%v)", r.Stage, r.Message, r.Reason)
	}
	return fmt.Sprintf("kept columns [%d, %d)", r.FinalSpan.Start, r.FinalSpan.End)
}

// trimmer runs the passes for one alignment.
type trimmer struct {
	opts  *Opts
	state State
	res   Result
}

func (t *trimmer) enter(s State) {
	t.state = s
	if t.opts.Observer != nil {
		t.opts.Observer(s)
	}
}

func (t *trimmer) drop(reason Reason, msg, row string) Result {
	t.res = Result{
		State:     StateDropped,
		Reason:    reason,
		Stage:     t.state,
		Message:   msg,
		Row:       row,
		BlockSpan: t.res.BlockSpan,
	}
	t.enter(StateDropped)
	return t.res
}

// block clips a to its stable block region.  On failure the returned
// Result is the drop.
func (t *trimmer) block(a *msa.Alignment) (*msa.Alignment, Span, *Result) {
	span, ok := ScanColumns(a, t.opts)
	if !ok {
		r := t.drop(NoStableRegion, MsgNoStableRegion, "")
		return nil, Span{}, &r
	}
	clipped, err := a.Clip(span.Start, span.End)
	if err != nil {
		// ScanColumns only returns nonempty spans within the alignment.
		panic(err)
	}
	if i := clipped.FirstUninformative(); i >= 0 {
		r := t.drop(RowFullyGapped, MsgRowGappedAfterClip, clipped.Name(i))
		return nil, Span{}, &r
	}
	return clipped, span, nil
}

// Trim runs block trimming, row-edge trimming and block trimming again over
// a, and returns the trimmed alignment or the reason it was dropped.  The
// error is non-nil only for invalid opts.  a is not modified; with
// ModeNoTrim it is returned as is.
func Trim(a *msa.Alignment, opts *Opts) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	full := Span{0, a.Width()}
	if opts.Mode == ModeNoTrim {
		return Result{State: StateDone, Alignment: a, BlockSpan: full, FinalSpan: full}, nil
	}
	t := trimmer{opts: opts}

	t.enter(StateRunningA)
	passA, spanA, drop := t.block(a)
	if drop != nil {
		return *drop, nil
	}
	t.res.BlockSpan = spanA

	t.enter(StateRunningB)
	consensus := Consensus(passA, opts.CallThreshold)
	passB, err := TrimRows(passA, consensus, opts.RowWindow)
	if err != nil {
		reason, row := RowFullyGapped, ""
		if rerr, ok := err.(*RowError); ok {
			row = rerr.Row
			if rerr.Err == ErrNoConservedRun {
				reason = NoConservedRun
			}
		}
		return t.drop(reason, MsgRowGappedAfterTrim, row), nil
	}

	t.enter(StateRunningC)
	passC, spanC, drop := t.block(passB)
	if drop != nil {
		return *drop, nil
	}
	if opts.ReplaceEnds {
		rows := passC.Rows()
		for i := range rows {
			rows[i].Seq = msa.ReplaceEndGaps(rows[i].Seq)
		}
		if passC, err = msa.New(rows); err != nil {
			panic(err)
		}
	}
	t.res.State = StateDone
	t.res.Alignment = passC
	t.res.FinalSpan = spanC.Shift(spanA.Start)
	t.enter(StateDone)
	return t.res, nil
}
