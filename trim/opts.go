package trim

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Mode selects whether trimming runs at all.
type Mode int

const (
	// ModeRunning runs the three-pass running-average trimmer.
	ModeRunning Mode = iota
	// ModeNoTrim returns the input unchanged.
	ModeNoTrim
)

var modeNames = [...]string{"running", "notrim"}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses "running" or "notrim".
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return 0, errors.E(fmt.Sprintf("trim.ParseMode: unknown trim mode %q", s))
}

// Opts configures Trim.
type Opts struct {
	// Mode selects running-average trimming or pass-through.
	Mode Mode
	// WindowSize is the width of the moving average over column scores.
	WindowSize int
	// Threshold is the smoothed column score a column needs to be kept.
	Threshold float64
	// Proportion sets the majority used to score columns, as a fraction of
	// the row count.
	Proportion float64
	// Edge is the moving-average edge policy for column scores.
	Edge EdgePolicy
	// RowWindow is the length of the run of consensus matches anchoring each
	// end of a row.
	RowWindow int
	// CallThreshold is the fraction of rows needed for a consensus call.
	CallThreshold float64
	// ReplaceEnds rewrites each surviving row's leading and trailing gaps as
	// missing data ('?') after the last pass.
	ReplaceEnds bool
	// Observer, if set, is called on every state transition.
	Observer func(State)
}

// DefaultOpts are the settings used when the caller has no preference.
var DefaultOpts = Opts{
	Mode:          ModeRunning,
	WindowSize:    20,
	Threshold:     0.75,
	Proportion:    0.65,
	Edge:          EdgeZeroPad,
	RowWindow:     DefaultRowWindow,
	CallThreshold: DefaultCallThreshold,
}

// Validate checks that opts is usable.
func (o *Opts) Validate() error {
	switch {
	case o.Mode != ModeRunning && o.Mode != ModeNoTrim:
		return errors.E(fmt.Sprintf("trim: invalid mode %v", o.Mode))
	case o.Edge != EdgeZeroPad && o.Edge != EdgeInBounds:
		return errors.E(fmt.Sprintf("trim: invalid edge policy %v", o.Edge))
	case o.WindowSize < 1:
		return errors.E(fmt.Sprintf("trim: window size must be positive, got %d", o.WindowSize))
	case o.RowWindow < 1 || o.RowWindow >= 100:
		// A window of 100 or more could reach fullWindow without every
		// sample matching.
		return errors.E(fmt.Sprintf("trim: row window must be in [1, 100), got %d", o.RowWindow))
	case !(o.Threshold > 0 && o.Threshold <= 1):
		return errors.E(fmt.Sprintf("trim: threshold must be in (0, 1], got %v", o.Threshold))
	case !(o.Proportion > 0 && o.Proportion <= 1):
		return errors.E(fmt.Sprintf("trim: proportion must be in (0, 1], got %v", o.Proportion))
	case !(o.CallThreshold > 0 && o.CallThreshold <= 1):
		return errors.E(fmt.Sprintf("trim: call threshold must be in (0, 1], got %v", o.CallThreshold))
	}
	return nil
}
