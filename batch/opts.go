package batch

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/msatrim/trim"
)

// Opts configures Run and Screen.
type Opts struct {
	// Trim configures the trimmer.  Trim.Observer is ignored.
	Trim trim.Opts
	// OutDir is the directory kept alignments are written to.  If empty,
	// nothing is written.
	OutDir string
	// Parallelism is the number of files processed concurrently.  Zero means
	// runtime.NumCPU().
	Parallelism int
	// LineWidth wraps output sequence lines; zero writes one line per row.
	LineWidth int
	// Taxa is the number of taxa expected in a complete alignment.  Zero
	// disables the min-taxa screen.
	Taxa int
	// Percent is the fraction of Taxa an alignment must have to pass the
	// screen.
	Percent float64
}

// DefaultOpts are the settings used when the caller has no preference.
var DefaultOpts = Opts{
	Trim:    trim.DefaultOpts,
	Percent: 0.75,
}

// Validate checks that opts is usable.
func (o *Opts) Validate() error {
	if err := o.Trim.Validate(); err != nil {
		return err
	}
	switch {
	case o.Parallelism < 0:
		return errors.E(fmt.Sprintf("batch: parallelism must not be negative, got %d", o.Parallelism))
	case o.Taxa < 0:
		return errors.E(fmt.Sprintf("batch: taxa must not be negative, got %d", o.Taxa))
	case o.Taxa > 0 && !(o.Percent >= 0 && o.Percent <= 1):
		return errors.E(fmt.Sprintf("batch: percent must be in [0, 1], got %v", o.Percent))
	}
	return nil
}

// MinTaxa returns the number of rows an alignment needs to pass the
// min-taxa screen: percent of taxa, rounded down.
func MinTaxa(percent float64, taxa int) int {
	return int(math.Floor(percent * float64(taxa)))
}
