// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package trim removes low-confidence edges from multiple-sequence
  alignments.

  Trimming runs three passes over an alignment:

    A. Block trimming.  Each column is scored good or bad according to how
       much data it has and how strongly its rows agree.  The 0/1 scores are
       smoothed with a centered moving average, and the alignment is clipped
       to the span between the first and last column whose average reaches
       Opts.Threshold.
    B. Row-edge trimming.  A majority-rule consensus is built over the
       clipped alignment.  Each row is compared against it, and everything
       outside the outermost runs of Opts.RowWindow consecutive matches is
       masked with gaps.  The column count does not change.
    C. Block trimming again, with the pass A parameters, to remove columns
       that pass B left gap-dominated.

  Any pass can drop the alignment: there is no stable block region, a row
  has no data left after clipping or masking, or a row has no conserved run
  at all.  A row is never removed on its own since all rows share one
  column coordinate system; a failing row drops the whole alignment.
  Drops are reported as a Result, not as an error.

  The moving average is zero-padded by default: samples outside the
  sequence count as bad and the divisor is always the window size, so
  scores are biased downward near the ends and trimming is conservative
  there.  EdgeInBounds divides by the number of in-range samples instead.

  Everything in this package is pure computation with no shared state, so
  independent alignments can be trimmed concurrently.
*/
package trim
