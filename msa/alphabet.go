package msa

const (
	// GapChar marks an alignment-inserted absence of sequence.
	GapChar byte = '-'
	// MissingChar marks unknown or unsequenced data.
	MissingChar byte = '?'
)

// UpperBase folds an ASCII base to upper case.  Non-letters are returned
// unchanged.
func UpperBase(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// SameBase reports whether a and b are the same character, ignoring case.
func SameBase(a, b byte) bool {
	return UpperBase(a) == UpperBase(b)
}

// IsUninformative reports whether seq consists only of gap and
// missing-data markers.  An empty sequence is uninformative.
func IsUninformative(seq []byte) bool {
	for _, c := range seq {
		if c != GapChar && c != MissingChar {
			return false
		}
	}
	return true
}

// LeadingGaps returns the length of the run of GapChar at the start of seq.
func LeadingGaps(seq []byte) int {
	n := 0
	for n < len(seq) && seq[n] == GapChar {
		n++
	}
	return n
}

// TrailingGaps returns the length of the run of GapChar at the end of seq.
func TrailingGaps(seq []byte) int {
	n := 0
	for n < len(seq) && seq[len(seq)-1-n] == GapChar {
		n++
	}
	return n
}

// DataSpan returns the half-open range [start, end) of seq left after
// removing its leading and trailing gap runs.  For an all-gap sequence,
// start == end == len(seq).
func DataSpan(seq []byte) (start, end int) {
	start = LeadingGaps(seq)
	if start == len(seq) {
		return start, start
	}
	return start, len(seq) - TrailingGaps(seq)
}

// ReplaceEndGaps returns a copy of seq whose leading and trailing gap runs
// are rewritten to MissingChar.  Interior gaps are kept.
func ReplaceEndGaps(seq []byte) []byte {
	out := append([]byte(nil), seq...)
	start, end := DataSpan(out)
	for i := 0; i < start; i++ {
		out[i] = MissingChar
	}
	for i := end; i < len(out); i++ {
		out[i] = MissingChar
	}
	return out
}
