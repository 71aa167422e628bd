package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/msatrim/trim"
)

// Record states.
const (
	// StateKept means the alignment was trimmed (or passed the screen) and
	// written.
	StateKept = "kept"
	// StateDropped means the trimmer dropped the alignment.
	StateDropped = "dropped"
	// StateScreened means the alignment had too few taxa.
	StateScreened = "screened"
	// StateError means the file could not be read or written.
	StateError = "error"
)

// Record is the outcome for one input file.  It is also one row of the
// summary TSV.
type Record struct {
	Path     string `tsv:"PATH"`     // Input path
	State    string `tsv:"STATE"`    // One of the State constants
	Reason   string `tsv:"REASON"`   // trim.Reason of a drop
	Stage    string `tsv:"STAGE"`    // Pass that dropped the alignment
	Row      string `tsv:"ROW"`      // Row responsible for a drop
	Message  string `tsv:"MESSAGE"`  // Drop or error message
	Rows     int64  `tsv:"ROWS"`     // Number of taxa
	InWidth  int64  `tsv:"IN_WIDTH"` // Input alignment width
	OutWidth int64  `tsv:"OUT_WIDTH"`
	Start    int64  `tsv:"START"` // Kept input columns [START, END)
	End      int64  `tsv:"END"`
	// Fingerprint identifies the written alignment.
	Fingerprint string `tsv:"FINGERPRINT"`
	Output      string `tsv:"OUTPUT"` // Output path, if written
}

// Summary collects the records of a batch, in input order.
type Summary struct {
	Records  []Record
	Kept     int
	Dropped  int
	Screened int
	Failed   int
	// ByReason counts drops per trim reason.
	ByReason map[trim.Reason]int
}

func newSummary(records []Record) Summary {
	s := Summary{Records: records, ByReason: map[trim.Reason]int{}}
	for _, r := range records {
		switch r.State {
		case StateKept:
			s.Kept++
		case StateDropped:
			s.Dropped++
			for _, reason := range []trim.Reason{trim.NoStableRegion, trim.RowFullyGapped, trim.NoConservedRun} {
				if r.Reason == reason.String() {
					s.ByReason[reason]++
				}
			}
		case StateScreened:
			s.Screened++
		case StateError:
			s.Failed++
		}
	}
	return s
}

// String implements fmt.Stringer.
func (s Summary) String() string {
	return fmt.Sprintf("%d files: %d kept, %d dropped (%d %v, %d %v, %d %v), %d screened, %d failed",
		len(s.Records), s.Kept, s.Dropped,
		s.ByReason[trim.NoStableRegion], trim.NoStableRegion,
		s.ByReason[trim.RowFullyGapped], trim.RowFullyGapped,
		s.ByReason[trim.NoConservedRun], trim.NoConservedRun,
		s.Screened, s.Failed)
}

var fieldReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ", `"`, "'")

// summaryHeader names the columns of the summary TSV, in the order of the
// tsv tags of Record.
var summaryHeader = []string{
	"PATH", "STATE", "REASON", "STAGE", "ROW", "MESSAGE", "ROWS",
	"IN_WIDTH", "OUT_WIDTH", "START", "END", "FINGERPRINT", "OUTPUT",
}

// WriteSummary writes records as TSV, with a header line.
func WriteSummary(w io.Writer, records []Record) error {
	tw := tsv.NewWriter(w)
	tw.WriteString(strings.Join(summaryHeader, "\t"))
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, r := range records {
		tw.WriteString(fieldReplacer.Replace(r.Path))
		tw.WriteString(r.State)
		tw.WriteString(r.Reason)
		tw.WriteString(r.Stage)
		tw.WriteString(fieldReplacer.Replace(r.Row))
		tw.WriteString(fieldReplacer.Replace(r.Message))
		tw.WriteInt64(r.Rows)
		tw.WriteInt64(r.InWidth)
		tw.WriteInt64(r.OutWidth)
		tw.WriteInt64(r.Start)
		tw.WriteInt64(r.End)
		tw.WriteString(r.Fingerprint)
		tw.WriteString(fieldReplacer.Replace(r.Output))
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// ReadSummary reads records written by WriteSummary.
func ReadSummary(r io.Reader) ([]Record, error) {
	tr := tsv.NewReader(r)
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true
	var records []Record
	for {
		var rec Record
		if err := tr.Read(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
