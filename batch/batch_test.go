package batch_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/msatrim/batch"
	"github.com/grailbio/msatrim/encoding/fasta"
	"github.com/grailbio/msatrim/msa"
	"github.com/grailbio/msatrim/trim"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

const base30 = "ACGTTGCAAGCTTAGCCGATCGGATCCATG"

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	defer shutdown()
	os.Exit(m.Run())
}

func alignment(t *testing.T, n int, seq string) *msa.Alignment {
	rows := make([]msa.Row, n)
	for i := range rows {
		rows[i] = msa.Row{Name: "taxon" + string(rune('A'+i)), Seq: []byte(seq)}
	}
	a, err := msa.New(rows)
	require.NoError(t, err)
	return a
}

// setup writes a directory of alignments and returns it.
func setup(t *testing.T, dir string) string {
	ctx := vcontext.Background()
	in := filepath.Join(dir, "in")
	assert.NoError(t, os.MkdirAll(in, 0755))
	assert.NoError(t, fasta.WriteFile(ctx, filepath.Join(in, "good.fasta"), alignment(t, 4, base30), 0))
	assert.NoError(t, fasta.WriteFile(ctx, filepath.Join(in, "gaps.fasta"), alignment(t, 4, strings.Repeat("-", 30)), 0))
	assert.NoError(t, fasta.WriteFile(ctx, filepath.Join(in, "small.fasta.gz"), alignment(t, 2, base30), 10))
	assert.NoError(t, ioutil.WriteFile(filepath.Join(in, "bad.fasta"), []byte("ACGT\n"), 0644))
	assert.NoError(t, ioutil.WriteFile(filepath.Join(in, "notes.txt"), []byte("not an alignment\n"), 0644))
	return in
}

func states(s batch.Summary) []string {
	var r []string
	for _, rec := range s.Records {
		r = append(r, filepath.Base(rec.Path)+":"+rec.State)
	}
	return r
}

func TestInputs(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "batch")
	defer testutil.NoCleanupOnError(t, cleanup, dir)
	in := setup(t, dir)

	paths, err := batch.Inputs(vcontext.Background(), in)
	assert.NoError(t, err)
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	expect.EQ(t, names, []string{"bad.fasta", "gaps.fasta", "good.fasta", "small.fasta.gz"})

	empty := filepath.Join(dir, "empty")
	assert.NoError(t, os.MkdirAll(empty, 0755))
	_, err = batch.Inputs(vcontext.Background(), empty)
	expect.True(t, err != nil)
}

func TestRun(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "batch")
	defer testutil.NoCleanupOnError(t, cleanup, dir)
	in := setup(t, dir)
	paths, err := batch.Inputs(ctx, in)
	assert.NoError(t, err)
	paths = append(paths, filepath.Join(in, "missing.fasta"))

	opts := batch.DefaultOpts
	opts.OutDir = filepath.Join(dir, "out")
	opts.Parallelism = 2
	opts.Taxa = 4
	s, err := batch.Run(ctx, paths, opts)
	assert.NoError(t, err)
	expect.EQ(t, states(s), []string{
		"bad.fasta:error", "gaps.fasta:dropped", "good.fasta:kept",
		"small.fasta.gz:screened", "missing.fasta:error",
	})
	expect.EQ(t, s.Kept, 1)
	expect.EQ(t, s.Dropped, 1)
	expect.EQ(t, s.Screened, 1)
	expect.EQ(t, s.Failed, 2)
	expect.EQ(t, s.ByReason[trim.NoStableRegion], 1)

	gaps := s.Records[1]
	expect.EQ(t, gaps.Reason, "NoStableRegion")
	expect.EQ(t, gaps.Stage, "pass-a")
	expect.EQ(t, gaps.Message, trim.MsgNoStableRegion)
	expect.EQ(t, gaps.Output, "")
	_, err = os.Stat(filepath.Join(opts.OutDir, "gaps.fasta"))
	expect.True(t, os.IsNotExist(err))

	good := s.Records[2]
	expect.EQ(t, good.Rows, int64(4))
	expect.EQ(t, good.InWidth, int64(30))
	expect.EQ(t, good.OutWidth, int64(12))
	expect.EQ(t, good.Start, int64(10))
	expect.EQ(t, good.End, int64(22))
	expect.EQ(t, good.Output, filepath.Join(opts.OutDir, "good.fasta"))
	out, err := fasta.ReadFile(ctx, good.Output)
	assert.NoError(t, err)
	expect.True(t, out.Equal(alignment(t, 4, base30[10:22])))
	expect.EQ(t, len(good.Fingerprint), 16)

	expect.EQ(t, s.Records[3].Message, "2 taxa, need 3")
}

func TestRunWithoutOutput(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "batch")
	defer testutil.NoCleanupOnError(t, cleanup, dir)
	in := setup(t, dir)

	opts := batch.DefaultOpts
	opts.Trim.Edge = trim.EdgeInBounds
	s, err := batch.Run(ctx, []string{filepath.Join(in, "good.fasta"), filepath.Join(in, "small.fasta.gz")}, opts)
	assert.NoError(t, err)
	expect.EQ(t, states(s), []string{"good.fasta:kept", "small.fasta.gz:kept"})
	expect.EQ(t, s.Records[0].OutWidth, int64(30))
	expect.EQ(t, s.Records[0].Output, "")
	// Identical alignments of different depth differ.
	expect.True(t, s.Records[0].Fingerprint != s.Records[1].Fingerprint)
}

func TestRunOutputClash(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "batch")
	defer testutil.NoCleanupOnError(t, cleanup, dir)

	a := filepath.Join(dir, "in", "a", "locus.fasta")
	b := filepath.Join(dir, "in", "b", "locus.fasta")
	assert.NoError(t, os.MkdirAll(filepath.Dir(a), 0755))
	assert.NoError(t, os.MkdirAll(filepath.Dir(b), 0755))
	assert.NoError(t, fasta.WriteFile(ctx, a, alignment(t, 4, base30), 0))
	assert.NoError(t, fasta.WriteFile(ctx, b, alignment(t, 5, base30), 0))

	paths, err := batch.Inputs(ctx, filepath.Join(dir, "in"))
	assert.NoError(t, err)
	expect.EQ(t, paths, []string{a, b})

	opts := batch.DefaultOpts
	opts.OutDir = filepath.Join(dir, "out")
	opts.Parallelism = 2
	// The repeated path is processed once.
	s, err := batch.Run(ctx, append(paths, a), opts)
	assert.NoError(t, err)
	expect.EQ(t, states(s), []string{"locus.fasta:kept", "locus.fasta:error"})
	expect.EQ(t, s.Kept, 1)
	expect.EQ(t, s.Failed, 1)

	out := filepath.Join(opts.OutDir, "locus.fasta")
	expect.EQ(t, s.Records[0].Path, a)
	expect.EQ(t, s.Records[0].Output, out)
	expect.EQ(t, s.Records[1].Path, b)
	expect.EQ(t, s.Records[1].Output, "")
	expect.HasSubstr(t, s.Records[1].Message, a)

	// The written file is the first input's, not the second's.
	written, err := fasta.ReadFile(ctx, out)
	assert.NoError(t, err)
	expect.EQ(t, written.NumRows(), 4)

	// Without an output directory nothing can clash.
	s, err = batch.Run(ctx, paths, batch.DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, states(s), []string{"locus.fasta:kept", "locus.fasta:kept"})
}

func TestRunInvalidOpts(t *testing.T) {
	for _, mutate := range []func(*batch.Opts){
		func(o *batch.Opts) { o.Trim.WindowSize = 0 },
		func(o *batch.Opts) { o.Parallelism = -1 },
		func(o *batch.Opts) { o.Taxa = -1 },
		func(o *batch.Opts) { o.Taxa, o.Percent = 10, 1.5 },
	} {
		opts := batch.DefaultOpts
		mutate(&opts)
		_, err := batch.Run(vcontext.Background(), nil, opts)
		expect.True(t, err != nil, "opts %+v", opts)
	}
}

func TestScreen(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "batch")
	defer testutil.NoCleanupOnError(t, cleanup, dir)
	in := setup(t, dir)
	paths, err := batch.Inputs(ctx, in)
	assert.NoError(t, err)

	opts := batch.DefaultOpts
	opts.OutDir = filepath.Join(dir, "screened")
	opts.Taxa = 4
	s, err := batch.Screen(ctx, paths, opts)
	assert.NoError(t, err)
	expect.EQ(t, states(s), []string{
		"bad.fasta:error", "gaps.fasta:kept", "good.fasta:kept", "small.fasta.gz:screened",
	})
	out, err := fasta.ReadFile(ctx, filepath.Join(opts.OutDir, "gaps.fasta"))
	assert.NoError(t, err)
	expect.EQ(t, out.Width(), 30)
}

func TestMinTaxa(t *testing.T) {
	tests := []struct {
		percent float64
		taxa    int
		want    int
	}{
		{0.75, 10, 7},
		{0.75, 4, 3},
		{1, 5, 5},
		{0.5, 3, 1},
		{0, 10, 0},
		{0.3, 10, 3},
	}
	for _, test := range tests {
		expect.EQ(t, batch.MinTaxa(test.percent, test.taxa), test.want, "%+v", test)
	}
}

func TestSummaryTSV(t *testing.T) {
	records := []batch.Record{
		{Path: "a.fasta", State: batch.StateKept, Rows: 4, InWidth: 30, OutWidth: 12, Start: 10, End: 22,
			Fingerprint: "00000000deadbeef", Output: "out/a.fasta"},
		{Path: "b.fasta", State: batch.StateDropped, Reason: "RowFullyGapped", Stage: "pass-b",
			Row: "taxonC", Message: trim.MsgRowGappedAfterTrim, Rows: 5, InWidth: 40},
		{Path: "c.fasta", State: batch.StateError, Message: "line1\tline2"},
	}
	var buf bytes.Buffer
	assert.NoError(t, batch.WriteSummary(&buf, nil))
	expect.EQ(t, strings.Count(buf.String(), "\n"), 1)
	buf.Reset()
	assert.NoError(t, batch.WriteSummary(&buf, records))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	expect.EQ(t, len(lines), 4)
	expect.EQ(t, lines[0], "PATH\tSTATE\tREASON\tSTAGE\tROW\tMESSAGE\tROWS\tIN_WIDTH\tOUT_WIDTH\tSTART\tEND\tFINGERPRINT\tOUTPUT")

	got, err := batch.ReadSummary(&buf)
	assert.NoError(t, err)
	records[2].Message = "line1 line2"
	expect.EQ(t, got, records)
}
