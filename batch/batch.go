package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/msatrim/encoding/fasta"
	"github.com/grailbio/msatrim/msa"
	"github.com/grailbio/msatrim/trim"
)

// AlignmentSuffixes are the file name suffixes Inputs treats as aligned
// FASTA, each optionally followed by fasta.GzipSuffix.
var AlignmentSuffixes = []string{".fasta", ".fas", ".fa", ".fna", ".faa"}

func isAlignmentPath(path string) bool {
	path = strings.TrimSuffix(path, fasta.GzipSuffix)
	for _, suffix := range AlignmentSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// Inputs lists the alignment files found under dir, sorted by path.
func Inputs(ctx context.Context, dir string) ([]string, error) {
	var paths []string
	lister := file.List(ctx, dir, true)
	for lister.Scan() {
		if isAlignmentPath(lister.Path()) {
			paths = append(paths, lister.Path())
		} else {
			log.Debug.Printf("batch.Inputs: ignore %s", lister.Path())
		}
	}
	if err := lister.Err(); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("batch.Inputs %s: no alignment files found", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// Run trims every alignment in paths and writes the kept ones to
// opts.OutDir.  A path listed more than once is processed once, and an input
// whose basename is already taken by an earlier input is recorded as an
// error instead of overwriting its output.  The error is non-nil only for invalid opts or a local output
// directory that cannot be created; per-file failures are reported in the
// Summary.
func Run(ctx context.Context, paths []string, opts Opts) (Summary, error) {
	return run(ctx, "batch.Run", paths, opts, true)
}

// Screen applies only the min-taxa screen to every alignment in paths and
// writes the ones that pass, unchanged, to opts.OutDir.
func Screen(ctx context.Context, paths []string, opts Opts) (Summary, error) {
	return run(ctx, "batch.Screen", paths, opts, false)
}

func run(ctx context.Context, name string, paths []string, opts Opts, doTrim bool) (Summary, error) {
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}
	opts.Trim.Observer = nil
	if opts.OutDir != "" && !strings.Contains(opts.OutDir, "://") {
		if err := os.MkdirAll(opts.OutDir, 0777); err != nil {
			return Summary{}, errors.E(err, name+": create output directory", opts.OutDir)
		}
	}
	paths = uniquePaths(paths)
	records := make([]Record, len(paths))
	outputs := claimOutputs(opts.OutDir, paths, records)
	parallelism := opts.Parallelism
	if parallelism == 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(paths) {
		parallelism = len(paths)
	}
	log.Printf("%s: processing %d files (%d jobs)", name, len(paths), parallelism)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(paths)) / parallelism
		endIdx := ((jobIdx + 1) * len(paths)) / parallelism
		for i := startIdx; i < endIdx; i++ {
			if records[i].State == StateError {
				continue
			}
			records[i] = processFile(ctx, paths[i], outputs[i], &opts, doTrim)
		}
		return nil
	})
	if err != nil {
		// processFile reports every failure in its record.
		panic(err)
	}
	s := newSummary(records)
	if opts.Taxa > 0 {
		log.Printf("%s: %d of %d alignments contain >= %v of %d taxa (n = %d)",
			name, len(records)-s.Screened-s.Failed, len(records), opts.Percent, opts.Taxa,
			MinTaxa(opts.Percent, opts.Taxa))
	}
	log.Printf("%s: %v", name, s)
	return s, nil
}

// uniquePaths returns paths without repeats, keeping the first occurrence of
// each.
func uniquePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var r []string
	for _, path := range paths {
		if !seen[path] {
			seen[path] = true
			r = append(r, path)
		}
	}
	return r
}

// claimOutputs returns the output path of each input under dir.  Two inputs
// with the same basename would overwrite each other; every input after the
// first to claim an output path is marked StateError in records and gets no
// output.
func claimOutputs(dir string, paths []string, records []Record) []string {
	outputs := make([]string, len(paths))
	if dir == "" {
		return outputs
	}
	claimed := make(map[string]string, len(paths))
	for i, path := range paths {
		out := outputPath(dir, path)
		if prev, ok := claimed[out]; ok {
			records[i] = Record{
				Path:    path,
				State:   StateError,
				Message: fmt.Sprintf("output %s is already claimed by %s", out, prev),
			}
			log.Error.Printf("%s: %s", path, records[i].Message)
			continue
		}
		claimed[out] = path
		outputs[i] = out
	}
	return outputs
}

// processFile reads, screens and trims one alignment.  If output is not
// empty, a kept alignment is written there.
func processFile(ctx context.Context, path, output string, opts *Opts, doTrim bool) Record {
	rec := Record{Path: path}
	fail := func(err error) Record {
		log.Error.Printf("%s: %v", path, err)
		rec.State = StateError
		rec.Message = err.Error()
		return rec
	}
	a, err := fasta.ReadFile(ctx, path)
	if err != nil {
		return fail(err)
	}
	rec.Rows = int64(a.NumRows())
	rec.InWidth = int64(a.Width())

	if opts.Taxa > 0 {
		if min := MinTaxa(opts.Percent, opts.Taxa); a.NumRows() < min {
			log.Debug.Printf("%s: %d taxa, need %d", path, a.NumRows(), min)
			rec.State = StateScreened
			rec.Message = fmt.Sprintf("%d taxa, need %d", a.NumRows(), min)
			return rec
		}
	}

	out := a
	rec.Start, rec.End = 0, int64(a.Width())
	if doTrim {
		res, err := trim.Trim(a, &opts.Trim)
		if err != nil {
			return fail(err)
		}
		if res.Dropped() {
			log.Printf("%s: %v", path, res)
			rec.State = StateDropped
			rec.Reason = res.Reason.String()
			rec.Stage = res.Stage.String()
			rec.Row = res.Row
			rec.Message = res.Message
			return rec
		}
		out = res.Alignment
		rec.Start, rec.End = int64(res.FinalSpan.Start), int64(res.FinalSpan.End)
	}
	rec.State = StateKept
	rec.OutWidth = int64(out.Width())
	rec.Fingerprint = fingerprint(out)
	if output != "" {
		rec.Output = output
		if err := fasta.WriteFile(ctx, rec.Output, out, opts.LineWidth); err != nil {
			rec.Output = ""
			return fail(err)
		}
	}
	log.Debug.Printf("%s: kept %d of %d columns", path, rec.OutWidth, rec.InWidth)
	return rec
}

// outputPath returns the path under dir with the basename of path.  dir may
// be a local directory or an object-store prefix.
func outputPath(dir, path string) string {
	return strings.TrimSuffix(dir, "/") + "/" + file.Base(path)
}

func fingerprint(a *msa.Alignment) string {
	return fmt.Sprintf("%016x", a.Fingerprint())
}
