package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/msatrim/batch"
	"github.com/grailbio/msatrim/trim"
	"v.io/x/lib/cmdline"
)

// commonFlags are shared by all subcommands.
type commonFlags struct {
	dir         *string
	out         *string
	parallelism *int
	lineWidth   *int
	summary     *string
	taxa        *int
	percent     *float64
}

func newCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		dir:         fs.String("dir", "", "Directory to scan for alignment files, in addition to the listed files"),
		out:         fs.String("out", "", "Output directory. If empty, no alignment is written"),
		parallelism: fs.Int("parallelism", 0, "Number of files processed concurrently; 0 = runtime.NumCPU()"),
		lineWidth:   fs.Int("line-width", 0, "Wrap output sequence lines after this many characters; 0 = no wrapping"),
		summary:     fs.String("summary", "", "Path of the per-file summary TSV. If empty, no summary is written"),
		taxa:        fs.Int("taxa", 0, "Number of taxa expected in a complete alignment; 0 disables the min-taxa screen"),
		percent:     fs.Float64("percent", batch.DefaultOpts.Percent, "Fraction of -taxa an alignment needs to pass the screen"),
	}
}

func (f *commonFlags) opts() batch.Opts {
	opts := batch.DefaultOpts
	opts.OutDir = *f.out
	opts.Parallelism = *f.parallelism
	opts.LineWidth = *f.lineWidth
	opts.Taxa = *f.taxa
	opts.Percent = *f.percent
	return opts
}

// inputs returns the files in argv followed by the ones found under -dir.
func (f *commonFlags) inputs(ctx context.Context, argv []string) ([]string, error) {
	paths := append([]string(nil), argv...)
	if *f.dir != "" {
		found, err := batch.Inputs(ctx, *f.dir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input alignments; list files or set -dir")
	}
	return paths, nil
}

func (f *commonFlags) writeSummary(ctx context.Context, s batch.Summary) (err error) {
	if *f.summary == "" {
		return nil
	}
	out, err := file.Create(ctx, *f.summary)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return batch.WriteSummary(out.Writer(ctx), s.Records)
}

type trimFlags struct {
	*commonFlags
	mode          *string
	edge          *string
	window        *int
	threshold     *float64
	proportion    *float64
	rowWindow     *int
	callThreshold *float64
	replaceEnds   *bool
}

func newTrimFlags(fs *flag.FlagSet) *trimFlags {
	d := trim.DefaultOpts
	return &trimFlags{
		commonFlags:   newCommonFlags(fs),
		mode:          fs.String("mode", d.Mode.String(), "Trimming mode: 'running' or 'notrim'"),
		edge:          fs.String("edge", d.Edge.String(), "Edge policy of the column moving average: 'zeropad' or 'inbounds'"),
		window:        fs.Int("window", d.WindowSize, "Width of the moving average over column scores"),
		threshold:     fs.Float64("threshold", d.Threshold, "Smoothed column score needed to keep a column"),
		proportion:    fs.Float64("proportion", d.Proportion, "Fraction of rows that sets the majority used to score columns"),
		rowWindow:     fs.Int("row-window", d.RowWindow, "Length of the run of consensus matches anchoring each row end"),
		callThreshold: fs.Float64("call-threshold", d.CallThreshold, "Fraction of rows needed for a consensus call"),
		replaceEnds:   fs.Bool("replace-ends", d.ReplaceEnds, "Write the leading and trailing gaps of kept rows as '?'"),
	}
}

func (f *trimFlags) opts() (batch.Opts, error) {
	opts := f.commonFlags.opts()
	var err error
	if opts.Trim.Mode, err = trim.ParseMode(*f.mode); err != nil {
		return opts, err
	}
	if opts.Trim.Edge, err = trim.ParseEdgePolicy(*f.edge); err != nil {
		return opts, err
	}
	opts.Trim.WindowSize = *f.window
	opts.Trim.Threshold = *f.threshold
	opts.Trim.Proportion = *f.proportion
	opts.Trim.RowWindow = *f.rowWindow
	opts.Trim.CallThreshold = *f.callThreshold
	opts.Trim.ReplaceEnds = *f.replaceEnds
	return opts, opts.Validate()
}

func runTrim(ctx context.Context, stdout io.Writer, flags *trimFlags, argv []string) error {
	opts, err := flags.opts()
	if err != nil {
		return err
	}
	paths, err := flags.inputs(ctx, argv)
	if err != nil {
		return err
	}
	s, err := batch.Run(ctx, paths, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, s)
	return flags.writeSummary(ctx, s)
}

func runScreen(ctx context.Context, stdout io.Writer, flags *commonFlags, argv []string) error {
	opts := flags.opts()
	if opts.Taxa <= 0 {
		return fmt.Errorf("screen requires -taxa")
	}
	paths, err := flags.inputs(ctx, argv)
	if err != nil {
		return err
	}
	s, err := batch.Screen(ctx, paths, opts)
	if err != nil {
		return err
	}
	for _, r := range s.Records {
		if r.State == batch.StateKept {
			fmt.Fprintln(stdout, r.Path)
		}
	}
	return flags.writeSummary(ctx, s)
}

func newCmdTrim() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "trim",
		Short:    "Trim the ragged edges of aligned FASTA files",
		ArgsName: "path...",
		Long: `
trim removes poorly aligned columns from the edges of each alignment, masks
the ragged ends of each row to gaps, and removes the edges again.  Alignments
that lose a row entirely are dropped and not written.  Kept alignments are
written under -out with their input basename.`,
	}
	flags := newTrimFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		return runTrim(vcontext.Background(), env.Stdout, flags, argv)
	})
	return cmd
}

func newCmdScreen() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "screen",
		Short:    "List alignments that contain at least -percent of -taxa taxa",
		ArgsName: "path...",
		Long: `
screen prints the alignments holding at least floor(percent * taxa) rows, and
copies them under -out if set.`,
	}
	flags := newCommonFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		return runScreen(vcontext.Background(), env.Stdout, flags, argv)
	})
	return cmd
}

func newRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-msa-trim",
		Short:    "Tools for trimming multiple-sequence alignments",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdTrim(),
			newCmdScreen(),
		},
	}
}

func run(env *cmdline.Env, args []string) int {
	return cmdline.ExitCode(cmdline.ParseAndRun(newRoot(), env, args), env.Stderr)
}

// Run runs the bio-msa-trim command line and returns its exit code.
func Run() int {
	cmdline.HideGlobalFlagsExcept()
	return run(cmdline.EnvFromOS(), os.Args[1:])
}
