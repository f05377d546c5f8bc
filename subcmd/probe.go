package subcmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/qkepia/muhpixels/cmdmain"
	"github.com/qkepia/muhpixels/flags"
	"github.com/qkepia/muhpixels/pipeline"
)

func init() {
	cmdmain.RegisterSubCmd("probe", func() cmdmain.SubCmd { return new(Probe) })
}

type Probe struct{}

// Exec implements cmdmain.SubCmd.
func (p *Probe) Exec(cmd string, args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	flags.RegisterInto(fs, []flags.FlagName{
		flags.KindFlag,
		flags.CodecFlag,
		flags.ParallelFlag,
	}...)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Decode several files and print a summary per file

Usage:
	%s probe [flags] file...

Flags:
`, cmd)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr)
	}
	fs.Parse(args)

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no input files")
	}
	return probe(fs.Args(), os.Stdout)
}

type probeResult struct {
	res *pipeline.Result
	err error
}

// probe decodes files concurrently. Every file gets its own pipeline.
func probe(files []string, out io.Writer) error {
	opts, err := pipelineOptions()
	if err != nil {
		return err
	}
	results := make([]probeResult, len(files))

	var eg errgroup.Group
	eg.SetLimit(max(1, int(flags.Parallel)))
	for i, file := range files {
		eg.Go(func() error {
			res, err := pipeline.Decode(file, opts...)
			results[i] = probeResult{res: res, err: err}
			return nil
		})
	}
	eg.Wait()

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tCONTAINER\tCODEC\tSIZE\tUNITS\tFRAMES\tCORRUPTED")
	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(tw, "%v\terror: %v\n", files[i], r.err)
			continue
		}
		d := r.res.Descriptor
		fmt.Fprintf(tw, "%v\t%v\t%v\t%vx%v\t%v\t%v\t%v\n",
			files[i], r.res.Kind, d.Fourcc, d.Width, d.Height,
			r.res.Stats.UnitsIn, r.res.Stats.Frames, r.res.Stats.Corrupted)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%v of %v files failed", failed, len(files))
	}
	return nil
}

// Help implements cmdmain.SubCmd.
func (p *Probe) Help() string {
	return "Summarize video files"
}
