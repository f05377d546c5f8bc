package subcmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/qkepia/muhpixels/cmdmain"
	"github.com/qkepia/muhpixels/flags"
	"github.com/qkepia/muhpixels/pipeline"
	"github.com/qkepia/muhpixels/sink"
)

var errUsage = errors.New("expected exactly one input file")

func init() {
	cmdmain.RegisterSubCmd("decode", func() cmdmain.SubCmd { return new(Decode) })
}

type Decode struct{}

// Exec implements cmdmain.SubCmd.
func (d *Decode) Exec(cmd string, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	flags.RegisterInto(fs, []flags.FlagName{
		flags.FileFlag,
		flags.KindFlag,
		flags.CodecFlag,
		flags.ConvertAllFlag,
		flags.Y4MFlag,
		flags.PNGFlag,
		flags.MaxFPSFlag,
	}...)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Decode the video track of a file and convert frames to RGB

Usage:
	%s decode [flags] [file]

Flags:
`, cmd)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr)
	}
	fs.Parse(args)

	file, err := inputFile(fs.Args())
	if err != nil {
		fs.Usage()
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return decode(ctx, file, os.Stdout)
}

func decode(ctx context.Context, file string, out io.Writer) (err error) {
	opts, err := pipelineOptions()
	if err != nil {
		return err
	}
	if flags.ConvertAll {
		opts = append(opts, pipeline.ConvertAll())
	}
	p, err := pipeline.Open(file, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, p.Close())
	}()

	var sinks []pipeline.Sink
	if flags.Y4M != "" {
		y, cerr := sink.CreateY4M(flags.Y4M, p.Descriptor())
		if cerr != nil {
			return cerr
		}
		defer func() {
			err = errors.Join(err, y.Close())
		}()
		sinks = append(sinks, y)
	}
	if flags.PNG != "" {
		sinks = append(sinks, sink.NewPNG(flags.PNG))
	}
	if len(sinks) > 0 {
		s := sink.Multi(sinks...)
		if flags.MaxFPS > 0 {
			s = sink.NewPaced(ctx, s, flags.MaxFPS)
		}
		p.AddSink(s)
	}

	res, err := p.Run()
	if err != nil {
		return err
	}
	d := res.Descriptor
	fmt.Fprintf(out, "%v: %v %v %vx%v, %v units, %v frames, %v corrupted\n",
		file, res.Kind, d.Fourcc, d.Width, d.Height,
		res.Stats.UnitsIn, res.Stats.Frames, res.Stats.Corrupted)
	return nil
}

// Help implements cmdmain.SubCmd.
func (d *Decode) Help() string {
	return "Decode a video file"
}
