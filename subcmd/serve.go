package subcmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/julienschmidt/httprouter"

	"github.com/qkepia/muhpixels/cmdmain"
	"github.com/qkepia/muhpixels/flags"
	"github.com/qkepia/muhpixels/http"
	ihttp "github.com/qkepia/muhpixels/internal/http"
)

func init() {
	cmdmain.RegisterSubCmd("serve", func() cmdmain.SubCmd { return new(Serve) })
}

type Serve struct{}

// Exec implements cmdmain.SubCmd.
func (s *Serve) Exec(cmd string, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	flags.RegisterInto(fs, []flags.FlagName{
		flags.HTTPAddrFlag,
		flags.RootFlag,
		flags.KindFlag,
		flags.CodecFlag,
	}...)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Serve a preview API for the video files in a directory

Usage:
	%s serve [flags]

Flags:
`, cmd)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr)
	}
	fs.Parse(args)

	if fs.NArg() > 0 {
		fmt.Printf("error: unknown extra arguments: %v\n", fs.Args())
		fs.Usage()
		os.Exit(1)
	}

	opts, err := pipelineOptions()
	if err != nil {
		return err
	}
	mux := httprouter.New()
	api := http.NewApi(flags.Root, opts...)
	api.RegisterRoutes(mux)

	srv, err := ihttp.NewServer(
		ihttp.Address(flags.HTTPAddr),
		ihttp.Handle(mux),
		ihttp.RequestLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return srv.ListenAndServe(ctx)
}

// Help implements cmdmain.SubCmd.
func (s *Serve) Help() string {
	return "Run the preview API server"
}
