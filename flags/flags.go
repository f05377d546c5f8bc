// Package flags implements command-line flags for muhpixels.
//
// The design idea is taken from [upspin.io/flags], but most of the code is
// modified. This package uses a slightly modified version of [RegisterInto] and
// the internal [flags]-map. See [Upspin LICENSE] for upspins copyright and
// license information.
//
// [upspin.io/flags]: https://github.com/upspin/upspin/tree/334f107fe3d98225d7adfbb35b74e066fbca9875/flags
// [Upspin LICENSE]: https://github.com/upspin/upspin/blob/334f107fe3d98225d7adfbb35b74e066fbca9875/LICENSE
package flags

import (
	"flag"
	"fmt"

	"github.com/qkepia/muhpixels/codec"
)

type FlagName string

// flag keys
const (
	FileFlag  FlagName = "file"
	KindFlag  FlagName = "kind"
	CodecFlag FlagName = "codec"

	ConvertAllFlag FlagName = "all"
	Y4MFlag        FlagName = "y4m"
	PNGFlag        FlagName = "png"
	MaxFPSFlag     FlagName = "max-fps"

	HTTPAddrFlag FlagName = "http-address"
	RootFlag     FlagName = "root"

	ParallelFlag FlagName = "parallel"
)

// Flag vars
var (
	// File is the input file
	File = ""

	// Kind is the framing of inputs that are not block containers, empty
	// to accept block containers only.
	Kind = ""

	// Codec of inputs without a file header
	Codec = codec.VP9.String()

	ConvertAll = false

	Y4M = ""
	PNG = ""

	// MaxFPS limits the rate at which frames reach the sinks, 0 means
	// unlimited.
	MaxFPS = float64(0)

	// HTTP Server
	HTTPAddr = "127.0.0.1:8080"

	Root = "."

	Parallel = uint(4)
)

type flagVar func(*flag.FlagSet)

func stringVar(p *string, name FlagName, defaultValue *string, usage string) func(*flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.StringVar(p, string(name), *defaultValue, usage)
	}
}

func uintVar(p *uint, name FlagName, defaultValue *uint, usage string) func(*flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.UintVar(p, string(name), *defaultValue, usage)
	}
}

func boolVar(p *bool, name FlagName, defaultValue *bool, usage string) func(*flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.BoolVar(p, string(name), *defaultValue, usage)
	}
}

func float64Var(p *float64, name FlagName, defaultValue *float64, usage string) func(*flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.Float64Var(p, string(name), *defaultValue, usage)
	}
}

var flags = map[FlagName]flagVar{
	// Input flags
	FileFlag:  stringVar(&File, FileFlag, &File, "Input file"),
	KindFlag:  stringVar(&Kind, KindFlag, &Kind, "Framing of inputs that are not WebM (raw, ivf). Empty accepts WebM only"),
	CodecFlag: stringVar(&Codec, CodecFlag, &Codec, "Codec of raw inputs and IVF files without header (vp9)"),

	// Output flags
	ConvertAllFlag: boolVar(&ConvertAll, ConvertAllFlag, &ConvertAll, "Convert every frame to RGB instead of only the first"),
	Y4MFlag:        stringVar(&Y4M, Y4MFlag, &Y4M, "Write decoded frames to this Y4M file"),
	PNGFlag:        stringVar(&PNG, PNGFlag, &PNG, "Write converted frames as PNG. A pattern like frame-%04d.png writes one file per frame"),
	MaxFPSFlag:     float64Var(&MaxFPS, MaxFPSFlag, &MaxFPS, "Limit frame delivery to this many frames per second, 0 is unlimited"),

	// HTTP flags
	HTTPAddrFlag: stringVar(&HTTPAddr, HTTPAddrFlag, &HTTPAddr, "HTTP Server address"),
	RootFlag:     stringVar(&Root, RootFlag, &Root, "Directory of files served by the preview API"),

	ParallelFlag: uintVar(&Parallel, ParallelFlag, &Parallel, "Number of files inspected concurrently"),
}

func RegisterInto(fs *flag.FlagSet, names ...FlagName) {
	if len(names) == 0 {
		for _, f := range flags {
			f(fs)
		}
	} else {
		for _, n := range names {
			f, ok := flags[n]
			if !ok {
				panic(fmt.Sprintf("unknown flag: %q", n))
			}
			f(fs)
		}
	}
}
