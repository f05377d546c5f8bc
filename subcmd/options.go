package subcmd

import (
	"github.com/qkepia/muhpixels/codec"
	"github.com/qkepia/muhpixels/codec/vpx"
	"github.com/qkepia/muhpixels/container"
	"github.com/qkepia/muhpixels/flags"
	"github.com/qkepia/muhpixels/pipeline"
)

var openDecoder codec.Opener = vpx.Open

// pipelineOptions configures the container and decoder from the kind and
// codec flags.
func pipelineOptions() ([]pipeline.Option, error) {
	opts := []pipeline.Option{
		pipeline.WithDecoder(openDecoder),
	}
	if flags.Kind != "" {
		kind, err := container.ParseKind(flags.Kind)
		if err != nil {
			return nil, err
		}
		profile, err := codec.ProfileByName(flags.Codec)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithContainerOptions(
			container.WithFallbackKind(kind),
			container.WithDescriptor(codec.MediaDescriptor{Fourcc: profile.Fourcc}),
		))
	}
	return opts, nil
}

func inputFile(args []string) (string, error) {
	switch {
	case flags.File != "" && len(args) == 0:
		return flags.File, nil
	case flags.File == "" && len(args) == 1:
		return args[0], nil
	}
	return "", errUsage
}
