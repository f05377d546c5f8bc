package sink

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/qkepia/muhpixels/pipeline"
)

// Paced delays frames so that next receives at most fps frames per second.
type Paced struct {
	ctx     context.Context
	next    pipeline.Sink
	limiter *rate.Limiter
}

func NewPaced(ctx context.Context, next pipeline.Sink, fps float64) *Paced {
	return &Paced{
		ctx:     ctx,
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
	}
}

func (p *Paced) WriteFrame(f pipeline.Frame) error {
	if err := p.limiter.Wait(p.ctx); err != nil {
		return err
	}
	return p.next.WriteFrame(f)
}

// Multi hands each frame to every sink in order.
func Multi(sinks ...pipeline.Sink) pipeline.Sink {
	return pipeline.SinkFunc(func(f pipeline.Frame) error {
		for _, s := range sinks {
			if err := s.WriteFrame(f); err != nil {
				return err
			}
		}
		return nil
	})
}
