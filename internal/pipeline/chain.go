// Package pipeline sequences audio frames through filter stages. It is the
// thin orchestration layer around the stages: it negotiates formats on
// reconfiguration, drops stages that report themselves bypassable, and
// pushes frames through the active set in order.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/howeecross/gainstage/internal/audio"
)

// ErrNegotiation is wrapped by Reconfigure when the downstream consumer
// rejects the negotiated output format. The caller decides whether to fail
// the stream or retry with different parameters.
var ErrNegotiation = errors.New("pipeline: negotiation failed")

// Stage is one filter in the chain. Reconfigure runs exactly once per stream
// (re)configuration, strictly before any frame is processed under the new
// format; bypass reports that the stage has no effect for this configuration
// and may be dropped. Process consumes one frame; a nil frame signals
// end-of-stream flush.
type Stage interface {
	Reconfigure(in audio.Format) (out audio.Format, bypass bool, err error)
	Process(*audio.Frame) (*audio.Frame, error)
}

// Sink is the downstream consumer's say over the negotiated format.
type Sink interface {
	Accepts(audio.Format) bool
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(audio.Format) bool

// Accepts implements Sink.
func (f SinkFunc) Accepts(format audio.Format) bool { return f(format) }

// Chain holds an ordered set of stages and the sink they feed. A Chain is
// driven synchronously from a single goroutine.
type Chain struct {
	stages []Stage
	active []Stage
	sink   Sink
	out    audio.Format
}

// NewChain builds a chain feeding the given sink. A nil sink accepts any
// format.
func NewChain(sink Sink, stages ...Stage) *Chain {
	return &Chain{stages: stages, sink: sink}
}

// Reconfigure propagates a new input format through every stage, rebuilding
// the active set. Stages reporting bypass are left out until the next
// reconfiguration; this is purely an optimization, the bypassed stage would
// have processed frames as a no-op. The final format is validated against
// the sink; rejection returns an error wrapping ErrNegotiation.
func (c *Chain) Reconfigure(in audio.Format) (audio.Format, error) {
	c.active = c.active[:0]
	cur := in
	for _, st := range c.stages {
		out, bypass, err := st.Reconfigure(cur)
		if err != nil {
			return cur, err
		}
		if bypass {
			continue
		}
		c.active = append(c.active, st)
		cur = out
	}
	if c.sink != nil && !c.sink.Accepts(cur) {
		return cur, fmt.Errorf("%w: sink rejected %s", ErrNegotiation, cur)
	}
	c.out = cur
	return cur, nil
}

// Out returns the format the chain currently delivers to the sink.
func (c *Chain) Out() audio.Format { return c.out }

// ActiveStages returns how many stages survived the last reconfiguration.
func (c *Chain) ActiveStages() int { return len(c.active) }

// Push runs one frame through the active stages in order and returns the
// result. A nil frame flushes through every stage.
func (c *Chain) Push(fr *audio.Frame) (*audio.Frame, error) {
	var err error
	for _, st := range c.active {
		fr, err = st.Process(fr)
		if err != nil {
			return nil, err
		}
	}
	return fr, nil
}
