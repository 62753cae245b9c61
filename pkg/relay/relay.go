// Package relay pumps a source descriptor through a circular buffer into a
// sink descriptor.
package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"fdring/pkg/circbuff"
	"fdring/pkg/metrics"
)

// DefaultIdleWait is how long Run sleeps after a pass that moved nothing.
const DefaultIdleWait = 10 * time.Millisecond

type Relay struct {
	Buffer  *circbuff.CircBuff
	Source  circbuff.Source
	Sink    circbuff.Sink
	Logger  *slog.Logger
	Metrics *metrics.Metrics // optional

	// IdleWait overrides DefaultIdleWait when positive.
	IdleWait time.Duration
}

type Stats struct {
	In     int
	Out    int
	Passes int
}

// Run alternates fill and flush passes until the source reports EOF and the
// buffer has drained, ctx is done, or a descriptor fails. Each pass ends on
// the first short transfer; ctx is only checked between passes, a blocked
// descriptor call is not interrupted. A pass that moves no bytes in either
// direction (a non-blocking descriptor with nothing to offer) is followed by
// an idle wait.
func (r *Relay) Run(ctx context.Context) (Stats, error) {
	var st Stats
	eof := false
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Passes++

		moved := 0
		if !eof {
			t, err := r.Buffer.ReadFromDescriptor(r.Source)
			st.In += t.N
			moved += t.N
			r.Metrics.ObserveFill(t, r.Buffer.Size())
			r.Logger.Debug("fill", "bytes", t.N, "stop", t.Stop, "size", r.Buffer.Size())
			if err != nil {
				return st, errors.Wrap(err, "fill")
			}
			eof = t.Stop == circbuff.StopEOF
		}

		t, err := r.Buffer.WriteToDescriptor(r.Sink)
		st.Out += t.N
		moved += t.N
		r.Metrics.ObserveFlush(t, r.Buffer.Size())
		r.Logger.Debug("flush", "bytes", t.N, "stop", t.Stop, "size", r.Buffer.Size())
		if err != nil {
			return st, errors.Wrap(err, "flush")
		}

		if eof && r.Buffer.Size() == 0 {
			r.Logger.Info("relay finished", "in", st.In, "out", st.Out, "passes", st.Passes)
			return st, nil
		}
		if moved == 0 {
			if err := r.idle(ctx); err != nil {
				return st, err
			}
		}
	}
}

func (r *Relay) idle(ctx context.Context) error {
	d := r.IdleWait
	if d <= 0 {
		d = DefaultIdleWait
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
