package relay

import (
	"bytes"
	"context"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fdring/pkg/circbuff"
	"fdring/pkg/descriptor"
	"fdring/pkg/logging"
	"fdring/pkg/metrics"
)

func newRelay(t *testing.T, capacity int, src circbuff.Source, dst circbuff.Sink) *Relay {
	t.Helper()
	cb, err := circbuff.New(capacity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cb.Close() })
	return &Relay{Buffer: cb, Source: src, Sink: dst, Logger: logging.Discard()}
}

func TestRun_SmallBuffer(t *testing.T) {
	src := descriptor.NewQueue()
	src.Push([]byte("the quick brown "))
	src.Push([]byte("fox"))
	src.CloseWrite()
	dst := descriptor.NewQueue()

	r := newRelay(t, 4, src, dst)
	r.Metrics = metrics.New()
	st, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "the quick brown fox", string(dst.Written()))
	assert.Equal(t, 19, st.In)
	assert.Equal(t, 19, st.Out)
	assert.Greater(t, st.Passes, 4)
	assert.Equal(t, 0, r.Buffer.Size())
}

func TestRun_SlowSink(t *testing.T) {
	payload := strings.Repeat("0123456789", 10)
	src := descriptor.NewQueue()
	src.Push([]byte(payload))
	src.CloseWrite()
	dst := descriptor.NewQueue()
	dst.SetWriteLimit(3)

	r := newRelay(t, 8, src, dst)
	st, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payload, string(dst.Written()))
	assert.Equal(t, len(payload), st.Out)
}

func TestRun_SourceError(t *testing.T) {
	boom := errors.New("reset by peer")
	src := descriptor.NewQueue()
	src.Push([]byte("ab"))
	src.PushError(boom)
	dst := descriptor.NewQueue()

	r := newRelay(t, 8, src, dst)
	st, err := r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, circbuff.ErrDescriptorIO))
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 2, st.In)
	assert.Equal(t, "ab", string(dst.Written()))
}

func TestRun_SinkError(t *testing.T) {
	src := descriptor.NewQueue()
	src.Push([]byte("abc"))
	src.CloseWrite()
	dst := descriptor.NewQueue()
	dst.FailWrite(errors.New("broken pipe"))

	r := newRelay(t, 8, src, dst)
	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flush")
	assert.Equal(t, 3, r.Buffer.Size(), "unsent bytes stay buffered")
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRelay(t, 8, descriptor.NewQueue(), &bytes.Buffer{})
	st, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, st.Passes)
}

// An open source with nothing queued would block on every pass; the relay
// must wait between such passes instead of spinning.
func TestRun_IdleSourceWaits(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := newRelay(t, 8, descriptor.NewQueue(), descriptor.NewQueue())
	r.IdleWait = 5 * time.Millisecond
	st, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, st.Passes, 1)
	assert.LessOrEqual(t, st.Passes, 20)
}

// blockingSource reports EAGAIN for the first blocks reads.
type blockingSource struct {
	blocks int
	q      *descriptor.Queue
}

func (b *blockingSource) Read(p []byte) (int, error) {
	if b.blocks > 0 {
		b.blocks--
		return 0, syscall.EAGAIN
	}
	return b.q.Read(p)
}

func TestRun_IdleThenData(t *testing.T) {
	q := descriptor.NewQueue()
	q.Push([]byte("late"))
	q.CloseWrite()
	dst := descriptor.NewQueue()

	r := newRelay(t, 8, &blockingSource{blocks: 3, q: q}, dst)
	r.IdleWait = 2 * time.Millisecond

	start := time.Now()
	st, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 6*time.Millisecond)
	assert.Equal(t, "late", string(dst.Written()))
	assert.Equal(t, Stats{In: 4, Out: 4, Passes: 5}, st)
}
