// Package session binds one circular buffer to a set of shell commands.
package session

import (
	"log/slog"

	"fdring/pkg/circbuff"
	"fdring/pkg/descriptor"
	"fdring/pkg/repl"
)

// Session owns a buffer, a scripted inbound descriptor the user feeds by
// hand, and an optional outbound sink. Flushes go to the shell's writer when
// no sink is set.
type Session struct {
	buf      *circbuff.CircBuff
	inbound  *descriptor.Queue
	outbound circbuff.Sink
	logger   *slog.Logger
}

func New(capacity int, logger *slog.Logger) (*Session, error) {
	buf, err := circbuff.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Session{
		buf:     buf,
		inbound: descriptor.NewQueue(),
		logger:  logger,
	}, nil
}

// SetSink redirects flush output.
func (s *Session) SetSink(sink circbuff.Sink) {
	s.outbound = sink
}

func (s *Session) Close() error {
	return s.buf.Close()
}

func (s *Session) Repl() *repl.REPL {
	r := repl.NewRepl()
	r.AddCommand("info", s.infoHandler(), "Prints buffer counters. usage: info")
	r.AddCommand("write", s.writeHandler(), "Appends text to the buffer. usage: write <text>")
	r.AddCommand("read", s.readHandler(), "Consumes n bytes and prints them. usage: read <n>")
	r.AddCommand("peek", s.peekHandler(), "Prints the first n bytes without consuming. usage: peek <n>")
	r.AddCommand("discard", s.discardHandler(), "Drops n bytes from the front. usage: discard <n>")
	r.AddCommand("empty", s.emptyHandler(), "Forgets all buffered bytes. usage: empty")
	r.AddCommand("dump", s.dumpHandler(), "Prints every buffered byte. usage: dump")
	r.AddCommand("feed", s.feedHandler(), "Queues text on the inbound descriptor. usage: feed <text>")
	r.AddCommand("eof", s.eofHandler(), "Ends the inbound stream once queued text is read. usage: eof")
	r.AddCommand("fill", s.fillHandler(), "Reads the inbound descriptor into the buffer. usage: fill")
	r.AddCommand("flush", s.flushHandler(), "Writes the buffer to the outbound descriptor. usage: flush")
	return r
}
