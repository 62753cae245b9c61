package session

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fdring/pkg/repl"
)

// argText returns everything after the command word.
func argText(input, usage string) (string, error) {
	parts := strings.SplitN(input, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return parts[1], nil
}

func argCount(input, usage string) (int, error) {
	args := strings.Fields(input)
	if len(args) != 2 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("input %v is out of range", n)
	}
	return n, nil
}

func noArgs(input, usage string) error {
	if len(strings.Fields(input)) != 1 {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func (s *Session) infoHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		if err := noArgs(input, "info"); err != nil {
			return err
		}
		_, err := fmt.Fprintf(config.Writer, "capacity=%d size=%d remaining=%d writable=%d readable=%d pending=%d\n",
			s.buf.Capacity(), s.buf.Size(), s.buf.RemainingCapacity(),
			s.buf.WritableLen(), s.buf.ReadableLen(), s.inbound.Pending())
		return err
	}
}

func (s *Session) writeHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		text, err := argText(input, "write <text>")
		if err != nil {
			return err
		}
		if err := s.buf.Write([]byte(text)); err != nil {
			return err
		}
		_, err = fmt.Fprintf(config.Writer, "wrote %d bytes\n", len(text))
		return err
	}
}

func (s *Session) readHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		n, err := argCount(input, "read <n>")
		if err != nil {
			return err
		}
		p := make([]byte, n)
		if err := s.buf.Read(p); err != nil {
			return err
		}
		_, err = fmt.Fprintf(config.Writer, "%q\n", p)
		return err
	}
}

func (s *Session) peekHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		n, err := argCount(input, "peek <n>")
		if err != nil {
			return err
		}
		p := make([]byte, n)
		if err := s.buf.Peek(p); err != nil {
			return err
		}
		_, err = fmt.Fprintf(config.Writer, "%q\n", p)
		return err
	}
}

func (s *Session) discardHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		n, err := argCount(input, "discard <n>")
		if err != nil {
			return err
		}
		if err := s.buf.Discard(n); err != nil {
			return err
		}
		_, err = fmt.Fprintf(config.Writer, "discarded %d bytes\n", n)
		return err
	}
}

func (s *Session) emptyHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		if err := noArgs(input, "empty"); err != nil {
			return err
		}
		s.buf.Empty()
		return nil
	}
}

func (s *Session) dumpHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		if err := noArgs(input, "dump"); err != nil {
			return err
		}
		_, err := fmt.Fprintf(config.Writer, "%q\n", s.buf.Bytes())
		return err
	}
}

func (s *Session) feedHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		text, err := argText(input, "feed <text>")
		if err != nil {
			return err
		}
		s.inbound.Push([]byte(text))
		return nil
	}
}

func (s *Session) eofHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		if err := noArgs(input, "eof"); err != nil {
			return err
		}
		s.inbound.CloseWrite()
		return nil
	}
}

func (s *Session) fillHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		if err := noArgs(input, "fill"); err != nil {
			return err
		}
		t, err := s.buf.ReadFromDescriptor(s.inbound)
		s.logger.Debug("fill", "bytes", t.N, "stop", t.Stop, "size", s.buf.Size())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(config.Writer, "filled %d bytes (%s)\n", t.N, t.Stop)
		return err
	}
}

func (s *Session) flushHandler() func(string, *repl.REPLConfig) error {
	return func(input string, config *repl.REPLConfig) error {
		if err := noArgs(input, "flush"); err != nil {
			return err
		}
		var sink io.Writer = config.Writer
		if s.outbound != nil {
			sink = s.outbound
		}
		t, err := s.buf.WriteToDescriptor(sink)
		s.logger.Debug("flush", "bytes", t.N, "stop", t.Stop, "size", s.buf.Size())
		if err != nil {
			return err
		}
		if s.outbound == nil && t.N > 0 {
			io.WriteString(config.Writer, "\n")
		}
		_, err = fmt.Fprintf(config.Writer, "flushed %d bytes (%s)\n", t.N, t.Stop)
		return err
	}
}
