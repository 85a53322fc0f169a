package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
)

// state is shared by every handle of one bar. mu guards all fields and
// the writer, so a mutation and the frame it produces are a single step.
type state struct {
	mu sync.Mutex

	current  uint64
	total    uint64
	message  string
	finished bool
	isTTY    bool

	writer      io.Writer
	frame       frameConfig
	handles     int
	writeFailed bool
	log         logr.Logger
}

// Bar is a live progress bar handle. It is safe for concurrent use, and
// Clone hands out further handles onto the same bar.
type Bar struct {
	state  *state
	closed atomic.Bool
}

// Tick adds delta to the counter, clamped to the total, and redraws.
// It does nothing once the bar is finished.
func (b *Bar) Tick(delta uint64) {
	s := b.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return
	}
	next := s.current + delta
	if next < s.current || next > s.total {
		next = s.total
	}
	s.current = next
	s.render()
}

// SetMessage replaces the text shown after the count and redraws
func (b *Bar) SetMessage(msg string) {
	s := b.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return
	}
	s.message = msg
	s.render()
}

// Success completes the counter and draws the final frame with a check mark
func (b *Bar) Success(msg string) {
	b.state.finish(outcomeSuccess, msg)
}

// Fail draws the final frame with a cross, leaving the counter where it is
func (b *Bar) Fail(msg string) {
	b.state.finish(outcomeFail, msg)
}

// Clone returns another handle onto the same bar. Each handle should be
// closed; the bar is finalized when the last one is.
func (b *Bar) Clone() *Bar {
	s := b.state
	s.mu.Lock()
	s.handles++
	s.mu.Unlock()
	return &Bar{state: s}
}

// Close releases this handle. Closing the last open handle of a bar that
// was never finished renders one neutral final frame and ends the line.
// Closing a handle twice is a no-op.
func (b *Bar) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	s := b.state
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handles--
	if s.handles > 0 || s.finished {
		return nil
	}
	s.finished = true
	frame := formatFrame(s.frame, s.current, s.total, "", s.message)
	s.write(line(frame, s.isTTY, true))
	return nil
}

// Printf writes a line of text without corrupting the bar. On a terminal
// the bar is redrawn below the text.
func (b *Bar) Printf(format string, args ...any) {
	b.state.print(fmt.Sprintf(format, args...))
}

// Println is Printf with fmt.Sprintln formatting
func (b *Bar) Println(args ...any) {
	msg := fmt.Sprintln(args...)
	b.state.print(msg[:len(msg)-1])
}

// Current returns the counter
func (b *Bar) Current() uint64 {
	s := b.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Total returns the configured total
func (b *Bar) Total() uint64 {
	return b.state.total
}

// Message returns the text currently shown after the count
func (b *Bar) Message() string {
	s := b.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Finished reports whether the bar reached a final state
func (b *Bar) Finished() bool {
	s := b.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// IsTTY reports whether the bar redraws in place
func (b *Bar) IsTTY() bool {
	return b.state.isTTY
}

func (s *state) finish(o outcome, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return
	}
	s.finished = true
	if o == outcomeSuccess {
		s.current = s.total
	}
	s.message = msg

	frame := formatFrame(s.frame, s.current, s.total, glyphFor(o, s.isTTY), s.message)
	s.write(line(frame, s.isTTY, true))
}

func (s *state) print(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isTTY || s.finished {
		s.write(text + "\n")
		return
	}
	s.write(clearLine + text + "\n")
	s.render()
}

// render draws the live frame. Callers hold mu.
func (s *state) render() {
	frame := formatFrame(s.frame, s.current, s.total, "", s.message)
	s.write(line(frame, s.isTTY, false))
}

type flusher interface {
	Flush() error
}

// write sends one chunk to the destination. Failures are logged once and
// otherwise ignored so a broken pipe never takes down the caller.
func (s *state) write(text string) {
	_, err := io.WriteString(s.writer, text)
	if err == nil {
		if f, ok := s.writer.(flusher); ok {
			err = f.Flush()
		}
	}
	if err != nil && !s.writeFailed {
		s.writeFailed = true
		s.log.V(1).Info("progress output failed, further errors suppressed", "error", err.Error())
	}
}
