package progress

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	// DefaultWidth is the bar width used when Width is not called
	DefaultWidth = 40
	// DefaultFill is the glyph for completed segments
	DefaultFill = '█'
	// DefaultEmpty is the glyph for remaining segments
	DefaultEmpty = '░'
)

// Builder collects display parameters before a bar goes live
type Builder struct {
	total   uint64
	width   int
	fill    rune
	empty   rune
	message string
	writer  io.Writer
	tty     *bool
	log     logr.Logger
}

// New creates a builder for a bar counting up to total.
// A total of zero is valid and renders as already complete.
func New(total uint64) *Builder {
	return &Builder{
		total: total,
		width: DefaultWidth,
		fill:  DefaultFill,
		empty: DefaultEmpty,
		log:   logr.Discard(),
	}
}

// Width sets the number of glyphs between the brackets
func (b *Builder) Width(width int) *Builder {
	if width < 0 {
		width = 0
	}
	b.width = width
	return b
}

// Fill sets the glyph for completed segments
func (b *Builder) Fill(r rune) *Builder {
	b.fill = r
	return b
}

// Empty sets the glyph for remaining segments
func (b *Builder) Empty(r rune) *Builder {
	b.empty = r
	return b
}

// Message sets the text shown after the count
func (b *Builder) Message(msg string) *Builder {
	b.message = msg
	return b
}

// Writer directs output to w instead of standard output
func (b *Builder) Writer(w io.Writer) *Builder {
	b.writer = w
	return b
}

// TTY forces redraw-in-place (true) or line-per-frame (false) output,
// skipping terminal detection.
func (b *Builder) TTY(on bool) *Builder {
	b.tty = &on
	return b
}

// Logger receives write failures, which are otherwise dropped
func (b *Builder) Logger(log logr.Logger) *Builder {
	b.log = log
	return b
}

// Start makes the bar live and renders the first frame before returning.
func (b *Builder) Start() *Bar {
	w := b.writer
	if w == nil {
		w = os.Stdout
	}

	tty := detectTTY(w)
	if b.tty != nil {
		tty = *b.tty
	}
	if f, ok := w.(*os.File); ok && tty && isTerminal(f.Fd()) {
		w = colorable.NewColorable(f)
	}

	s := &state{
		total:   b.total,
		message: b.message,
		writer:  w,
		isTTY:   tty,
		handles: 1,
		log:     b.log.WithName("progress"),
		frame: frameConfig{
			width: b.width,
			fill:  b.fill,
			empty: b.empty,
		},
	}
	s.mu.Lock()
	s.render()
	s.mu.Unlock()

	return &Bar{state: s}
}

type fdWriter interface {
	Fd() uintptr
}

// detectTTY reports whether w is backed by an interactive terminal
func detectTTY(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isTerminal(f.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
