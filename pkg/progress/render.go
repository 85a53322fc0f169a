package progress

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const (
	// clearLine returns the cursor to column 0 and erases the line
	clearLine = "\r\x1b[2K"

	successGlyph = "✔"
	failGlyph    = "✖"
)

var (
	successColor = forced(color.New(color.FgGreen))
	failColor    = forced(color.New(color.FgRed))
)

// forced keeps the escape codes regardless of what color detects for stdout;
// whether to colour at all is decided per bar from its own TTY flag.
func forced(c *color.Color) *color.Color {
	c.EnableColor()
	return c
}

type frameConfig struct {
	width int
	fill  rune
	empty rune
}

// outcome marks how a frame ends: live, or one of the final glyphs
type outcome int

const (
	outcomeNone outcome = iota
	outcomeSuccess
	outcomeFail
)

// segments returns how many of width cells are filled at current/total.
// A zero total counts as complete.
func segments(width int, current, total uint64) int {
	if width <= 0 {
		return 0
	}
	if total == 0 || current >= total {
		return width
	}
	hi, lo := bits.Mul64(uint64(width), current)
	q, _ := bits.Div64(hi, lo, total)
	return int(q)
}

// percent returns floor(100*current/total), 100 for a zero total
func percent(current, total uint64) uint64 {
	if total == 0 || current >= total {
		return 100
	}
	hi, lo := bits.Mul64(100, current)
	q, _ := bits.Div64(hi, lo, total)
	return q
}

// formatFrame builds the bracketed bar text without any control sequence
// or line terminator.
func formatFrame(cfg frameConfig, current, total uint64, glyph, message string) string {
	filled := segments(cfg.width, current, total)

	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(strings.Repeat(string(cfg.fill), filled))
	sb.WriteString(strings.Repeat(string(cfg.empty), cfg.width-filled))
	sb.WriteString("] ")

	pct := strconv.FormatUint(percent(current, total), 10)
	sb.WriteString(strings.Repeat(" ", max(0, 3-len(pct))))
	sb.WriteString(pct)
	sb.WriteString("% ")
	sb.WriteString(strconv.FormatUint(current, 10))
	sb.WriteByte('/')
	sb.WriteString(strconv.FormatUint(total, 10))

	if glyph != "" {
		sb.WriteByte(' ')
		sb.WriteString(glyph)
	}
	if message != "" {
		sb.WriteByte(' ')
		sb.WriteString(message)
	}
	return sb.String()
}

// line wraps a frame for the destination: in-place redraw for a terminal,
// one line per frame otherwise. Final frames always end the line.
func line(frame string, tty, final bool) string {
	if !tty {
		return frame + "\n"
	}
	if final {
		return clearLine + frame + "\n"
	}
	return clearLine + frame
}

// glyphFor returns the final glyph for o, coloured when tty is set
func glyphFor(o outcome, tty bool) string {
	switch o {
	case outcomeSuccess:
		if tty {
			return successColor.Sprint(successGlyph)
		}
		return successGlyph
	case outcomeFail:
		if tty {
			return failColor.Sprint(failGlyph)
		}
		return failGlyph
	default:
		return ""
	}
}
