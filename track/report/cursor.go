package report

import (
	"fmt"

	"github.com/memkit/memkit/internal/buf"
)

// Cursor writes lines into a fixed-capacity destination, tracking the
// remaining room as it goes. One byte of the destination is reserved for
// the NUL terminator that Close writes, so a destination of capacity N
// holds at most N-1 content bytes.
//
// Writes after the cursor fills are dropped. A nil or empty destination
// makes every write a no-op and Close report -1.
type Cursor struct {
	dst    []byte
	off    int
	full   bool
	closed bool
}

// NewCursor wraps dst for bounded line output.
func NewCursor(dst []byte) *Cursor {
	return &Cursor{dst: dst}
}

// Linef formats one line (the caller includes the trailing newline) into
// the remaining capacity and reports whether the whole line fit. A line
// longer than the remaining room is truncated to the maximal prefix and
// marks the cursor full.
func (c *Cursor) Linef(format string, args ...any) bool {
	if len(c.dst) == 0 || c.full || c.closed {
		return false
	}
	window, ok := buf.Slice(c.dst, c.off, len(c.dst)-1-c.off)
	if !ok || len(window) == 0 {
		c.full = true
		return false
	}
	line := fmt.Sprintf(format, args...)
	n := copy(window, line)
	c.off += n
	if n < len(line) {
		c.full = true
		return false
	}
	return true
}

// Full reports whether the cursor has run out of room for further lines.
func (c *Cursor) Full() bool { return c.full }

// Len reports the content bytes written so far, or -1 for an unusable
// destination.
func (c *Cursor) Len() int {
	if len(c.dst) == 0 {
		return -1
	}
	return c.off
}

// Close writes the NUL terminator and returns the content byte count
// (terminator excluded), or -1 for an unusable destination. Close is
// idempotent and every exit path through it leaves the destination
// terminated.
func (c *Cursor) Close() int {
	if len(c.dst) == 0 {
		return -1
	}
	c.dst[c.off] = 0
	c.closed = true
	return c.off
}
