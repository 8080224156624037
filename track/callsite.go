package track

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Callsite identifies the source location that requested an allocation.
// It is informational only: never validated, never dereferenced. The zero
// value formats as "?:0".
type Callsite struct {
	File string
	Line int
}

// Here captures the file and line of its caller.
func Here() Callsite {
	return Caller(1)
}

// Caller captures the file and line skip frames above the caller of Caller.
// skip = 0 is the caller itself, matching the runtime.Caller convention one
// frame up.
func Caller(skip int) Callsite {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Callsite{}
	}
	// Keep only the base name; full build paths add noise to reports.
	return Callsite{File: filepath.Base(file), Line: line}
}

// Site builds a Callsite from an explicit file and line, for callers that
// carry their own location information.
func Site(file string, line int) Callsite {
	return Callsite{File: file, Line: line}
}

// IsZero reports whether the callsite carries no location.
func (c Callsite) IsZero() bool {
	return c.File == "" && c.Line == 0
}

// String renders the callsite as "file:line".
func (c Callsite) String() string {
	if c.File == "" {
		return fmt.Sprintf("?:%d", c.Line)
	}
	return fmt.Sprintf("%s:%d", c.File, c.Line)
}
