// Package report renders allocation-tracking state as text and JSON.
//
// # Bounded Reports
//
// The three bounded generators - WriteStats, WriteAllocations, WriteLeaks -
// format into a caller-owned byte buffer of fixed capacity and never write
// past it. Output is produced line by line through a Cursor: when a line
// does not fit in the remaining capacity it is truncated to the maximal
// prefix and later lines are dropped, so an undersized buffer yields a
// partial report instead of a failure. The final byte is always a NUL
// terminator; the return value is the number of content bytes written
// (terminator excluded), or -1 when no usable buffer was supplied.
//
// Truncation is deliberate, not an error: these are diagnostic reports and
// a clipped report is still useful.
//
// # Unbounded Variants
//
// FprintStats, FprintAllocations and FprintLeaks write the same text to an
// io.Writer without a capacity bound, for console and file output. Document
// builds a JSON view of the same snapshot.
//
// # Inputs
//
// Generators consume value snapshots (Summary, Entry) rather than live
// tracking structures, so the owning tracker can render under its own lock
// and the package stays free of locking concerns.
package report
