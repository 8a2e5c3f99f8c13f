// Package lists holds the line-oriented state machines for each plaintext
// catalog list. Every machine reads a positioned *linestream.Lines exactly once
// and yields records lazily; records never outlive the range loop that
// consumes them, so memory stays bounded by one movie's worth of lines.
//
// Pure functions: lines in, records out. No store dependencies.
package lists
