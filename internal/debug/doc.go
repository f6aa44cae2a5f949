// Package debug provides optional file-based debug logging.
//
// When the VLIST_DEBUG environment variable is set to a file path, debug
// messages are appended to that file as JSON lines, rotated by size.
// Otherwise the logger is a no-op.
package debug
