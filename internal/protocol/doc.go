// Package protocol implements the line protocol spoken between framekeeper and
// its host process.
//
// # Wire Format
//
// Every message is a single ASCII line of at most MaxLineSize bytes including
// the terminating newline:
//
//	request:   serial " " type " " content
//	response:  serial " " status " " message
//	broadcast: "-1" " " type " " content
//
// The serial is an opaque token chosen by the host and echoed in the matching
// response. It must not contain a space; "-1" is reserved for broadcasts.
// Content is the remainder of the line and may be empty, so "9 theme " is a
// complete request and "5 ok " a complete response.
//
// # Components
//
//   - codec.go: ParseRequest, ParseResponse, FormatResponse, FormatBroadcast
//   - reader.go: LineReader, a bounded line reader whose pending read can be
//     cancelled during shutdown
//   - writer.go: Writer, which serializes whole lines from concurrent workers
//     and can be sealed so nothing is written after shutdown
//
// Over-length lines surface as ErrLineTooLong and lines without a serial and a
// type as ErrMalformed. Both are protocol errors the caller reports and then
// keeps reading.
package protocol
