package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxLineSize bounds a protocol line, terminator included.
const MaxLineSize = 512

// BroadcastSerial is reserved for unsolicited messages.
const BroadcastSerial = "-1"

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request types sent by the host.
const (
	TypeConfig = "config"
	TypeTheme  = "theme"
	TypeAccent = "accent"
	TypeExit   = "exit"
)

// Broadcast types emitted by framekeeper.
const (
	BroadcastReady        = "ready"
	BroadcastThemeChange  = "themechange"
	BroadcastAccentChange = "accentchange"
	BroadcastError        = "error"
)

// ErrMalformed reports a line that does not contain a serial and a type.
var ErrMalformed = errors.New("malformed message")

// Request is a decoded host message.
type Request struct {
	Serial  string
	Type    string
	Content string
}

// Response is a decoded reply. Broadcasts decode as responses whose serial is
// BroadcastSerial and whose status is the broadcast type.
type Response struct {
	Serial  string
	Status  string
	Message string
}

// IsBroadcast reports whether the message carries the reserved serial.
func (r Response) IsBroadcast() bool {
	return r.Serial == BroadcastSerial
}

// ParseRequest splits a line (without its terminator) into serial, type and
// content. Content is the remainder of the line and may be empty.
func ParseRequest(line string) (Request, error) {
	serial, typ, content, ok := split(line)
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	return Request{Serial: serial, Type: typ, Content: content}, nil
}

// ParseResponse decodes a response or broadcast line.
func ParseResponse(line string) (Response, error) {
	serial, status, message, ok := split(line)
	if !ok {
		return Response{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	return Response{Serial: serial, Status: status, Message: message}, nil
}

// FormatResponse encodes a reply to serial. The separator before message is
// always written, so an empty message leaves a trailing space.
func FormatResponse(serial, status, message string) string {
	return serial + " " + status + " " + message
}

// FormatBroadcast encodes an unsolicited message.
func FormatBroadcast(typ, content string) string {
	return FormatResponse(BroadcastSerial, typ, content)
}

func split(line string) (first, second, rest string, ok bool) {
	first, tail, found := strings.Cut(line, " ")
	if !found {
		return "", "", "", false
	}
	second, rest, found = strings.Cut(tail, " ")
	if !found {
		return "", "", "", false
	}
	return first, second, rest, true
}

// Bool encodes a flag the way the protocol expects it.
func Bool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// FormatAccent encodes an accent color as "<opaque> <rgba>".
func FormatAccent(opaque bool, rgba uint32) string {
	return Bool(opaque) + " " + strconv.FormatUint(uint64(rgba), 10)
}
