package state

import (
	"fmt"
	"strings"
)

// Backdrop is the window background material. The ordinals match the values
// the protocol and the OS attribute use.
type Backdrop uint8

const (
	BackdropDefault Backdrop = iota
	BackdropNone
	BackdropMica
	BackdropAcrylic
	BackdropTabbed
	backdropCount
)

func (b Backdrop) String() string {
	switch b {
	case BackdropDefault:
		return "default"
	case BackdropNone:
		return "none"
	case BackdropMica:
		return "mica"
	case BackdropAcrylic:
		return "acrylic"
	case BackdropTabbed:
		return "tabbed"
	default:
		return fmt.Sprintf("backdrop(%d)", uint8(b))
	}
}

// ParseBackdrop decodes the protocol digit for a backdrop.
func ParseBackdrop(digit byte) (Backdrop, bool) {
	if digit < '0' || digit >= '0'+byte(backdropCount) {
		return 0, false
	}
	return Backdrop(digit - '0'), true
}

// Changes is the set of fields modified since the last apply pass.
type Changes struct {
	DarkMode     bool
	ExtendBorder bool
	Backdrop     bool
}

// Empty reports whether nothing is pending.
func (c Changes) Empty() bool {
	return !c.DarkMode && !c.ExtendBorder && !c.Backdrop
}

// Union returns the changes present in either set.
func (c Changes) Union(o Changes) Changes {
	return Changes{
		DarkMode:     c.DarkMode || o.DarkMode,
		ExtendBorder: c.ExtendBorder || o.ExtendBorder,
		Backdrop:     c.Backdrop || o.Backdrop,
	}
}

func (c Changes) String() string {
	var parts []string
	if c.ExtendBorder {
		parts = append(parts, "extend-border")
	}
	if c.DarkMode {
		parts = append(parts, "dark-mode")
	}
	if c.Backdrop {
		parts = append(parts, "backdrop")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}
