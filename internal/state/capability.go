package state

// OS builds that gate decoration features.
const (
	MinimumBuild        uint32 = 18362
	MicaOnlyBuild       uint32 = 22000
	SystemBackdropBuild uint32 = 22621
)

// Capability describes how backdrops can be applied on a given OS build.
type Capability int

const (
	// CapabilityNone cannot change the backdrop at all.
	CapabilityNone Capability = iota
	// CapabilityMicaOnly only has the legacy mica toggle.
	CapabilityMicaOnly
	// CapabilityFull accepts every Backdrop through the system backdrop attribute.
	CapabilityFull
)

func (c Capability) String() string {
	switch c {
	case CapabilityMicaOnly:
		return "mica-only"
	case CapabilityFull:
		return "full"
	default:
		return "none"
	}
}

// ClassifyBuild maps an OS build number to its backdrop capability.
func ClassifyBuild(build uint32) Capability {
	switch {
	case build >= SystemBackdropBuild:
		return CapabilityFull
	case build >= MicaOnlyBuild:
		return CapabilityMicaOnly
	default:
		return CapabilityNone
	}
}

// Supported reports whether the build is new enough to run at all.
func Supported(build uint32) bool {
	return build >= MinimumBuild
}

// Supports reports whether b can be applied. The legacy toggle can express
// "mica" and "not mica", which covers Default and None as well.
func (c Capability) Supports(b Backdrop) bool {
	switch c {
	case CapabilityFull:
		return b < backdropCount
	case CapabilityMicaOnly:
		return b == BackdropDefault || b == BackdropNone || b == BackdropMica
	default:
		return b == BackdropDefault
	}
}
