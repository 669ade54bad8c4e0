package state

import "testing"

func TestClassifyBuild(t *testing.T) {
	tests := []struct {
		build uint32
		want  Capability
	}{
		{17763, CapabilityNone},
		{MinimumBuild, CapabilityNone},
		{19045, CapabilityNone},
		{MicaOnlyBuild, CapabilityMicaOnly},
		{22500, CapabilityMicaOnly},
		{SystemBackdropBuild, CapabilityFull},
		{26100, CapabilityFull},
	}
	for _, tt := range tests {
		if got := ClassifyBuild(tt.build); got != tt.want {
			t.Errorf("ClassifyBuild(%d) = %v, want %v", tt.build, got, tt.want)
		}
	}
}

func TestCapability_Supports(t *testing.T) {
	tests := []struct {
		capability Capability
		want       []Backdrop
	}{
		{CapabilityNone, []Backdrop{BackdropDefault}},
		{CapabilityMicaOnly, []Backdrop{BackdropDefault, BackdropNone, BackdropMica}},
		{CapabilityFull, []Backdrop{BackdropDefault, BackdropNone, BackdropMica, BackdropAcrylic, BackdropTabbed}},
	}
	for _, tt := range tests {
		supported := map[Backdrop]bool{}
		for _, b := range tt.want {
			supported[b] = true
		}
		for b := BackdropDefault; b <= backdropCount; b++ {
			if got := tt.capability.Supports(b); got != supported[b] {
				t.Errorf("%v.Supports(%v) = %v, want %v", tt.capability, b, got, supported[b])
			}
		}
	}
}

func TestParseBackdrop(t *testing.T) {
	for digit := byte('0'); digit <= '4'; digit++ {
		b, ok := ParseBackdrop(digit)
		if !ok || byte(b) != digit-'0' {
			t.Fatalf("ParseBackdrop(%q) = %v, %v", digit, b, ok)
		}
	}
	for _, digit := range []byte{'5', '9', '/', 'a', ' '} {
		if _, ok := ParseBackdrop(digit); ok {
			t.Fatalf("ParseBackdrop(%q) accepted an out-of-range digit", digit)
		}
	}
	if Supported(MinimumBuild-1) || !Supported(MinimumBuild) {
		t.Fatal("Supported() threshold is off")
	}
}
