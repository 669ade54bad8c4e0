//go:build windows

package winapi

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/five82/framekeeper/internal/platform"
	"github.com/five82/framekeeper/internal/state"
)

// DWM window attributes. useMica is the undocumented attribute of builds
// before the system backdrop attribute existed.
const (
	attrUseImmersiveDarkMode = 20
	attrSystemBackdropType   = 38
	attrUseMica              = 1029
)

var (
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procDwmSetWindowAttribute        = dwmapi.NewProc("DwmSetWindowAttribute")
	procDwmExtendFrameIntoClientArea = dwmapi.NewProc("DwmExtendFrameIntoClientArea")
	procDwmGetColorizationColor      = dwmapi.NewProc("DwmGetColorizationColor")
)

type margins struct {
	cxLeftWidth    int32
	cxRightWidth   int32
	cyTopHeight    int32
	cyBottomHeight int32
}

func (b *Backend) IsWindow(w state.Window) bool {
	return w != state.InvalidWindow && windows.IsWindow(windows.HWND(w))
}

func (b *Backend) ExtendFrame(w state.Window, enabled bool) error {
	var m margins
	if enabled {
		m = margins{-1, -1, -1, -1}
	}
	hr, _, _ := procDwmExtendFrameIntoClientArea.Call(uintptr(w), uintptr(unsafe.Pointer(&m)))
	return hresult("DwmExtendFrameIntoClientArea", hr)
}

func (b *Backend) SetDarkMode(w state.Window, dark bool) error {
	return setAttribute(w, attrUseImmersiveDarkMode, "DWMWA_USE_IMMERSIVE_DARK_MODE", boolValue(dark))
}

func (b *Backend) SetBackdrop(w state.Window, backdrop state.Backdrop) error {
	return setAttribute(w, attrSystemBackdropType, "DWMWA_SYSTEMBACKDROP_TYPE", uint32(backdrop))
}

func (b *Backend) SetMica(w state.Window, enabled bool) error {
	return setAttribute(w, attrUseMica, "DWMWA_USE_MICA", boolValue(enabled))
}

func setAttribute(w state.Window, attr uintptr, name string, value uint32) error {
	hr, _, _ := procDwmSetWindowAttribute.Call(
		uintptr(w),
		attr,
		uintptr(unsafe.Pointer(&value)),
		unsafe.Sizeof(value),
	)
	return hresult("DwmSetWindowAttribute("+name+")", hr)
}

// colorizationColor reads the DWM accent and converts it from 0xAARRGGBB to
// 0xRRGGBBAA.
func colorizationColor() (platform.Accent, error) {
	var argb uint32
	var opaque int32
	hr, _, _ := procDwmGetColorizationColor.Call(
		uintptr(unsafe.Pointer(&argb)),
		uintptr(unsafe.Pointer(&opaque)),
	)
	if err := hresult("DwmGetColorizationColor", hr); err != nil {
		return platform.Accent{}, err
	}
	return platform.Accent{Opaque: opaque != 0, RGBA: argb<<8 | argb>>24}, nil
}

// hresult turns a failed HRESULT into an OpError carrying the system message
// for its code.
func hresult(op string, hr uintptr) error {
	if int32(hr) >= 0 {
		return nil
	}
	return platform.Wrap(op, syscall.Errno(uint32(hr)&0xffff))
}

func boolValue(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
