//go:build windows

package win32

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"github.com/lxn/win"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
	"unsafe"
)

// Procs lxn/win does not wrap.
var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	imm32    = windows.NewLazySystemDLL("imm32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetGUIThreadInfo    = user32.NewProc("GetGUIThreadInfo")
	procGetKeyboardLayout   = user32.NewProc("GetKeyboardLayout")
	procImmGetDefaultIMEWnd = imm32.NewProc("ImmGetDefaultIMEWnd")
	procGetLocaleInfoW      = kernel32.NewProc("GetLocaleInfoW")
)

const localeSISO639LangName = 0x59

type guiThreadInfo struct {
	cbSize        uint32
	flags         uint32
	hwndActive    win.HWND
	hwndFocus     win.HWND
	hwndCapture   win.HWND
	hwndMenuOwner win.HWND
	hwndMoveSize  win.HWND
	hwndCaret     win.HWND
	rcCaret       win.RECT
}

type Detector struct {
	log *zap.SugaredLogger
}

var _ layout.Detector = (*Detector)(nil)

func NewDetector(log *zap.SugaredLogger) *Detector {
	return &Detector{log: log}
}

// DetectActiveLayout resolves the layout bound to the thread that owns the
// IME window of the focused window.
func (d *Detector) DetectActiveLayout() (layout.LanguageTag, bool) {
	hwnd, ok := d.focusWindow()
	if !ok {
		return "", false
	}

	imeWnd, _, _ := procImmGetDefaultIMEWnd.Call(uintptr(hwnd))
	if imeWnd == 0 {
		return "", false
	}

	thread := win.GetWindowThreadProcessId(win.HWND(imeWnd), nil)
	if thread == 0 {
		return "", false
	}

	hkl, _, _ := procGetKeyboardLayout.Call(uintptr(thread))
	if hkl == 0 {
		return "", false
	}

	buf := make([]uint16, localeNameLen)
	n, _, _ := procGetLocaleInfoW.Call(
		uintptr(localeID(hkl)),
		localeSISO639LangName,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if n == 0 {
		return "", false
	}

	return decodeLocaleName(buf)
}

// focusWindow prefers the window with keyboard focus in the foreground GUI
// thread and falls back to the foreground window itself.
func (d *Detector) focusWindow() (win.HWND, bool) {
	info := guiThreadInfo{}
	info.cbSize = uint32(unsafe.Sizeof(info))

	r, _, _ := procGetGUIThreadInfo.Call(0, uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return 0, false
	}

	if info.hwndFocus == 0 {
		fg := win.GetForegroundWindow()
		if fg == 0 {
			return 0, false
		}
		return fg, true
	}

	d.log.Debugw("focus window resolved", "hwnd", uintptr(info.hwndFocus))
	return info.hwndFocus, true
}
