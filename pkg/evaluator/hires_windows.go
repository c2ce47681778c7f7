//go:build windows

package evaluator

import (
	"syscall"
	"unsafe"
)

var (
	kernel32DLL = syscall.NewLazyDLL("kernel32.dll")
	qpcProc     = kernel32DLL.NewProc("QueryPerformanceCounter")
	qpfProc     = kernel32DLL.NewProc("QueryPerformanceFrequency")
	qpcFreq     int64
)

func init() {
	qpfProc.Call(uintptr(unsafe.Pointer(&qpcFreq)))
}

// hiresNow returns a high-resolution monotonic timestamp in nanoseconds,
// converting the raw QPC tick count by qpcFreq to match hires_other.go's
// units.
func hiresNow() int64 {
	var count int64
	qpcProc.Call(uintptr(unsafe.Pointer(&count)))
	if qpcFreq == 0 {
		return 0
	}
	return count * 1_000_000_000 / qpcFreq
}
