package evaluator

// Now returns a monotonic nanosecond reading backed by the platform-specific
// hiresNow implementation (hires_other.go / hires_windows.go). Exported so
// pkg/natives can wire the `clock` builtin without importing platform code
// itself (spec.md §6 "clock() -> seconds since a fixed epoch").
func Now() int64 {
	return hiresNow()
}
