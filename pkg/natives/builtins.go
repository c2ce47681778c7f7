package natives

import (
	"bufio"
	"io"

	"github.com/thomasrohde/glitter/pkg/value"
)

// newClock builds the `clock` native from nowNanos, which the session
// supplies at startup (the evaluator package owns the monotonic clock read;
// natives stays free of platform build tags by taking a closure instead of
// importing it directly).
func newClock(nowNanos func() int64) *value.NativeFunction {
	return &value.NativeFunction{
		Name:  "clock",
		Arity: 0,
		Handler: func(args []value.Value) (value.Value, error) {
			return value.Number{Value: float64(nowNanos()) / 1e9}, nil
		},
	}
}

// RegisterBuiltins adds the single core native, `clock` (spec.md §6), to r.
// nowNanos supplies a monotonic nanosecond reading. Core natives are always
// present; they are not subject to Policy gating.
func RegisterBuiltins(r *Registry, nowNanos func() int64) {
	r.Register(newClock(nowNanos))
}

func newRead(in io.Reader) *value.NativeFunction {
	scanner := bufio.NewScanner(in)
	return &value.NativeFunction{
		Name:  "read",
		Arity: 0,
		Handler: func(args []value.Value) (value.Value, error) {
			if !scanner.Scan() {
				return value.Undef, nil
			}
			return value.String{Value: scanner.Text()}, nil
		},
	}
}

// RegisterOptional adds natives that are not always present (spec.md §9
// supplemented feature, "additional natives a host embedding may
// register"). Neither this function nor the Session checks a Policy;
// cmd/glitter filters these natives through a loaded Policy before wiring
// them into its Session. `read` returns the next line from in, or undefined
// at EOF.
func RegisterOptional(r *Registry, in io.Reader) {
	r.Register(newRead(in))
}
