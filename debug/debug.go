// Package debug gates assertions and verbose diagnostics behind the "debug"
// build tag.
package debug

import "fmt"

// Assert panics with msg if the condition does not hold. It compiles to a
// no-op unless the debug build tag is set.
func Assert(condition bool, format string, args ...any) {
	if Debug && !condition {
		panic(fmt.Sprintf(format, args...))
	}
}
