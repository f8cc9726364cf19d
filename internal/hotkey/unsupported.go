//go:build !darwin && !windows

package hotkey

import (
	"fmt"
	"runtime"
)

// golang.design/x/hotkey panics at load time without an X display and is
// not linked on these platforms.
func platformKey(Accel) (key, error) {
	return nil, fmt.Errorf("%w on %s", ErrUnsupported, runtime.GOOS)
}
