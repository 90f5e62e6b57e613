package rtutil

import (
	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/pkg/errors"
)

// RunPanicless calls a function panic-freely
func RunPanicless(f func()) (paniced bool) {
	defer func() {
		err := recover()
		if err != nil {
			rtlog.TraceError("%p panic: %v", f, err)
			paniced = true
		}
	}()

	f()
	return
}

// CatchPanic calls f and converts a panic into an error
func CatchPanic(f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok {
			err = errors.Wrap(e, "panic")
		} else {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	f()
	return
}
