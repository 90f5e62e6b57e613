package post

import (
	"github.com/colonyrt/compworld/engine/rtutil"
)

// PostCallback is the type of functions to be posted
type PostCallback func()

var callbacks Queue[PostCallback]

// Post a callback which will be executed when other things are done in the frame routine
//
// Post might be called from other goroutines, e.g. the storage routine.
func Post(f PostCallback) {
	callbacks.Push(f)
}

// Tick is called by the frame routine to run all posted functions.
// Callbacks posted while ticking are run in the same Tick.
func Tick() (n int) {
	for {
		batch := callbacks.Drain()
		if len(batch) == 0 {
			return
		}
		for _, f := range batch {
			rtutil.RunPanicless(f)
		}
		n += len(batch)
	}
}

// Pending returns the number of callbacks waiting for the next Tick
func Pending() int {
	return callbacks.Len()
}
