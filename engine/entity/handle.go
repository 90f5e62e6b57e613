package entity

import (
	"sync/atomic"

	"github.com/colonyrt/compworld/engine/common"
)

var lastHandle uint32

// NextHandle allocates a new component handle. Handles are never reused while the process runs.
func NextHandle() common.Handle {
	return common.Handle(atomic.AddUint32(&lastHandle, 1))
}

// SeedHandles makes sure the next allocated handle is greater than max.
// The allocator never goes backwards.
func SeedHandles(max common.Handle) {
	for {
		cur := atomic.LoadUint32(&lastHandle)
		if uint32(max) <= cur {
			return
		}
		if atomic.CompareAndSwapUint32(&lastHandle, cur, uint32(max)) {
			return
		}
	}
}
