package common

import "strconv"

// Handle is the process-unique identity of a component
type Handle uint32

// NilHandle is the zero handle, never assigned to a component
const NilHandle Handle = 0

// IsNil returns if Handle is nil
func (h Handle) IsNil() bool {
	return h == NilHandle
}

func (h Handle) String() string {
	return "#" + strconv.FormatUint(uint64(h), 10)
}
