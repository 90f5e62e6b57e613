package common

import "sort"

// HandleSet is the data structure for a set of handles
type HandleSet map[Handle]struct{}

// Add adds a handle to HandleSet
func (hs HandleSet) Add(h Handle) {
	hs[h] = struct{}{}
}

// Del removes a handle from HandleSet
func (hs HandleSet) Del(h Handle) {
	delete(hs, h)
}

// Contains checks if handle is in HandleSet
func (hs HandleSet) Contains(h Handle) bool {
	_, ok := hs[h]
	return ok
}

// ToList converts HandleSet to a sorted slice of handles
func (hs HandleSet) ToList() []Handle {
	list := make([]Handle, 0, len(hs))
	for h := range hs {
		list = append(list, h)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// ForEach calls cb for every handle until cb returns false
func (hs HandleSet) ForEach(cb func(h Handle) bool) {
	for h := range hs {
		if !cb(h) {
			break
		}
	}
}
