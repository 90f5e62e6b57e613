package entity

import (
	"github.com/colonyrt/compworld/engine/common"
	"github.com/petar/GoLLRB/llrb"
	"github.com/pkg/errors"
)

type handleItem common.Handle

func (a handleItem) Less(than llrb.Item) bool {
	return a < than.(handleItem)
}

// Registry maps handles to live components
type Registry struct {
	components map[common.Handle]Component
	handles    *llrb.LLRB
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		components: map[common.Handle]Component{},
		handles:    llrb.New(),
	}
}

// Register inserts the component under its handle.
// Registering the same instance again is a no-op.
func (r *Registry) Register(c Component) error {
	h := c.Handle()
	if h.IsNil() {
		return errors.Wrapf(ErrNilHandle, "register %s", c)
	}
	if old, ok := r.components[h]; ok {
		if old == c {
			return nil
		}
		return errors.Wrapf(ErrHandleCollision, "register %s: handle %s is used by %s", c, h, old)
	}
	r.components[h] = c
	r.handles.ReplaceOrInsert(handleItem(h))
	return nil
}

// Unregister removes only the component itself, returning if it was live
func (r *Registry) Unregister(c Component) bool {
	h := c.Handle()
	if live, ok := r.components[h]; ok && live == c {
		delete(r.components, h)
		r.handles.Delete(handleItem(h))
		return true
	}
	return false
}

// UnregisterSubtree removes the component and all its current descendants.
// It returns the removed components in pre-order.
func (r *Registry) UnregisterSubtree(c Component) []Component {
	var removed []Component
	stack := []Component{c}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if r.Unregister(top) {
			removed = append(removed, top)
		}

		children := top.base().ChildIDs
		for i := len(children) - 1; i >= 0; i-- {
			if child, ok := r.components[children[i]]; ok {
				stack = append(stack, child)
			}
		}
	}
	return removed
}

// Lookup returns the live component of the handle
func (r *Registry) Lookup(h common.Handle) (Component, bool) {
	c, ok := r.components[h]
	return c, ok
}

// MaxHandleInUse returns the largest live handle, or NilHandle if the registry is empty
func (r *Registry) MaxHandleInUse() common.Handle {
	max := r.handles.Max()
	if max == nil {
		return common.NilHandle
	}
	return common.Handle(max.(handleItem))
}

// Len returns the number of live components
func (r *Registry) Len() int {
	return len(r.components)
}

// Each calls cb for every live component in ascending handle order until cb returns false
func (r *Registry) Each(cb func(c Component) bool) {
	r.handles.AscendGreaterOrEqual(handleItem(common.NilHandle), func(item llrb.Item) bool {
		return cb(r.components[common.Handle(item.(handleItem))])
	})
}

// All returns all live components in ascending handle order
func (r *Registry) All() []Component {
	all := make([]Component, 0, len(r.components))
	r.Each(func(c Component) bool {
		all = append(all, c)
		return true
	})
	return all
}
