package entity

import (
	"reflect"

	"github.com/colonyrt/compworld/engine/common"
	"github.com/colonyrt/compworld/engine/consts"
	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/colonyrt/compworld/engine/rtutil"
	"github.com/pkg/errors"
)

// Snapshot is the serialization-flagged subset of a world plus its root handle
type Snapshot struct {
	Root       common.Handle
	Components []Component
}

// Handles returns the handles of the snapshot's components in order
func (snap *Snapshot) Handles() []common.Handle {
	handles := make([]common.Handle, len(snap.Components))
	for i, c := range snap.Components {
		handles[i] = c.Handle()
	}
	return handles
}

// Snapshot flattens the world into copies of every component marked to be serialized.
//
// The root is always marked to be serialized and stays marked afterwards. Components are
// collected in pre-order from the root. A marked component under an unmarked parent is included
// too; Restore moves it under the root.
func (m *Manager) Snapshot() *Snapshot {
	m.root.base().SetFlag(FlagShouldSerialize, true)

	m.registry.Each(func(c Component) bool {
		if ps, ok := c.(PreSerializer); ok {
			ps.PrepareForSerialization()
		}
		return true
	})

	snap := &Snapshot{Root: m.root.Handle()}
	stack := []Component{m.root}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b := c.base()
		if b.ShouldSerialize() {
			snap.Components = append(snap.Components, cloneComponent(c))
		}
		for i := len(b.ChildIDs) - 1; i >= 0; i-- {
			if child, ok := m.registry.Lookup(b.ChildIDs[i]); ok {
				stack = append(stack, child)
			}
		}
	}

	if consts.DEBUG_SAVE_LOAD {
		rtlog.Debugf("snapshot: %d of %d components, root %s", len(snap.Components), m.registry.Len(), snap.Root)
	}
	return snap
}

// cloneComponent copies the component struct and the slices of its Base.
// Other fields are copied shallowly.
func cloneComponent(c Component) Component {
	v := reflect.ValueOf(c)
	cp := reflect.New(v.Elem().Type())
	cp.Elem().Set(v.Elem())
	clone := cp.Interface().(Component)

	b := clone.base()
	b.ChildIDs = append([]common.Handle(nil), b.ChildIDs...)
	if b.Tags != nil {
		b.Tags = append([]string(nil), b.Tags...)
	}
	b.manager = nil
	b.caps = 0
	return clone
}

// Restore rebuilds a world from a snapshot.
//
// The snapshot's component instances become the live components of the returned manager.
// A component whose parent is not in the snapshot, or which can not be reached from the root,
// is moved under the root. The capability index is derived from scratch and the handle
// allocator is seeded past the largest restored handle. PostSerialization runs on every
// restored component last.
func Restore(snap *Snapshot) (*Manager, error) {
	if snap == nil {
		return nil, errors.Wrap(ErrMissingRoot, "restore nil snapshot")
	}

	m := newManager()
	var restored []Component
	for _, c := range snap.Components {
		if live, ok := m.registry.Lookup(c.Handle()); ok && live == c {
			continue
		}
		if err := m.registry.Register(c); err != nil {
			return nil, errors.WithMessage(err, "restore")
		}
		restored = append(restored, c)
	}

	root, ok := m.registry.Lookup(snap.Root)
	if !ok {
		return nil, errors.Wrapf(ErrMissingRoot, "restore: root %s is not in the snapshot", snap.Root)
	}
	m.root = root
	m.relink(restored)

	m.registry.Each(func(c Component) bool {
		c.base().manager = m
		m.index.OnComponentAdded(c)
		return true
	})
	SeedHandles(m.registry.MaxHandleInUse())
	Propagate(m.registry, m.root)

	m.registry.Each(func(c Component) bool {
		if ps, ok := c.(PostSerializer); ok {
			rtutil.RunPanicless(func() {
				ps.PostSerialization(m)
			})
		}
		return true
	})

	if consts.DEBUG_SAVE_LOAD {
		rtlog.Debugf("restore: %d components, root %s", m.registry.Len(), snap.Root)
	}
	return m, nil
}

// relink rebuilds the child lists of restored components from their parent handles so that
// every component hangs in the tree under the root
func (m *Manager) relink(restored []Component) {
	rootHandle := m.root.Handle()
	m.root.base().ParentID = common.NilHandle

	// keep the saved child order where both edges agree
	children := map[common.Handle][]common.Handle{}
	linked := common.HandleSet{}
	for _, c := range restored {
		b := c.base()
		for _, ch := range b.ChildIDs {
			if ch == rootHandle || linked.Contains(ch) {
				continue
			}
			if child, ok := m.registry.Lookup(ch); ok && child.base().ParentID == b.ID {
				children[b.ID] = append(children[b.ID], ch)
				linked.Add(ch)
			}
		}
	}
	for _, c := range restored {
		b := c.base()
		if b.ID == rootHandle || linked.Contains(b.ID) {
			continue
		}
		if _, ok := m.registry.Lookup(b.ParentID); !ok || b.ParentID == b.ID {
			rtlog.Warnf("restore: parent %s of %s is not restored, moved under root %s", b.ParentID, c, rootHandle)
			b.ParentID = rootHandle
		}
		children[b.ParentID] = append(children[b.ParentID], b.ID)
		linked.Add(b.ID)
	}
	for _, c := range restored {
		b := c.base()
		b.ChildIDs = children[b.ID]
	}

	// parent links forming a cycle are cut at the first component of the cycle
	reachable := m.reachableFromRoot()
	for _, c := range restored {
		if reachable.Contains(c.Handle()) {
			continue
		}
		b := c.base()
		rtlog.Warnf("restore: %s is not reachable from root %s, moved under root", c, rootHandle)
		if parent, ok := m.registry.Lookup(b.ParentID); ok {
			parent.base().detachChild(b.ID)
		}
		b.ParentID = rootHandle
		m.root.base().attachChild(b.ID)
		m.markReachable(reachable, c)
	}
}

// reachableFromRoot returns the handles reachable from the root through child edges
// whose parent edge points back
func (m *Manager) reachableFromRoot() common.HandleSet {
	reachable := common.HandleSet{}
	m.markReachable(reachable, m.root)
	return reachable
}

// markReachable adds c and the components reachable from it to reachable
func (m *Manager) markReachable(reachable common.HandleSet, c Component) {
	reachable.Add(c.Handle())
	stack := []Component{c}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ch := range c.base().ChildIDs {
			child, ok := m.registry.Lookup(ch)
			if !ok || reachable.Contains(ch) || child.base().ParentID != c.Handle() {
				continue
			}
			reachable.Add(ch)
			stack = append(stack, child)
		}
	}
}
