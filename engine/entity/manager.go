package entity

import (
	"reflect"

	"github.com/colonyrt/compworld/engine/common"
	"github.com/colonyrt/compworld/engine/consts"
	"github.com/colonyrt/compworld/engine/opmon"
	"github.com/colonyrt/compworld/engine/rtlog"
)

// Manager owns the components of one world.
//
// All methods except AddComponent, RemoveComponent and Spawn must be called from the frame goroutine.
type Manager struct {
	registry  *Registry
	index     *CapabilityIndex
	queue     MutationQueue
	root      Component
	selection SelectionBuffer
	frame     uint64
}

func newManager() *Manager {
	return &Manager{
		registry: NewRegistry(),
		index:    NewCapabilityIndex(),
	}
}

// NewManager creates a world with the root component live
func NewManager(root Component) *Manager {
	if root.Handle().IsNil() {
		InitComponent(root, "")
	}
	rb := root.base()
	rb.ParentID = common.NilHandle
	rb.SetFlag(FlagShouldSerialize, true)

	m := newManager()
	if err := m.registry.Register(root); err != nil {
		rtlog.Panicf("NewManager: %v", err)
	}
	m.root = root
	m.index.OnComponentAdded(root)
	rb.manager = m
	rb.world = rb.Local
	return m
}

// Root returns the root component
func (m *Manager) Root() Component {
	return m.root
}

// Registry returns the registry of live components
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Index returns the capability index
func (m *Manager) Index() *CapabilityIndex {
	return m.index
}

// Frame returns the number of frames updated
func (m *Manager) Frame() uint64 {
	return m.frame
}

// Lookup returns the live component of the handle
func (m *Manager) Lookup(h common.Handle) (Component, bool) {
	return m.registry.Lookup(h)
}

// Len returns the number of live components
func (m *Manager) Len() int {
	return m.registry.Len()
}

// MaxComponentID returns the largest live handle
func (m *Manager) MaxComponentID() common.Handle {
	return m.registry.MaxHandleInUse()
}

// AddComponent submits the component to become live at the next drain.
// A component without parent is attached under the root. Safe to call from any goroutine.
func (m *Manager) AddComponent(c Component) {
	if c.Handle().IsNil() {
		InitComponent(c, "")
	}
	m.queue.SubmitAddition(c)
}

// Spawn sets the parent of the component and submits it. A nil parent means the root.
// Safe to call from any goroutine.
func (m *Manager) Spawn(c Component, parent Component) common.Handle {
	if c.Handle().IsNil() {
		InitComponent(c, "")
	}
	if parent != nil {
		c.base().ParentID = parent.Handle()
	} else {
		c.base().ParentID = common.NilHandle
	}
	m.queue.SubmitAddition(c)
	return c.Handle()
}

// RemoveComponent submits the component and its subtree for removal at the next drain.
// Safe to call from any goroutine.
func (m *Manager) RemoveComponent(c Component) {
	m.queue.SubmitRemoval(c)
}

// Update runs one frame: propagate transforms, update active updateables, then drain additions and removals
func (m *Manager) Update(ctx *FrameContext) {
	m.frame++
	ctx.Frame = m.frame
	ctx.Manager = m

	op := opmon.StartOperation("frame.propagate")
	Propagate(m.registry, m.root)
	op.Finish(consts.FRAME_WARN_THRESHOLD)

	op = opmon.StartOperation("frame.update")
	m.index.EachUpdateableKind(func(kind reflect.Type, items []Updateable) {
		for _, u := range items {
			if u.base().IsActive() {
				u.Update(ctx)
			}
		}
	})
	op.Finish(consts.FRAME_WARN_THRESHOLD)

	op = opmon.StartOperation("frame.drain")
	m.drain()
	op.Finish(consts.FRAME_WARN_THRESHOLD)
}

// drain applies all staged additions, then all staged removals.
// It must only run on the frame goroutine outside the update pass.
func (m *Manager) drain() {
	m.applyAdditions(m.queue.DrainAdditions())
	m.applyRemovals(m.queue.DrainRemovals())
}

func (m *Manager) applyAdditions(batch []Component) {
	if len(batch) == 0 {
		return
	}

	// register all first so that parents and children submitted together can link
	added := make([]Component, 0, len(batch))
	for _, c := range batch {
		if live, ok := m.registry.Lookup(c.Handle()); ok && live == c {
			continue
		}
		if err := m.registry.Register(c); err != nil {
			rtlog.Panicf("apply addition: %v", err)
		}
		added = append(added, c)
	}

	rootHandle := m.root.Handle()
	for _, c := range added {
		b := c.base()
		if b.ParentID.IsNil() {
			b.ParentID = rootHandle
		}
		parent, ok := m.registry.Lookup(b.ParentID)
		if !ok {
			if live, ok := m.registry.Lookup(b.ID); ok && live == c {
				rtlog.Warnf("apply addition: parent %s of %s is not live, dropped", b.ParentID, c)
				m.registry.UnregisterSubtree(c)
			}
			continue
		}
		m.checkAcyclic(c, parent)
		parent.base().attachChild(b.ID)
	}

	for _, c := range added {
		if live, ok := m.registry.Lookup(c.Handle()); !ok || live != c {
			continue
		}
		b := c.base()
		b.manager = m
		m.index.OnComponentAdded(c)
		if consts.DEBUG_MUTATIONS {
			rtlog.Debugf("%s is live under %s, capabilities %s", c, b.ParentID, b.caps)
		}
	}
}

// checkAcyclic panics if linking c under parent would make c its own ancestor
func (m *Manager) checkAcyclic(c Component, parent Component) {
	h := c.Handle()
	cur := parent
	for steps := 0; steps <= m.registry.Len(); steps++ {
		if cur.Handle() == h {
			rtlog.Panicf("apply addition: %s would become its own ancestor", c)
		}
		p := cur.base().ParentID
		if p.IsNil() {
			return
		}
		next, ok := m.registry.Lookup(p)
		if !ok {
			return
		}
		cur = next
	}
	rtlog.Panicf("apply addition: ancestors of %s contain a cycle", parent)
}

func (m *Manager) applyRemovals(batch []Component) {
	for _, c := range batch {
		h := c.Handle()
		if live, ok := m.registry.Lookup(h); !ok || live != c {
			if consts.DEBUG_MUTATIONS {
				rtlog.Debugf("apply removal: %s is not live", c)
			}
			continue
		}
		if c == m.root {
			rtlog.Errorf("apply removal: can not remove root %s", c)
			continue
		}

		if parent, ok := m.registry.Lookup(c.base().ParentID); ok {
			parent.base().detachChild(h)
		}
		for _, removed := range m.registry.UnregisterSubtree(c) {
			m.index.OnComponentRemoved(removed)
			removed.base().manager = nil
			if consts.DEBUG_MUTATIONS {
				rtlog.Debugf("%s is removed", removed)
			}
		}
	}
}

// FindByTag returns live components carrying the tag in ascending handle order
func (m *Manager) FindByTag(tag string) []Component {
	var found []Component
	m.registry.Each(func(c Component) bool {
		if c.base().HasTag(tag) {
			found = append(found, c)
		}
		return true
	})
	return found
}

// Renderables returns the live renderable components
func (m *Manager) Renderables() []Renderable {
	return m.index.Renderables()
}

// MinimapMarkers returns the live minimap markers
func (m *Manager) MinimapMarkers() []MinimapMarker {
	return m.index.MinimapMarkers()
}

// Updateables returns the live updateable components grouped by kind
func (m *Manager) Updateables() []Updateable {
	return m.index.Updateables()
}
