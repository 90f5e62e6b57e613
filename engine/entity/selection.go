package entity

import (
	"github.com/colonyrt/compworld/engine/common"
	"github.com/colonyrt/compworld/engine/geom"
)

// SelectionBuffer is the spatial picking collaborator.
// It may return handles that are no longer live.
type SelectionBuffer interface {
	IDsSelected(rect geom.Rect) []common.Handle
}

// CameraSelectionBuffer is implemented by picking buffers that depend on the camera
type CameraSelectionBuffer interface {
	SelectionBuffer
	IDsSelectedByCamera(rect geom.Rect, camera *geom.Camera) []common.Handle
}

// SetSelectionBuffer sets the picking collaborator used by SelectRootsOnScreen
func (m *Manager) SetSelectionBuffer(buf SelectionBuffer) {
	m.selection = buf
}

// EntityRoot returns the ancestor of c directly under the world root, or the world root itself
func (m *Manager) EntityRoot(c Component) Component {
	rootHandle := m.root.Handle()
	cur := c
	for steps := 0; steps <= m.registry.Len(); steps++ {
		p := cur.base().ParentID
		if cur.Handle() == rootHandle || p.IsNil() || p == rootHandle {
			return cur
		}
		parent, ok := m.registry.Lookup(p)
		if !ok {
			return cur
		}
		cur = parent
	}
	return cur
}

// SelectRootsOnScreen returns the distinct entity roots of the visible components picked in rect,
// in the order they were first picked
func (m *Manager) SelectRootsOnScreen(rect geom.Rect, camera *geom.Camera) []Component {
	if m.selection == nil {
		return nil
	}

	var handles []common.Handle
	if cb, ok := m.selection.(CameraSelectionBuffer); ok && camera != nil {
		handles = cb.IDsSelectedByCamera(rect, camera)
	} else {
		handles = m.selection.IDsSelected(rect)
	}

	var roots []Component
	seen := common.HandleSet{}
	for _, h := range handles {
		c, ok := m.registry.Lookup(h)
		if !ok || !c.base().IsVisible() {
			continue
		}
		root := m.EntityRoot(c)
		if seen.Contains(root.Handle()) {
			continue
		}
		seen.Add(root.Handle())
		roots = append(roots, root)
	}
	return roots
}
