package entity

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/colonyrt/compworld/engine/common"
	"github.com/colonyrt/compworld/engine/geom"
)

type fakeSelectionBuffer struct {
	handles []common.Handle
	rect    geom.Rect
	camera  *geom.Camera
}

func (buf *fakeSelectionBuffer) IDsSelected(rect geom.Rect) []common.Handle {
	buf.rect = rect
	return buf.handles
}

type fakeCameraSelectionBuffer struct {
	fakeSelectionBuffer
}

func (buf *fakeCameraSelectionBuffer) IDsSelectedByCamera(rect geom.Rect, camera *geom.Camera) []common.Handle {
	buf.camera = camera
	return buf.IDsSelected(rect)
}

func buildSelectionWorld() (m *Manager, a, a2, a3, b, hidden *Body) {
	m = newTestWorld()
	a, a2, a3 = NewBody("a"), NewBody("a2"), NewBody("a3")
	b = NewBody("b")
	hidden = NewBody("hidden")
	hidden.SetFlag(FlagVisible, false)
	m.Spawn(a, nil)
	m.Spawn(a2, a)
	m.Spawn(a3, a2)
	m.Spawn(b, nil)
	m.Spawn(hidden, nil)
	m.drain()
	return
}

func TestSelectRootsOnScreen(t *testing.T) {
	m, a, a2, a3, b, hidden := buildSelectionWorld()
	rect := geom.Rect{X: 10, Y: 10, Width: 100, Height: 50}
	buf := &fakeSelectionBuffer{handles: []common.Handle{a3.ID, b.ID, a.ID, a2.ID, NextHandle(), hidden.ID}}
	m.SetSelectionBuffer(buf)

	roots := m.SelectRootsOnScreen(rect, nil)
	assert.Equal(t, 2, len(roots))
	assert.Equal(t, Component(a), roots[0])
	assert.Equal(t, Component(b), roots[1])
	assert.Equal(t, rect, buf.rect)
	assert.Equal(t, 6, m.Len())
}

func TestSelectRootsWithCamera(t *testing.T) {
	m, _, a2, _, _, _ := buildSelectionWorld()
	camera := &geom.Camera{View: geom.Identity()}
	buf := &fakeCameraSelectionBuffer{fakeSelectionBuffer{handles: []common.Handle{a2.ID}}}
	m.SetSelectionBuffer(buf)

	roots := m.SelectRootsOnScreen(geom.Rect{Width: 1, Height: 1}, camera)
	assert.Equal(t, 1, len(roots))
	assert.Equal(t, a2.ParentID, roots[0].Handle())
	assert.T(t, buf.camera == camera)
}

func TestSelectRootsWorldRoot(t *testing.T) {
	m, _, _, _, _, _ := buildSelectionWorld()
	m.SetSelectionBuffer(&fakeSelectionBuffer{handles: []common.Handle{m.Root().Handle()}})
	roots := m.SelectRootsOnScreen(geom.Rect{Width: 1, Height: 1}, nil)
	assert.Equal(t, 1, len(roots))
	assert.Equal(t, m.Root(), roots[0])
}

func TestSelectRootsWithoutBuffer(t *testing.T) {
	m, _, _, _, _, _ := buildSelectionWorld()
	assert.Equal(t, 0, len(m.SelectRootsOnScreen(geom.Rect{Width: 10, Height: 10}, nil)))
}
