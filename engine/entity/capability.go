package entity

import (
	"reflect"
	"strings"

	"github.com/colonyrt/compworld/engine/common"
)

// Capability is the set of behavioral traits of a component
type Capability uint8

const (
	// CapUpdateable components implement Updateable
	CapUpdateable Capability = 1 << iota
	// CapRenderable components implement Renderable
	CapRenderable
	// CapMinimapMarker components implement MinimapMarker
	CapMinimapMarker
)

func (caps Capability) String() string {
	var names []string
	if caps&CapUpdateable != 0 {
		names = append(names, "updateable")
	}
	if caps&CapRenderable != 0 {
		names = append(names, "renderable")
	}
	if caps&CapMinimapMarker != 0 {
		names = append(names, "minimap-marker")
	}
	return "[" + strings.Join(names, ",") + "]"
}

// CapabilitiesOf tests which capabilities the component implements
func CapabilitiesOf(c Component) (caps Capability) {
	if _, ok := c.(Updateable); ok {
		caps |= CapUpdateable
	}
	if _, ok := c.(Renderable); ok {
		caps |= CapRenderable
	}
	if _, ok := c.(MinimapMarker); ok {
		caps |= CapMinimapMarker
	}
	return
}

// componentList is an unordered list of components supporting O(1) removal by handle
type componentList[T Component] struct {
	items []T
	pos   map[common.Handle]int
}

func newComponentList[T Component]() *componentList[T] {
	return &componentList[T]{pos: map[common.Handle]int{}}
}

func (l *componentList[T]) add(c T) {
	h := c.Handle()
	if _, ok := l.pos[h]; ok {
		return
	}
	l.pos[h] = len(l.items)
	l.items = append(l.items, c)
}

func (l *componentList[T]) remove(h common.Handle) {
	i, ok := l.pos[h]
	if !ok {
		return
	}
	last := len(l.items) - 1
	if i != last {
		moved := l.items[last]
		l.items[i] = moved
		l.pos[moved.Handle()] = i
	}
	var zero T
	l.items[last] = zero
	l.items = l.items[:last]
	delete(l.pos, h)
}

// CapabilityIndex keeps per-capability views of live components.
// Updateables are partitioned by concrete kind.
type CapabilityIndex struct {
	caps        map[common.Handle]Capability
	kinds       []reflect.Type
	kindOfH     map[common.Handle]reflect.Type
	updateables map[reflect.Type]*componentList[Updateable]
	renderables *componentList[Renderable]
	markers     *componentList[MinimapMarker]
}

// NewCapabilityIndex creates an empty CapabilityIndex
func NewCapabilityIndex() *CapabilityIndex {
	return &CapabilityIndex{
		caps:        map[common.Handle]Capability{},
		kindOfH:     map[common.Handle]reflect.Type{},
		updateables: map[reflect.Type]*componentList[Updateable]{},
		renderables: newComponentList[Renderable](),
		markers:     newComponentList[MinimapMarker](),
	}
}

// OnComponentAdded inserts the component into every view it qualifies for
func (ix *CapabilityIndex) OnComponentAdded(c Component) {
	h := c.Handle()
	if _, ok := ix.caps[h]; ok {
		return
	}

	caps := CapabilitiesOf(c)
	ix.caps[h] = caps
	c.base().caps = caps

	if u, ok := c.(Updateable); ok {
		kind := kindOf(c)
		list := ix.updateables[kind]
		if list == nil {
			list = newComponentList[Updateable]()
			ix.updateables[kind] = list
			ix.kinds = append(ix.kinds, kind)
		}
		list.add(u)
		ix.kindOfH[h] = kind
	}
	if r, ok := c.(Renderable); ok {
		ix.renderables.add(r)
	}
	if m, ok := c.(MinimapMarker); ok {
		ix.markers.add(m)
	}
}

// OnComponentRemoved removes the component from all views
func (ix *CapabilityIndex) OnComponentRemoved(c Component) {
	h := c.Handle()
	caps, ok := ix.caps[h]
	if !ok {
		return
	}
	delete(ix.caps, h)

	if caps&CapUpdateable != 0 {
		kind := ix.kindOfH[h]
		delete(ix.kindOfH, h)
		ix.updateables[kind].remove(h)
	}
	if caps&CapRenderable != 0 {
		ix.renderables.remove(h)
	}
	if caps&CapMinimapMarker != 0 {
		ix.markers.remove(h)
	}
}

// Has returns if the component of the handle is indexed with all capabilities in caps
func (ix *CapabilityIndex) Has(h common.Handle, caps Capability) bool {
	c, ok := ix.caps[h]
	return ok && c&caps == caps
}

// Len returns the number of indexed components
func (ix *CapabilityIndex) Len() int {
	return len(ix.caps)
}

// EachUpdateableKind calls cb for every kind of updateables in first-seen order
func (ix *CapabilityIndex) EachUpdateableKind(cb func(kind reflect.Type, items []Updateable)) {
	for _, kind := range ix.kinds {
		if list := ix.updateables[kind]; len(list.items) > 0 {
			cb(kind, list.items)
		}
	}
}

// UpdateablesOfKind returns the updateables of one concrete kind
func (ix *CapabilityIndex) UpdateablesOfKind(kind reflect.Type) []Updateable {
	if kind.Kind() == reflect.Ptr {
		kind = kind.Elem()
	}
	if list := ix.updateables[kind]; list != nil {
		return list.items
	}
	return nil
}

// Updateables returns all updateables grouped by kind
func (ix *CapabilityIndex) Updateables() []Updateable {
	var all []Updateable
	ix.EachUpdateableKind(func(kind reflect.Type, items []Updateable) {
		all = append(all, items...)
	})
	return all
}

// Renderables returns the renderable view
func (ix *CapabilityIndex) Renderables() []Renderable {
	return ix.renderables.items
}

// MinimapMarkers returns the minimap-marker view
func (ix *CapabilityIndex) MinimapMarkers() []MinimapMarker {
	return ix.markers.items
}
