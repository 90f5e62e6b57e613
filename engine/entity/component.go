package entity

import (
	"fmt"
	"reflect"
	"time"

	"github.com/colonyrt/compworld/engine/common"
	"github.com/colonyrt/compworld/engine/geom"
)

// Flag is the bitset of per-component switches
type Flag uint8

const (
	// FlagActive components take part in the updateable pass
	FlagActive Flag = 1 << iota
	// FlagVisible components are rendered and selectable
	FlagVisible
	// FlagShouldSerialize components are written into snapshots
	FlagShouldSerialize

	// FlagDefault is the flag set of a newly initialized component
	FlagDefault = FlagActive | FlagVisible | FlagShouldSerialize
)

// Component is the atomic unit of a world.
//
// Concrete components embed Base, which is the only way to satisfy this interface.
type Component interface {
	Handle() common.Handle
	base() *Base
}

// FrameContext is passed to every updateable component in a frame
type FrameContext struct {
	Frame   uint64
	DT      time.Duration
	Camera  *geom.Camera
	Manager *Manager
}

// Updateable components are updated once per frame while active
type Updateable interface {
	Component
	Update(ctx *FrameContext)
}

// Renderable components can be drawn
type Renderable interface {
	Component
	Render(camera *geom.Camera)
}

// Icon describes how a marker is drawn on the minimap
type Icon struct {
	Sprite string
	Scale  float32
}

// MinimapMarker components are shown on the minimap
type MinimapMarker interface {
	Component
	MinimapPosition() geom.Vector3
	MinimapIcon() Icon
}

// PreSerializer is implemented by components that flatten transient state before a snapshot
type PreSerializer interface {
	PrepareForSerialization()
}

// PostSerializer is implemented by components that relink references after a restore.
// It is called once all restored components are resolvable through the manager.
type PostSerializer interface {
	PostSerialization(m *Manager)
}

// Base is the part shared by all components. Exported fields are persisted.
type Base struct {
	ID       common.Handle   `msgpack:"id" json:"id"`
	Name     string          `msgpack:"name" json:"name"`
	ParentID common.Handle   `msgpack:"parent" json:"parent"`
	ChildIDs []common.Handle `msgpack:"children" json:"children"`
	Flags    Flag            `msgpack:"flags" json:"flags"`
	Tags     []string        `msgpack:"tags,omitempty" json:"tags,omitempty"`
	Local    geom.Matrix     `msgpack:"local" json:"local"`

	world   geom.Matrix
	caps    Capability
	manager *Manager
}

// InitComponent assigns a fresh handle if the component has none, names it and resets flags and transform
func InitComponent(c Component, name string) {
	b := c.base()
	if b.ID.IsNil() {
		b.ID = NextHandle()
	}
	if name == "" {
		name = kindOf(c).Name()
	}
	b.Name = name
	b.Flags = FlagDefault
	if b.Local.IsZero() {
		b.Local = geom.Identity()
	}
}

func (b *Base) base() *Base {
	return b
}

// Handle returns the handle of the component
func (b *Base) Handle() common.Handle {
	return b.ID
}

// Parent returns the handle of the owning parent
func (b *Base) Parent() common.Handle {
	return b.ParentID
}

// Children returns the handles of the owned children
func (b *Base) Children() []common.Handle {
	return b.ChildIDs
}

// Manager returns the manager the component is live in, or nil
func (b *Base) Manager() *Manager {
	return b.manager
}

// Capabilities returns the capability set computed when the component became live
func (b *Base) Capabilities() Capability {
	return b.caps
}

// WorldTransform returns the world transform computed by the last propagation
func (b *Base) WorldTransform() geom.Matrix {
	return b.world
}

// WorldPosition returns the world position computed by the last propagation
func (b *Base) WorldPosition() geom.Vector3 {
	return b.world.Position()
}

// SetPosition sets the translation of the local transform
func (b *Base) SetPosition(pos geom.Vector3) {
	b.Local[3] = float32(pos.X)
	b.Local[7] = float32(pos.Y)
	b.Local[11] = float32(pos.Z)
}

// IsFlagSet returns if all bits of f are set
func (b *Base) IsFlagSet(f Flag) bool {
	return b.Flags&f == f
}

// SetFlag sets or clears the bits of f
func (b *Base) SetFlag(f Flag, on bool) {
	if on {
		b.Flags |= f
	} else {
		b.Flags &^= f
	}
}

// IsActive returns if the component takes part in the updateable pass
func (b *Base) IsActive() bool {
	return b.IsFlagSet(FlagActive)
}

// IsVisible returns if the component is visible
func (b *Base) IsVisible() bool {
	return b.IsFlagSet(FlagVisible)
}

// ShouldSerialize returns if the component is written into snapshots
func (b *Base) ShouldSerialize() bool {
	return b.IsFlagSet(FlagShouldSerialize)
}

// HasTag returns if the component carries the tag
func (b *Base) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag adds a tag to the component
func (b *Base) AddTag(tag string) {
	if !b.HasTag(tag) {
		b.Tags = append(b.Tags, tag)
	}
}

func (b *Base) String() string {
	return fmt.Sprintf("%s<%s>", b.Name, b.ID)
}

func (b *Base) hasChild(h common.Handle) bool {
	for _, ch := range b.ChildIDs {
		if ch == h {
			return true
		}
	}
	return false
}

func (b *Base) attachChild(h common.Handle) {
	if !b.hasChild(h) {
		b.ChildIDs = append(b.ChildIDs, h)
	}
}

func (b *Base) detachChild(h common.Handle) {
	for i, ch := range b.ChildIDs {
		if ch == h {
			b.ChildIDs = append(b.ChildIDs[:i], b.ChildIDs[i+1:]...)
			return
		}
	}
}

// Body is a pure transform node, used as the world root and to group components
type Body struct {
	Base
}

// NewBody creates an initialized Body
func NewBody(name string) *Body {
	body := &Body{}
	InitComponent(body, name)
	return body
}

func kindOf(c Component) reflect.Type {
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
