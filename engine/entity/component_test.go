package entity

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/colonyrt/compworld/engine/common"
	"github.com/colonyrt/compworld/engine/geom"
)

type testUnit struct {
	Base
	HP      int           `msgpack:"hp" json:"hp"`
	Target  common.Handle `msgpack:"target" json:"target"`
	updates int
}

func (u *testUnit) Update(ctx *FrameContext) {
	u.updates++
}

func (u *testUnit) Render(camera *geom.Camera) {}

func (u *testUnit) MinimapPosition() geom.Vector3 {
	return u.WorldPosition()
}

func (u *testUnit) MinimapIcon() Icon {
	return Icon{Sprite: "unit", Scale: 1}
}

type testMover struct {
	Base
	Speed   float32 `msgpack:"speed" json:"speed"`
	updates int
}

func (mv *testMover) Update(ctx *FrameContext) {
	mv.updates++
}

// testSpawner spawns one testUnit under itself during its first update
type testSpawner struct {
	Base
	spawned *testUnit
}

func (sp *testSpawner) Update(ctx *FrameContext) {
	if sp.spawned == nil {
		sp.spawned = newTestUnit("spawned")
		ctx.Manager.Spawn(sp.spawned, sp)
	}
}

// testKiller removes its victim during its update
type testKiller struct {
	Base
	victim Component
}

func (k *testKiller) Update(ctx *FrameContext) {
	if k.victim != nil {
		ctx.Manager.RemoveComponent(k.victim)
		k.victim = nil
	}
}

// testLinker finds its buddy by tag after restore
type testLinker struct {
	Base
	BuddyTag string `msgpack:"buddy_tag" json:"buddy_tag"`
	prepared int
	buddy    Component
}

func (l *testLinker) PrepareForSerialization() {
	l.prepared++
}

func (l *testLinker) PostSerialization(m *Manager) {
	if found := m.FindByTag(l.BuddyTag); len(found) > 0 {
		l.buddy = found[0]
	}
}

func init() {
	RegisterKind("testUnit", &testUnit{})
	RegisterKind("testMover", &testMover{})
	RegisterKind("testLinker", &testLinker{})
}

func newTestUnit(name string) *testUnit {
	u := &testUnit{HP: 100}
	InitComponent(u, name)
	return u
}

func newTestMover(name string) *testMover {
	mv := &testMover{Speed: 1.5}
	InitComponent(mv, name)
	return mv
}

// structureOf describes the parent/child edges of every live component
func structureOf(m *Manager) map[common.Handle]string {
	s := map[common.Handle]string{}
	m.Registry().Each(func(c Component) bool {
		b := c.base()
		var children []string
		for _, ch := range b.ChildIDs {
			children = append(children, ch.String())
		}
		s[b.ID] = fmt.Sprintf("%s parent=%s children=%s", b.Name, b.ParentID, strings.Join(children, ","))
		return true
	})
	return s
}

func sortedHandles(handles []common.Handle) []common.Handle {
	sorted := append([]common.Handle(nil), handles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

func TestInitComponent(t *testing.T) {
	u := &testUnit{}
	InitComponent(u, "")
	assert.T(t, !u.Handle().IsNil())
	assert.Equal(t, "testUnit", u.Name)
	assert.T(t, u.IsActive() && u.IsVisible() && u.ShouldSerialize())
	assert.Equal(t, geom.Identity(), u.Local)

	h := u.Handle()
	InitComponent(u, "renamed")
	assert.Equal(t, h, u.Handle())
	assert.Equal(t, "renamed", u.Name)
}

func TestFlags(t *testing.T) {
	b := NewBody("flags")
	b.SetFlag(FlagVisible, false)
	assert.T(t, b.IsActive())
	assert.T(t, !b.IsVisible())
	assert.T(t, !b.IsFlagSet(FlagActive|FlagVisible))
	b.SetFlag(FlagVisible, true)
	assert.T(t, b.IsFlagSet(FlagDefault))
}

func TestTags(t *testing.T) {
	b := NewBody("tags")
	b.AddTag("snake")
	b.AddTag("snake")
	assert.Equal(t, 1, len(b.Tags))
	assert.T(t, b.HasTag("snake"))
	assert.T(t, !b.HasTag("tail"))
}

func TestHandleAllocator(t *testing.T) {
	h1 := NextHandle()
	h2 := NextHandle()
	assert.T(t, h2 > h1)

	SeedHandles(h2 + 1000)
	assert.Equal(t, h2+1001, NextHandle())

	SeedHandles(1)
	assert.T(t, NextHandle() > h2+1001)
}

func TestCapabilitiesOf(t *testing.T) {
	assert.Equal(t, CapUpdateable|CapRenderable|CapMinimapMarker, CapabilitiesOf(newTestUnit("u")))
	assert.Equal(t, CapUpdateable, CapabilitiesOf(newTestMover("m")))
	assert.Equal(t, Capability(0), CapabilitiesOf(NewBody("b")))
	assert.Equal(t, "[updateable,renderable]", (CapUpdateable | CapRenderable).String())
}
