package entity

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/colonyrt/compworld/engine/common"
	"github.com/pkg/errors"
)

func bodyWithHandle(h common.Handle) *Body {
	b := &Body{}
	b.ID = h
	InitComponent(b, "")
	return b
}

func TestRegisterSameInstance(t *testing.T) {
	reg := NewRegistry()
	b := bodyWithHandle(NextHandle())
	assert.Equal(t, nil, reg.Register(b))
	assert.Equal(t, nil, reg.Register(b))
	assert.Equal(t, 1, reg.Len())
}

func TestRegisterCollision(t *testing.T) {
	reg := NewRegistry()
	h := NextHandle()
	assert.Equal(t, nil, reg.Register(bodyWithHandle(h)))

	err := reg.Register(bodyWithHandle(h))
	assert.T(t, err != nil)
	assert.Equal(t, ErrHandleCollision, errors.Cause(err))
	assert.Equal(t, 1, reg.Len())
}

func TestRegisterNilHandle(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(&Body{})
	assert.Equal(t, ErrNilHandle, errors.Cause(err))
}

func TestMaxHandleInUse(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, common.NilHandle, reg.MaxHandleInUse())

	comps := map[common.Handle]*Body{}
	for _, h := range []common.Handle{3, 7, 2} {
		comps[h] = bodyWithHandle(h)
		assert.Equal(t, nil, reg.Register(comps[h]))
	}
	assert.Equal(t, common.Handle(7), reg.MaxHandleInUse())

	reg.UnregisterSubtree(comps[7])
	assert.Equal(t, common.Handle(3), reg.MaxHandleInUse())
}

func TestUnregisterSubtree(t *testing.T) {
	reg := NewRegistry()
	a, b, c, d := bodyWithHandle(10), bodyWithHandle(11), bodyWithHandle(12), bodyWithHandle(13)
	a.ChildIDs = []common.Handle{11, 13}
	b.ChildIDs = []common.Handle{12, 99}
	for _, x := range []*Body{a, b, c, d} {
		assert.Equal(t, nil, reg.Register(x))
	}

	removed := reg.UnregisterSubtree(a)
	assert.Equal(t, 4, len(removed))
	assert.Equal(t, Component(a), removed[0])
	assert.Equal(t, Component(b), removed[1])
	assert.Equal(t, Component(c), removed[2])
	assert.Equal(t, Component(d), removed[3])
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, common.NilHandle, reg.MaxHandleInUse())
}

func TestUnregisterKeepsOtherInstance(t *testing.T) {
	reg := NewRegistry()
	live := bodyWithHandle(20)
	assert.Equal(t, nil, reg.Register(live))

	assert.T(t, !reg.Unregister(bodyWithHandle(20)))
	_, ok := reg.Lookup(20)
	assert.T(t, ok)
}

func TestRegistryEachAscending(t *testing.T) {
	reg := NewRegistry()
	for _, h := range []common.Handle{50, 30, 40, 10} {
		assert.Equal(t, nil, reg.Register(bodyWithHandle(h)))
	}
	var seen []common.Handle
	reg.Each(func(c Component) bool {
		seen = append(seen, c.Handle())
		return len(seen) < 3
	})
	assert.Equal(t, []common.Handle{10, 30, 40}, seen)
	assert.Equal(t, 4, len(reg.All()))
}
