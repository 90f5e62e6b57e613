package main

import (
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/colonyrt/compworld/engine/codec"
	"github.com/colonyrt/compworld/engine/entity"
)

func TestColonistLifecycle(t *testing.T) {
	m := entity.NewManager(newColonyRoot())
	assureBeacon(m)
	m.Update(&entity.FrameContext{})
	beacon := findBeacon(m)
	assert.T(t, beacon != nil)

	c := spawnColonist(m)
	m.Update(&entity.FrameContext{})
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, 2, len(m.MinimapMarkers()))
	c.FollowBeacon(beacon)

	m.Update(&entity.FrameContext{DT: time.Second})
	assert.T(t, c.Hunger > 0)

	c.Hunger = colonistLifeSec
	m.Update(&entity.FrameContext{DT: time.Second})
	_, ok := m.Lookup(c.Handle())
	assert.T(t, !ok)
	assert.Equal(t, 2, m.Len())
}

func TestColonistRelinksBeacon(t *testing.T) {
	m := entity.NewManager(newColonyRoot())
	assureBeacon(m)
	m.Update(&entity.FrameContext{})
	c := spawnColonist(m)
	m.Update(&entity.FrameContext{})
	c.FollowBeacon(findBeacon(m))

	packer := codec.MessagePackMsgPacker{}
	data, err := entity.EncodeSnapshot(m.Snapshot(), packer)
	assert.Equal(t, nil, err)
	snap, err := entity.DecodeSnapshot(data, packer)
	assert.Equal(t, nil, err)
	restored, err := entity.Restore(snap)
	assert.Equal(t, nil, err)

	rc, ok := restored.Lookup(c.Handle())
	assert.T(t, ok)
	colonist := rc.(*Colonist)
	assert.T(t, colonist.beacon != nil)
	assert.T(t, colonist.beacon == findBeacon(restored))
	assert.Equal(t, c.Speed, colonist.Speed)
}
