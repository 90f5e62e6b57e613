package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/colonyrt/compworld"
	"github.com/colonyrt/compworld/engine/common"
	"github.com/colonyrt/compworld/engine/entity"
	"github.com/colonyrt/compworld/engine/game"
	"github.com/colonyrt/compworld/engine/geom"
	"github.com/colonyrt/compworld/engine/rtlog"
)

const (
	beaconTag       = "beacon"
	colonistLifeSec = 60
	producerPeriod  = time.Millisecond * 500
)

func init() {
	compworld.RegisterKind("Colonist", &Colonist{})
	compworld.RegisterKind("Beacon", &Beacon{})
}

// Colonist wanders around and dies of hunger
type Colonist struct {
	entity.Base
	Heading  float64       `msgpack:"heading" json:"heading"`
	Speed    float32       `msgpack:"speed" json:"speed"`
	Hunger   float32       `msgpack:"hunger" json:"hunger"`
	BeaconID common.Handle `msgpack:"beacon" json:"beacon"`

	beacon *Beacon
}

// NewColonist creates a colonist carrying a lantern
func NewColonist() (*Colonist, *entity.Body) {
	c := &Colonist{
		Heading: rand.Float64() * 2 * math.Pi,
		Speed:   1 + rand.Float32(),
	}
	entity.InitComponent(c, "colonist")
	lantern := entity.NewBody("lantern")
	lantern.SetPosition(geom.Vector3{Y: 1.5})
	return c, lantern
}

// Update moves the colonist. A starving colonist removes itself and its lantern.
func (c *Colonist) Update(ctx *entity.FrameContext) {
	dt := float32(ctx.DT.Seconds())
	pos := c.Local.Position()
	if c.beacon != nil {
		// walk home
		dir := c.beacon.WorldPosition().Sub(c.WorldPosition())
		c.Heading = math.Atan2(float64(dir.Z), float64(dir.X))
	}
	pos.X += geom.Coord(float32(math.Cos(c.Heading)) * c.Speed * dt)
	pos.Z += geom.Coord(float32(math.Sin(c.Heading)) * c.Speed * dt)
	c.SetPosition(pos)

	c.Hunger += dt
	if c.Hunger >= colonistLifeSec {
		ctx.Manager.RemoveComponent(c)
	}
}

// MinimapPosition implements entity.MinimapMarker
func (c *Colonist) MinimapPosition() geom.Vector3 {
	return c.WorldPosition()
}

// MinimapIcon implements entity.MinimapMarker
func (c *Colonist) MinimapIcon() entity.Icon {
	return entity.Icon{Sprite: "colonist", Scale: 1}
}

// FollowBeacon makes the colonist walk towards the beacon
func (c *Colonist) FollowBeacon(b *Beacon) {
	c.beacon = b
}

// PrepareForSerialization implements entity.PreSerializer
func (c *Colonist) PrepareForSerialization() {
	if c.beacon != nil {
		c.BeaconID = c.beacon.Handle()
	} else {
		c.BeaconID = common.NilHandle
	}
}

// PostSerialization implements entity.PostSerializer
func (c *Colonist) PostSerialization(m *entity.Manager) {
	if c.BeaconID.IsNil() {
		return
	}
	if b, ok := m.Lookup(c.BeaconID); ok {
		c.beacon, _ = b.(*Beacon)
	}
}

// Beacon marks the colony center on the minimap
type Beacon struct {
	entity.Base
}

// MinimapPosition implements entity.MinimapMarker
func (b *Beacon) MinimapPosition() geom.Vector3 {
	return b.WorldPosition()
}

// MinimapIcon implements entity.MinimapMarker
func (b *Beacon) MinimapIcon() entity.Icon {
	return entity.Icon{Sprite: "beacon", Scale: 2}
}

func newColonyRoot() entity.Component {
	return compworld.NewBody("colony")
}

func findBeacon(m *entity.Manager) *Beacon {
	for _, c := range m.FindByTag(beaconTag) {
		if b, ok := c.(*Beacon); ok {
			return b
		}
	}
	return nil
}

// assureBeacon spawns the beacon of a fresh world
func assureBeacon(m *entity.Manager) {
	if findBeacon(m) != nil {
		return
	}
	b := &Beacon{}
	entity.InitComponent(b, "beacon")
	b.AddTag(beaconTag)
	m.Spawn(b, nil)
}

// spawnColonist submits a colonist and its lantern. Safe to call from any goroutine.
func spawnColonist(m *entity.Manager) *Colonist {
	c, lantern := NewColonist()
	m.Spawn(c, nil)
	m.Spawn(lantern, c)
	return c
}

// startProducers starts goroutines which keep submitting colonists while the world runs
func startProducers(svc *game.Service, n int) {
	for i := 0; i < n; i++ {
		go func(producer int) {
			for !svc.IsRunning() {
				time.Sleep(producerPeriod)
			}
			m := svc.Manager()
			if producer == 0 {
				svc.Post(func() {
					assureBeacon(m)
				})
			}
			for svc.IsRunning() {
				c := spawnColonist(m)
				svc.Post(func() {
					if b := findBeacon(m); b != nil && rand.Intn(2) == 0 {
						c.FollowBeacon(b)
					}
				})
				if producer == 0 {
					svc.Post(func() {
						rtlog.Debugf("colony: %d components, %d on minimap", m.Len(), len(m.MinimapMarkers()))
					})
				}
				time.Sleep(producerPeriod)
			}
		}(i)
	}
}
