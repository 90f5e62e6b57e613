package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/colonyrt/compworld/engine/config"
	"github.com/colonyrt/compworld/engine/entity"
)

type counter struct {
	entity.Base
	Ticks int `msgpack:"ticks" json:"ticks"`
}

func (c *counter) Update(ctx *entity.FrameContext) {
	c.Ticks++
}

func init() {
	entity.RegisterKind("game.counter", &counter{})
}

func testConfig(t *testing.T, dir string, restore bool, format string) *config.CompWorldConfig {
	cfg, err := config.LoadBytes([]byte(fmt.Sprintf(
		"[world]\nname=test\nframe_interval_ms=1\nsave_interval=0\nrestore=%v\nsnapshot_format=%s\n[storage]\ntype=filesystem\ndirectory=%s\n",
		restore, format, dir)))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newRoot() entity.Component {
	return entity.NewBody("root")
}

// waitOnFrame blocks until cond holds when checked on the frame goroutine
func waitOnFrame(svc *Service, cond func() bool) {
	done := make(chan struct{})
	var check func()
	check = func() {
		if cond() {
			close(done)
			return
		}
		go func() {
			time.Sleep(time.Millisecond)
			svc.Post(check)
		}()
	}
	svc.Post(check)
	<-done
}

func waitRunning(svc *Service) {
	for !svc.IsRunning() {
		time.Sleep(time.Millisecond)
	}
}

func testFreezeAndRestore(t *testing.T, format string) {
	dir := t.TempDir()
	svc, err := NewService(testConfig(t, dir, false, format), newRoot)
	assert.Equal(t, nil, err)

	c := &counter{}
	entity.InitComponent(c, "counter")
	c.AddTag("counter")
	svc.Manager().AddComponent(c)

	errc := make(chan error, 1)
	go func() {
		errc <- svc.Run()
	}()
	waitRunning(svc)
	waitOnFrame(svc, func() bool {
		return c.Ticks >= 2
	})
	svc.Terminate()
	svc.WaitTerminated()
	assert.Equal(t, nil, <-errc)
	frozenTicks := c.Ticks

	restored, err := NewService(testConfig(t, dir, true, format), newRoot)
	assert.Equal(t, nil, err)
	go func() {
		errc <- restored.Run()
	}()
	waitRunning(restored)

	var found []entity.Component
	waitOnFrame(restored, func() bool {
		found = restored.Manager().FindByTag("counter")
		return true
	})
	restored.Terminate()
	restored.WaitTerminated()
	assert.Equal(t, nil, <-errc)

	assert.Equal(t, 1, len(found))
	assert.Equal(t, c.Handle(), found[0].Handle())
	assert.T(t, found[0].(*counter).Ticks >= frozenTicks)
	assert.T(t, entity.NextHandle() > c.Handle())
}

func TestFreezeAndRestoreMessagePack(t *testing.T) {
	testFreezeAndRestore(t, "msgpack")
}

func TestFreezeAndRestoreJSON(t *testing.T) {
	testFreezeAndRestore(t, "json")
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	svc, err := NewService(testConfig(t, t.TempDir(), true, "msgpack"), newRoot)
	assert.Equal(t, nil, err)
	root := svc.Manager().Root()

	errc := make(chan error, 1)
	go func() {
		errc <- svc.Run()
	}()
	waitRunning(svc)
	svc.Terminate()
	svc.WaitTerminated()
	assert.Equal(t, nil, <-errc)
	assert.Equal(t, root, svc.Manager().Root())
}

func TestTerminateBeforeRunning(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(testConfig(t, dir, true, "msgpack"), newRoot)
	assert.Equal(t, nil, err)
	c := &counter{}
	entity.InitComponent(c, "counter")
	c.AddTag("counter")
	svc.Manager().AddComponent(c)
	svc.Manager().Update(&entity.FrameContext{})
	svc.Terminate()

	errc := make(chan error, 1)
	go func() {
		errc <- svc.Run()
	}()
	select {
	case err = <-errc:
		assert.Equal(t, nil, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Terminate")
	}
	svc.WaitTerminated()
	assert.T(t, !svc.IsRunning())

	// the world is still saved
	restored, err := NewService(testConfig(t, dir, true, "msgpack"), newRoot)
	assert.Equal(t, nil, err)
	go func() {
		errc <- restored.Run()
	}()
	waitRunning(restored)
	var found []entity.Component
	waitOnFrame(restored, func() bool {
		found = restored.Manager().FindByTag("counter")
		return true
	})
	restored.Terminate()
	restored.WaitTerminated()
	assert.Equal(t, nil, <-errc)
	assert.Equal(t, 1, len(found))
}

func TestNewServiceUnknownFormat(t *testing.T) {
	cfg := testConfig(t, t.TempDir(), false, "msgpack")
	cfg.World.SnapshotFormat = "xml"
	_, err := NewService(cfg, newRoot)
	assert.T(t, err != nil)
}
