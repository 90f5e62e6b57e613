package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/colonyrt/compworld/engine/codec"
	"github.com/colonyrt/compworld/engine/config"
	"github.com/colonyrt/compworld/engine/entity"
	"github.com/colonyrt/compworld/engine/geom"
	"github.com/colonyrt/compworld/engine/opmon"
	"github.com/colonyrt/compworld/engine/post"
	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/colonyrt/compworld/engine/storage"
	"github.com/pkg/errors"
	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"
	timer "github.com/xiaonanln/goTimer"
)

const (
	rsNotRunning = iota
	rsRunning
	rsTerminating
	rsTerminated
)

// RootFactory creates the root component of a fresh world
type RootFactory func() entity.Component

// Service runs one world on the frame goroutine
type Service struct {
	cfg         *config.CompWorldConfig
	packer      codec.MsgPacker
	rootFactory RootFactory
	manager     *entity.Manager
	camera      *geom.Camera
	runState    xnsyncutil.AtomicInt
	stateLock   sync.Mutex
	terminated  *xnsyncutil.OneTimeCond
	lastFrame   time.Time
	saving      bool
}

// NewService creates the service of the configured world
func NewService(cfg *config.CompWorldConfig, rootFactory RootFactory) (*Service, error) {
	packer, err := codec.ByName(cfg.World.SnapshotFormat)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:         cfg,
		packer:      packer,
		rootFactory: rootFactory,
		manager:     entity.NewManager(rootFactory()),
		terminated:  xnsyncutil.NewOneTimeCond(),
	}, nil
}

func (s *Service) String() string {
	return fmt.Sprintf("Service<%s>", s.cfg.World.Name)
}

// Manager returns the manager of the world. It changes once when the world is restored at boot.
func (s *Service) Manager() *entity.Manager {
	return s.manager
}

// SetCamera sets the camera passed to updateables in every frame
func (s *Service) SetCamera(camera *geom.Camera) {
	s.camera = camera
}

// Post runs f on the frame goroutine after the current frame
func (s *Service) Post(f post.PostCallback) {
	post.Post(f)
}

// IsRunning returns if the frame loop is running
func (s *Service) IsRunning() bool {
	return s.runState.Load() == rsRunning
}

// Run starts storage, restores the world if configured and runs frames until Terminate is called.
// The world is saved before Run returns.
func (s *Service) Run() error {
	if err := storage.Initialize(&s.cfg.Storage); err != nil {
		s.runState.Store(rsTerminated)
		s.terminated.Signal()
		return err
	}

	if s.cfg.World.Restore {
		if err := s.doRestore(); err != nil {
			storage.Shutdown()
			s.runState.Store(rsTerminated)
			s.terminated.Signal()
			return errors.WithMessagef(err, "restore world %s", s.cfg.World.Name)
		}
	}

	if !s.setRunning() {
		rtlog.Infof("%s: terminated before running", s)
		s.doTerminate()
		return nil
	}

	var autosaveTimer *timer.Timer
	if s.cfg.World.SaveInterval > 0 {
		autosaveTimer = timer.AddTimer(s.cfg.World.SaveInterval, s.autosave)
	}

	rtlog.Infof("%s: running, frame interval %s, %d components", s, s.cfg.World.FrameInterval, s.manager.Len())
	ticker := time.NewTicker(s.cfg.World.FrameInterval)
	defer ticker.Stop()
	s.lastFrame = time.Now()

	// here begins the main loop of the world
	for range ticker.C {
		if s.runState.Load() == rsTerminating {
			break
		}
		timer.Tick()
		s.frame()
		// after updating the world, run the posted functions
		post.Tick()
	}

	if autosaveTimer != nil {
		autosaveTimer.Cancel()
	}
	s.doTerminate()
	return nil
}

// setRunning switches to running unless Terminate came first
func (s *Service) setRunning() bool {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	if s.runState.Load() == rsTerminating {
		return false
	}
	s.runState.Store(rsRunning)
	return true
}

func (s *Service) frame() {
	now := time.Now()
	ctx := &entity.FrameContext{
		DT:     now.Sub(s.lastFrame),
		Camera: s.camera,
	}
	s.lastFrame = now
	s.manager.Update(ctx)
}

// Terminate makes the frame loop save the world and quit. It can be called from any goroutine.
func (s *Service) Terminate() {
	s.stateLock.Lock()
	if s.runState.Load() != rsTerminated {
		s.runState.Store(rsTerminating)
	}
	s.stateLock.Unlock()
}

// WaitTerminated blocks until the world is saved after Terminate
func (s *Service) WaitTerminated() {
	s.terminated.Wait()
}

func (s *Service) doTerminate() {
	// run posts left by the last frame
	post.Tick()

	if err := s.freeze(); err != nil {
		rtlog.Errorf("%s: save on terminate failed: %+v", s, err)
	}
	storage.Shutdown()
	post.Tick()

	opmon.Dump()
	rtlog.Infof("%s: world saved, service terminated.", s)
	s.runState.Store(rsTerminated)
	s.terminated.Signal()
}
