package game

import (
	"time"

	"github.com/colonyrt/compworld/engine/entity"
	"github.com/colonyrt/compworld/engine/post"
	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/colonyrt/compworld/engine/storage"
	"github.com/pkg/errors"
)

const restorePollInterval = time.Millisecond * 10

// encodeWorld snapshots the world and packs it with the configured packer
func (s *Service) encodeWorld() ([]byte, error) {
	snap := s.manager.Snapshot()
	data, err := entity.EncodeSnapshot(snap, s.packer)
	if err != nil {
		return nil, err
	}
	rtlog.Infof("%s: snapshot of %d components, %d bytes", s, len(snap.Components), len(data))
	return data, nil
}

// freeze saves the world and waits for storage to finish
func (s *Service) freeze() error {
	data, err := s.encodeWorld()
	if err != nil {
		return err
	}
	storage.Save(s.cfg.World.Name, data, nil)
	storage.Flush()
	return nil
}

func (s *Service) autosave() {
	if s.saving {
		rtlog.Warnf("%s: previous autosave is not finished, skipped", s)
		return
	}
	data, err := s.encodeWorld()
	if err != nil {
		rtlog.Errorf("%s: autosave failed: %+v", s, err)
		return
	}
	s.saving = true
	storage.Save(s.cfg.World.Name, data, func() {
		s.saving = false
	})
}

// doRestore loads the stored snapshot and replaces the fresh world with it.
// A world without stored snapshot keeps the fresh world.
func (s *Service) doRestore() error {
	done := false
	var data []byte
	var loadErr error
	storage.Load(s.cfg.World.Name, func(d []byte, err error) {
		data, loadErr, done = d, err, true
	})
	for !done {
		time.Sleep(restorePollInterval)
		post.Tick()
	}

	if loadErr != nil {
		return errors.Wrap(loadErr, "load snapshot")
	}
	if data == nil {
		rtlog.Warnf("%s: no snapshot stored, starting a fresh world", s)
		return nil
	}

	snap, err := entity.DecodeSnapshot(data, s.packer)
	if err != nil {
		return err
	}
	m, err := entity.Restore(snap)
	if err != nil {
		return err
	}
	s.manager = m
	rtlog.Infof("%s: restored %d components, max handle %s", s, m.Len(), m.MaxComponentID())
	return nil
}
