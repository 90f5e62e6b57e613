package snapshotstoragefilesystem

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/colonyrt/compworld/engine/consts"
	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/colonyrt/compworld/engine/storage/storage_common"
	"github.com/pkg/errors"
)

const _FILE_PREFIX = "world$"

type fileSystemSnapshotStorage struct {
	directory string
}

// OpenDirectory opens the directory as snapshot storage, creating it if necessary
func OpenDirectory(directory string) (storagecommon.SnapshotStorage, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, errors.Wrap(err, "create snapshot directory")
	}

	return &fileSystemSnapshotStorage{
		directory: directory,
	}, nil
}

func getFileName(world string) string {
	return _FILE_PREFIX + base64.URLEncoding.EncodeToString([]byte(world))
}

func (ss *fileSystemSnapshotStorage) getFilePath(world string) string {
	return filepath.Join(ss.directory, getFileName(world))
}

func (ss *fileSystemSnapshotStorage) Write(world string, data []byte) error {
	saveFile := ss.getFilePath(world)
	if consts.DEBUG_SAVE_LOAD {
		rtlog.Debugf("Saving to file %s: %d bytes", saveFile, len(data))
	}

	// a crash must never leave a partial snapshot behind
	tmpFile := saveFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, saveFile)
}

func (ss *fileSystemSnapshotStorage) Read(world string) ([]byte, error) {
	data, err := os.ReadFile(ss.getFilePath(world))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (ss *fileSystemSnapshotStorage) Exists(world string) (bool, error) {
	_, err := os.Stat(ss.getFilePath(world))
	if err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (ss *fileSystemSnapshotStorage) List() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(ss.directory, _FILE_PREFIX+"*"))
	if err != nil {
		return nil, err
	}
	worlds := make([]string, 0, len(files))
	for _, fpath := range files {
		_, fn := filepath.Split(fpath)
		if strings.HasSuffix(fn, ".tmp") {
			continue
		}
		name, err := base64.URLEncoding.DecodeString(fn[len(_FILE_PREFIX):])
		if err != nil {
			rtlog.TraceError("fail to parse file %s", fpath)
			continue
		}
		worlds = append(worlds, string(name))
	}
	return worlds, nil
}

func (ss *fileSystemSnapshotStorage) Close() {
	// need to do nothing
}

func (ss *fileSystemSnapshotStorage) IsEOF(err error) bool {
	return false
}
