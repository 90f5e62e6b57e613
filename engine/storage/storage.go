package storage

import (
	"strconv"
	"time"

	"github.com/colonyrt/compworld/engine/config"
	"github.com/colonyrt/compworld/engine/consts"
	"github.com/colonyrt/compworld/engine/opmon"
	"github.com/colonyrt/compworld/engine/post"
	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/colonyrt/compworld/engine/storage/backend/filesystem"
	"github.com/colonyrt/compworld/engine/storage/backend/mongodb"
	"github.com/colonyrt/compworld/engine/storage/backend/redis"
	"github.com/colonyrt/compworld/engine/storage/backend/redis_cluster"
	"github.com/colonyrt/compworld/engine/storage/storage_common"
	"github.com/pkg/errors"
	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"
)

var (
	storageConfig            *config.StorageConfig
	storageEngine            storagecommon.SnapshotStorage
	operationQueue           *xnsyncutil.SyncQueue
	storageRoutineTerminated *xnsyncutil.OneTimeCond
)

type saveRequest struct {
	World    string
	Data     []byte
	Callback SaveCallbackFunc
}

type loadRequest struct {
	World    string
	Callback LoadCallbackFunc
}

type existsRequest struct {
	World    string
	Callback ExistsCallbackFunc
}

type listRequest struct {
	Callback ListCallbackFunc
}

type flushRequest struct {
	done *xnsyncutil.OneTimeCond
}

// SaveCallbackFunc is the callback type of storage Save
type SaveCallbackFunc func()

// LoadCallbackFunc is the callback type of storage Load. data is nil if the world has no snapshot.
type LoadCallbackFunc func(data []byte, err error)

// ExistsCallbackFunc is the callback type of storage Exists
type ExistsCallbackFunc func(exists bool, err error)

// ListCallbackFunc is the callback type of storage List
type ListCallbackFunc func(worlds []string, err error)

// Save saves the encoded snapshot of the world. Failed saves are retried until they succeed.
func Save(world string, data []byte, callback SaveCallbackFunc) {
	operationQueue.Push(saveRequest{
		World:    world,
		Data:     data,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// Load loads the encoded snapshot of the world
func Load(world string, callback LoadCallbackFunc) {
	operationQueue.Push(loadRequest{
		World:    world,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// Exists checks if the world has a stored snapshot
func Exists(world string, callback ExistsCallbackFunc) {
	operationQueue.Push(existsRequest{
		World:    world,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// List returns the names of all worlds with stored snapshots
func List(callback ListCallbackFunc) {
	operationQueue.Push(listRequest{
		Callback: callback,
	})
	checkOperationQueueLen()
}

// Flush blocks until all operations queued before it are processed.
// Callbacks of those operations are posted, not necessarily run.
func Flush() {
	done := xnsyncutil.NewOneTimeCond()
	operationQueue.Push(flushRequest{done: done})
	done.Wait()
}

var recentWarnedQueueLen = 0

func checkOperationQueueLen() {
	qlen := operationQueue.Len()
	if qlen > consts.STORAGE_QUEUE_WARN_LEN && qlen%consts.STORAGE_QUEUE_WARN_LEN == 0 && recentWarnedQueueLen != qlen {
		rtlog.Warnf("Storage operation queue length = %d", qlen)
		recentWarnedQueueLen = qlen
	}
}

// Shutdown processes the queued operations and stops the storage routine
func Shutdown() {
	Flush()
	operationQueue.Close()
	storageRoutineTerminated.Wait()
}

// Initialize opens the storage engine and starts the storage routine
func Initialize(cfg *config.StorageConfig) error {
	storageConfig = cfg
	storageEngine = nil
	operationQueue = xnsyncutil.NewSyncQueue()
	storageRoutineTerminated = xnsyncutil.NewOneTimeCond()

	if err := assureStorageEngineReady(); err != nil {
		return errors.Wrap(err, "storage engine is not ready")
	}
	go storageRoutine()
	return nil
}

// OpenStorage opens the backend selected by the storage config
func OpenStorage(cfg *config.StorageConfig) (storagecommon.SnapshotStorage, error) {
	switch cfg.Type {
	case "filesystem":
		return snapshotstoragefilesystem.OpenDirectory(cfg.Directory)
	case "mongodb":
		return snapshotstoragemongodb.OpenMongoDB(cfg.Url, cfg.DB)
	case "redis":
		dbindex, err := strconv.Atoi(cfg.DB)
		if err != nil {
			return nil, errors.Wrap(err, "redis db must be integer")
		}
		return snapshotstorageredis.OpenRedis(cfg.Url, dbindex)
	case "redis_cluster":
		return snapshotstoragerediscluster.OpenRedisCluster(cfg.StartNodes.ToList())
	}
	return nil, errors.Errorf("unknown storage type: %s", cfg.Type)
}

func assureStorageEngineReady() (err error) {
	if storageEngine != nil {
		return
	}

	storageEngine, err = OpenStorage(storageConfig)
	return
}

func resetEngineOnEOF(err error) {
	if err != nil && storageEngine != nil && storageEngine.IsEOF(err) {
		storageEngine.Close()
		storageEngine = nil
	}
}

func storageRoutine() {
	defer func() {
		err := recover()
		if err != nil {
			rtlog.TraceError("storage routine paniced: %s, restarting ...", err)
			go storageRoutine() // restart the storage routine
		} else {
			// normal quit
			if storageEngine != nil {
				storageEngine.Close()
				storageEngine = nil
			}
			storageRoutineTerminated.Signal()
		}
	}()

	for {
		op := operationQueue.Pop()
		if op == nil { // storage closed
			break
		}

		if flushReq, ok := op.(flushRequest); ok {
			flushReq.done.Signal()
			continue
		}

		for {
			err := assureStorageEngineReady()
			if err == nil {
				break
			}
			rtlog.Errorf("Storage engine is not ready: %s", err)
			time.Sleep(consts.STORAGE_RETRY_INTERVAL)
		}

		switch req := op.(type) {
		case saveRequest:
			handleSave(req)
		case loadRequest:
			if consts.DEBUG_SAVE_LOAD {
				rtlog.Debugf("storage: LOADING %s ...", req.World)
			}
			monop := opmon.StartOperation("storage.load")
			data, err := storageEngine.Read(req.World)
			if err != nil {
				rtlog.TraceError("storage: load %s failed: %s", req.World, err)
				data = nil
			}
			monop.Finish(consts.STORAGE_WARN_THRESHOLD)
			if req.Callback != nil {
				post.Post(func() {
					req.Callback(data, err)
				})
			}
			resetEngineOnEOF(err)
		case existsRequest:
			monop := opmon.StartOperation("storage.exists")
			exists, err := storageEngine.Exists(req.World)
			monop.Finish(consts.STORAGE_WARN_THRESHOLD)
			if req.Callback != nil {
				post.Post(func() {
					req.Callback(exists, err)
				})
			}
			resetEngineOnEOF(err)
		case listRequest:
			monop := opmon.StartOperation("storage.list")
			worlds, err := storageEngine.List()
			if err != nil {
				rtlog.TraceError("storage: list failed: %s", err)
			}
			monop.Finish(consts.STORAGE_WARN_THRESHOLD * 10)
			if req.Callback != nil {
				post.Post(func() {
					req.Callback(worlds, err)
				})
			}
			resetEngineOnEOF(err)
		default:
			rtlog.Panicf("storage: unknown operation: %v", op)
		}
	}
}

func handleSave(req saveRequest) {
	monop := opmon.StartOperation("storage.save")
	for {
		if consts.DEBUG_SAVE_LOAD {
			rtlog.Debugf("storage: SAVING %s (%d bytes) ...", req.World, len(req.Data))
		}
		if err := assureStorageEngineReady(); err != nil {
			rtlog.Errorf("Storage engine is not ready: %s", err)
			time.Sleep(consts.STORAGE_RETRY_INTERVAL)
			continue
		}

		err := storageEngine.Write(req.World, req.Data)
		if err != nil {
			rtlog.Errorf("storage: save %s failed: %s", req.World, err)
			resetEngineOnEOF(err)
			time.Sleep(consts.STORAGE_RETRY_INTERVAL)
			continue // always retry if fail
		}

		monop.Finish(consts.STORAGE_WARN_THRESHOLD)
		if req.Callback != nil {
			post.Post(func() {
				req.Callback()
			})
		}
		return
	}
}
