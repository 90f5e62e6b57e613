package snapshotstoragerediscluster

import (
	"io"
	"time"

	rediscluster "github.com/chasex/redis-go-cluster"
	"github.com/colonyrt/compworld/engine/storage/storage_common"
	"github.com/garyburd/redigo/redis"
	"github.com/pkg/errors"
)

const (
	_KEY_PREFIX = "world$"
	// keys are spread over the nodes, so world names are also kept in one set
	_WORLDS_KEY = "compworld$worlds"
)

type redisClusterSnapshotStorage struct {
	c *rediscluster.Cluster
}

// OpenRedisCluster opens redis cluster as snapshot storage
func OpenRedisCluster(startNodes []string) (storagecommon.SnapshotStorage, error) {
	c, err := rediscluster.NewCluster(&rediscluster.Options{
		StartNodes:   startNodes,
		ConnTimeout:  10 * time.Second, // Connection timeout
		ReadTimeout:  60 * time.Second, // Read timeout
		WriteTimeout: 60 * time.Second, // Write timeout
		KeepAlive:    1,                // Maximum keep alive connecion in each node
		AliveTime:    10 * time.Minute, // Keep alive timeout
	})

	if err != nil {
		return nil, errors.Wrap(err, "connect redis cluster failed")
	}

	return &redisClusterSnapshotStorage{
		c: c,
	}, nil
}

func worldKey(world string) string {
	return _KEY_PREFIX + world
}

func (ss *redisClusterSnapshotStorage) List() ([]string, error) {
	return redis.Strings(ss.c.Do("SMEMBERS", _WORLDS_KEY))
}

func (ss *redisClusterSnapshotStorage) Write(world string, data []byte) error {
	if _, err := ss.c.Do("SET", worldKey(world), data); err != nil {
		return err
	}
	_, err := ss.c.Do("SADD", _WORLDS_KEY, world)
	return err
}

func (ss *redisClusterSnapshotStorage) Read(world string) ([]byte, error) {
	data, err := redis.Bytes(ss.c.Do("GET", worldKey(world)))
	if err == redis.ErrNil {
		return nil, nil
	}
	return data, err
}

func (ss *redisClusterSnapshotStorage) Exists(world string) (bool, error) {
	return redis.Bool(ss.c.Do("EXISTS", worldKey(world)))
}

func (ss *redisClusterSnapshotStorage) Close() {
	ss.c.Close()
}

func (ss *redisClusterSnapshotStorage) IsEOF(err error) bool {
	err = errors.Cause(err)
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
