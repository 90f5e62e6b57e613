package snapshotstorageredis

import (
	"io"
	"strings"

	"github.com/colonyrt/compworld/engine/storage/storage_common"
	"github.com/garyburd/redigo/redis"
	"github.com/pkg/errors"
)

const _KEY_PREFIX = "world$"

type redisSnapshotStorage struct {
	c redis.Conn
}

// OpenRedis opens redis as snapshot storage.
// url is either a redis:// URL or a host:port address.
func OpenRedis(url string, dbindex int) (storagecommon.SnapshotStorage, error) {
	var c redis.Conn
	var err error
	if strings.HasPrefix(url, "redis://") {
		c, err = redis.DialURL(url)
	} else {
		c, err = redis.Dial("tcp", url)
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis dail failed")
	}

	if _, err := c.Do("SELECT", dbindex); err != nil {
		c.Close()
		return nil, errors.Wrap(err, "redis select db failed")
	}

	return &redisSnapshotStorage{
		c: c,
	}, nil
}

func worldKey(world string) string {
	return _KEY_PREFIX + world
}

func (ss *redisSnapshotStorage) List() ([]string, error) {
	keyMatch := _KEY_PREFIX + "*"
	r, err := redis.Values(ss.c.Do("SCAN", "0", "MATCH", keyMatch, "COUNT", 10000))
	if err != nil {
		return nil, err
	}
	var worlds []string
	for {
		nextCursor := r[0]
		keys, err := redis.Strings(r[1], nil)
		if err != nil {
			return nil, err
		}

		for _, key := range keys {
			worlds = append(worlds, key[len(_KEY_PREFIX):])
		}

		if isZeroCursor(nextCursor) {
			break
		}
		r, err = redis.Values(ss.c.Do("SCAN", nextCursor, "MATCH", keyMatch, "COUNT", 10000))
		if err != nil {
			return nil, err
		}
	}
	return worlds, nil
}

func isZeroCursor(c interface{}) bool {
	return string(c.([]byte)) == "0"
}

func (ss *redisSnapshotStorage) Write(world string, data []byte) error {
	_, err := ss.c.Do("SET", worldKey(world), data)
	return err
}

func (ss *redisSnapshotStorage) Read(world string) ([]byte, error) {
	data, err := redis.Bytes(ss.c.Do("GET", worldKey(world)))
	if err == redis.ErrNil {
		return nil, nil
	}
	return data, err
}

func (ss *redisSnapshotStorage) Exists(world string) (bool, error) {
	return redis.Bool(ss.c.Do("EXISTS", worldKey(world)))
}

func (ss *redisSnapshotStorage) Close() {
	ss.c.Close()
}

func (ss *redisSnapshotStorage) IsEOF(err error) bool {
	err = errors.Cause(err)
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
