package snapshotstoragerediscluster

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestRedisClusterSnapshotStorage(t *testing.T) {
	ss, err := OpenRedisCluster([]string{"127.0.0.1:30001", "127.0.0.1:30002", "127.0.0.1:30003"})
	if err != nil {
		t.Skipf("redis cluster is not available: %s", err)
	}
	defer ss.Close()

	world := "test-world-cluster"
	assert.Equal(t, nil, ss.Write(world, []byte("snapshot")))
	data, err := ss.Read(world)
	assert.Equal(t, nil, err)
	assert.Equal(t, "snapshot", string(data))

	data, err = ss.Read("no-such-world")
	assert.Equal(t, nil, err)
	assert.T(t, data == nil)

	worlds, err := ss.List()
	assert.Equal(t, nil, err)
	found := false
	for _, w := range worlds {
		found = found || w == world
	}
	assert.T(t, found)
}
