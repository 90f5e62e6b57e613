package snapshotstoragefilesystem

import (
	"sort"
	"testing"

	"github.com/bmizerany/assert"
)

func TestFileSystemSnapshotStorage(t *testing.T) {
	ss, err := OpenDirectory(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer ss.Close()

	data, err := ss.Read("colony")
	assert.Equal(t, nil, err)
	assert.T(t, data == nil, "should be nil")
	exists, err := ss.Exists("colony")
	assert.Equal(t, nil, err)
	assert.T(t, !exists)

	assert.Equal(t, nil, ss.Write("colony", []byte{1, 2, 3}))
	assert.Equal(t, nil, ss.Write("colony/2", []byte("second")))

	data, err = ss.Read("colony")
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	exists, _ = ss.Exists("colony")
	assert.T(t, exists)

	assert.Equal(t, nil, ss.Write("colony", []byte{4}))
	data, _ = ss.Read("colony")
	assert.Equal(t, []byte{4}, data)

	worlds, err := ss.List()
	assert.Equal(t, nil, err)
	sort.Strings(worlds)
	assert.Equal(t, []string{"colony", "colony/2"}, worlds)
	assert.T(t, !ss.IsEOF(err))
}
