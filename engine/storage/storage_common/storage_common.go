package storagecommon

// SnapshotStorage defines the interface of snapshot storage backends.
//
// Each world has at most one stored snapshot, keyed by the world name.
type SnapshotStorage interface {
	List() ([]string, error)
	Write(world string, data []byte) error
	// Read returns nil data and nil error if the world has no snapshot
	Read(world string) ([]byte, error)
	Exists(world string) (bool, error)
	Close()
	IsEOF(err error) bool
}
