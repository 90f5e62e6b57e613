package snapshotstoragemongodb

import (
	"io"

	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/colonyrt/compworld/engine/storage/storage_common"
	"github.com/pkg/errors"
	"github.com/xiaonanln/typeconv"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	_DEFAULT_DB_NAME = "compworld"
	_COLLECTION_NAME = "snapshots"
)

type mongoDBSnapshotStorage struct {
	db *mgo.Database
}

// OpenMongoDB opens mongodb as snapshot storage
func OpenMongoDB(url string, dbname string) (storagecommon.SnapshotStorage, error) {
	rtlog.Debugf("Connecting MongoDB ...")
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "mongodb dial failed")
	}

	session.SetMode(mgo.Monotonic, true)
	if dbname == "" {
		// if db is not specified, use default
		dbname = _DEFAULT_DB_NAME
	}
	return &mongoDBSnapshotStorage{
		db: session.DB(dbname),
	}, nil
}

func (ss *mongoDBSnapshotStorage) getCollection() *mgo.Collection {
	return ss.db.C(_COLLECTION_NAME)
}

func (ss *mongoDBSnapshotStorage) Write(world string, data []byte) error {
	_, err := ss.getCollection().UpsertId(world, bson.M{
		"data": data,
	})
	return err
}

func (ss *mongoDBSnapshotStorage) Read(world string) ([]byte, error) {
	var doc bson.M
	err := ss.getCollection().FindId(world).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	data, ok := doc["data"].([]byte)
	if !ok {
		return nil, errors.Errorf("snapshot of world %s is not binary: %T", world, doc["data"])
	}
	return data, nil
}

func (ss *mongoDBSnapshotStorage) List() ([]string, error) {
	var docs []bson.M
	err := ss.getCollection().Find(nil).Select(bson.M{"_id": 1}).All(&docs)
	if err != nil {
		return nil, err
	}

	worlds := make([]string, len(docs))
	for i, doc := range docs {
		worlds[i] = typeconv.String(doc["_id"])
	}
	return worlds, nil
}

func (ss *mongoDBSnapshotStorage) Exists(world string) (bool, error) {
	n, err := ss.getCollection().FindId(world).Count()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (ss *mongoDBSnapshotStorage) Close() {
	ss.db.Session.Close()
}

func (ss *mongoDBSnapshotStorage) IsEOF(err error) bool {
	err = errors.Cause(err)
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
