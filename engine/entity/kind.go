package entity

import (
	"reflect"

	"github.com/colonyrt/compworld/engine/codec"
	"github.com/colonyrt/compworld/engine/common"
	"github.com/colonyrt/compworld/engine/rtlog"
	"github.com/pkg/errors"
)

var (
	registeredKinds = map[string]reflect.Type{}
	kindNames       = map[reflect.Type]string{}
)

func init() {
	RegisterKind("Body", &Body{})
}

// RegisterKind registers a concrete component type so that snapshots containing it can be decoded
func RegisterKind(name string, prototype Component) {
	kind := kindOf(prototype)
	if old, ok := registeredKinds[name]; ok && old != kind {
		rtlog.Panicf("RegisterKind: kind %s is already registered as %s", name, old)
	}
	if old, ok := kindNames[kind]; ok && old != name {
		rtlog.Panicf("RegisterKind: %s is already registered as kind %s", kind, old)
	}
	registeredKinds[name] = kind
	kindNames[kind] = name
	rtlog.Debugf(">>> RegisterKind %s => %s <<<", name, kind)
}

// KindName returns the registered kind name of the component
func KindName(c Component) (string, bool) {
	name, ok := kindNames[kindOf(c)]
	return name, ok
}

type componentRecord struct {
	Kind string `msgpack:"K" json:"K"`
	Data []byte `msgpack:"D" json:"D"`
}

type snapshotEnvelope struct {
	Root       common.Handle     `msgpack:"R" json:"R"`
	Components []componentRecord `msgpack:"C" json:"C"`
}

// EncodeSnapshot packs the snapshot; each component is packed by the same packer under its kind name
func EncodeSnapshot(snap *Snapshot, packer codec.MsgPacker) ([]byte, error) {
	env := snapshotEnvelope{
		Root:       snap.Root,
		Components: make([]componentRecord, 0, len(snap.Components)),
	}
	for _, c := range snap.Components {
		name, ok := KindName(c)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownKind, "encode %s: %s", c, kindOf(c))
		}
		data, err := packer.PackMsg(c, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", c)
		}
		env.Components = append(env.Components, componentRecord{Kind: name, Data: data})
	}
	return packer.PackMsg(&env, nil)
}

// DecodeSnapshot unpacks a snapshot produced by EncodeSnapshot with the same packer
func DecodeSnapshot(data []byte, packer codec.MsgPacker) (*Snapshot, error) {
	var env snapshotEnvelope
	if err := packer.UnpackMsg(data, &env); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}

	snap := &Snapshot{
		Root:       env.Root,
		Components: make([]Component, 0, len(env.Components)),
	}
	for i, rec := range env.Components {
		kind, ok := registeredKinds[rec.Kind]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownKind, "decode component %d: %s", i, rec.Kind)
		}
		c := reflect.New(kind).Interface().(Component)
		if err := packer.UnpackMsg(rec.Data, c); err != nil {
			return nil, errors.Wrapf(err, "decode component %d of kind %s", i, rec.Kind)
		}
		snap.Components = append(snap.Components, c)
	}
	return snap, nil
}
