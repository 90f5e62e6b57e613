package codec

import "github.com/pkg/errors"

var (
	// MSG_PACKER is the default packer for snapshots and storage payloads
	MSG_PACKER MsgPacker = MessagePackMsgPacker{}
)

// MsgPacker is used to packs and unpacks messages
type MsgPacker interface {
	PackMsg(msg interface{}, buf []byte) ([]byte, error)
	UnpackMsg(data []byte, msg interface{}) error
}

// ByName returns the packer registered for a format name ("msgpack" or "json")
func ByName(format string) (MsgPacker, error) {
	switch format {
	case "", "msgpack":
		return MessagePackMsgPacker{}, nil
	case "json":
		return JSONMsgPacker{}, nil
	}
	return nil, errors.Errorf("unknown packer format: %s", format)
}
