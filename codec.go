package httpx

import (
	"errors"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
)

// Codec converts values to and from body bytes.
// Implementations must be safe for concurrent use.
type Codec interface {
	// ContentType is the fallback label given to bodies built with this codec.
	ContentType() MIME

	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v, which must be a pointer.
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default codec.
type JSONCodec struct{}

func (JSONCodec) ContentType() MIME { return MIMEJSON }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// MsgPackCodec encodes bodies as MessagePack.
type MsgPackCodec struct{}

func (MsgPackCodec) ContentType() MIME { return MIMEMsgPack }

func (MsgPackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (MsgPackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// ProtoCodec encodes proto.Message values as Protocol Buffers.
type ProtoCodec struct{}

func (ProtoCodec) ContentType() MIME { return MIMEProtobuf }

func (ProtoCodec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, errors.New("value must implement proto.Message")
	}
	return proto.Marshal(msg)
}

func (ProtoCodec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return errors.New("target must implement proto.Message")
	}
	return proto.Unmarshal(data, msg)
}

var (
	_ Codec = JSONCodec{}
	_ Codec = MsgPackCodec{}
	_ Codec = ProtoCodec{}
)

var (
	codecsMu sync.RWMutex
	codecs   = map[string]Codec{
		MIMEJSON.Essence():     JSONCodec{},
		MIMEMsgPack.Essence():  MsgPackCodec{},
		MIMEProtobuf.Essence(): ProtoCodec{},
	}
)

// RegisterCodec makes c available to CodecFor under c.ContentType(),
// replacing any codec registered for the same type.
func RegisterCodec(c Codec) {
	codecsMu.Lock()
	defer codecsMu.Unlock()
	codecs[c.ContentType().Essence()] = c
}

// CodecFor looks up a codec by content type, ignoring parameters.
func CodecFor(m MIME) (Codec, bool) {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	c, ok := codecs[m.Essence()]
	return c, ok
}
