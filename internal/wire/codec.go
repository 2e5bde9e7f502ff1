// Package wire declares the CloudSphere storage RPC surface: the message
// types, the gRPC service descriptor, and the client and server bindings.
//
// Messages use the protobuf binary encoding described by storage.proto.
// Well-known types (emptypb.Empty, timestamppb.Timestamp) go through
// proto.Marshal; the service messages encode their fields with protowire.
package wire

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CodecName is the gRPC content-subtype used by every CloudSphere call.
const CodecName = "cloudsphere"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Message is implemented by every service message declared in this package.
type Message interface {
	appendWire(b []byte) ([]byte, error)
	setField(f field) error
}

// Codec is a grpc encoding.Codec for the CloudSphere messages.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case Message:
		b, err := m.appendWire(nil)
		if err != nil {
			return nil, fmt.Errorf("wire: marshal %T: %w", v, err)
		}
		return b, nil
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("wire: cannot marshal %T", v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case Message:
		if err := eachField(data, m.setField); err != nil {
			return fmt.Errorf("wire: unmarshal %T: %w", v, err)
		}
		return nil
	case proto.Message:
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("wire: cannot unmarshal into %T", v)
}

// field is one decoded tag/value pair. Varint values land in v and
// length-delimited values in b; other wire types are skipped.
type field struct {
	num protowire.Number
	typ protowire.Type
	v   uint64
	b   []byte
}

func eachField(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.v, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (f field) expect(typ protowire.Type) error {
	if f.typ != typ {
		return fmt.Errorf("field %d: wire type %d, want %d", f.num, f.typ, typ)
	}
	return nil
}

func (f field) str() (string, error) {
	if err := f.expect(protowire.BytesType); err != nil {
		return "", err
	}
	return string(f.b), nil
}

func (f field) int64() (int64, error) {
	if err := f.expect(protowire.VarintType); err != nil {
		return 0, err
	}
	return int64(f.v), nil
}

func (f field) bool() (bool, error) {
	if err := f.expect(protowire.VarintType); err != nil {
		return false, err
	}
	return protowire.DecodeBool(f.v), nil
}

func (f field) message(m Message) error {
	if err := f.expect(protowire.BytesType); err != nil {
		return err
	}
	return eachField(f.b, m.setField)
}

func (f field) timestamp() (*timestamppb.Timestamp, error) {
	if err := f.expect(protowire.BytesType); err != nil {
		return nil, err
	}
	ts := new(timestamppb.Timestamp)
	if err := proto.Unmarshal(f.b, ts); err != nil {
		return nil, fmt.Errorf("field %d: %w", f.num, err)
	}
	return ts, nil
}

// Zero scalars are omitted, as proto3 does for implicit presence.

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendMessage(b []byte, num protowire.Number, m Message) ([]byte, error) {
	inner, err := m.appendWire(nil)
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner), nil
}

func appendTimestamp(b []byte, num protowire.Number, ts *timestamppb.Timestamp) ([]byte, error) {
	if ts == nil {
		return b, nil
	}
	inner, err := proto.Marshal(ts)
	if err != nil {
		return nil, fmt.Errorf("field %d: %w", num, err)
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner), nil
}
