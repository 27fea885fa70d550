package codec

import "google.golang.org/protobuf/proto"

// Protobuf is a Codec for protocol buffer messages. Requires a constructor
// for the concrete message type T so Decode can allocate a new instance.
// Useful when a Descriptor (or another cached value) is already generated
// from a .proto schema shared with another service, e.g. an index service
// that serves the same descriptors over gRPC.
//
// The zero value is NOT ready to use. Build with NewProtobuf.
//
// Example:
//
//	type DescriptorPB = *arraypb.Descriptor
//	pbCodec := codec.NewProtobuf(func() DescriptorPB { return &arraypb.Descriptor{} })
type Protobuf[T proto.Message] struct {
	// new returns a new zero value of T (e.g. func() *mypb.User { return &mypb.User{} }).
	new func() T
}

// NewProtobuf constructs a Protobuf codec for the given message type T.
// Provide a constructor that returns a new instance of T.
func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
