package snapshot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode writes s to w as MessagePack.
func Encode(w io.Writer, s *Snapshot) error {
	return msgpack.NewEncoder(w).Encode(s)
}

// Decode reads a MessagePack snapshot from r and checks its schema version.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	if s.Version != SchemaVersion {
		return nil, fmt.Errorf("snapshot: schema version %d, want %d", s.Version, SchemaVersion)
	}
	return &s, nil
}

// EncodeMsgpack is Encode into a byte slice.
func EncodeMsgpack(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeMsgpack is Decode from a byte slice.
func DecodeMsgpack(data []byte) (*Snapshot, error) {
	return Decode(bytes.NewReader(data))
}
