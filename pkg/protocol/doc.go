// Package protocol implements the binary wire format the live server uses to
// stream host mutations to a client and to receive client events.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameHello (0x00): Server → Client, session id and root node id
//   - FrameEvent (0x01): Client → Server, one event on a node
//   - FrameOps (0x02): Server → Client, a batch of host ops
//   - FrameError (0x05): Error message
//
// Op batches larger than one frame are split; every frame but the last has
// FlagMore set.
//
// # Encoding
//
//   - Varint: node ids, counts and lengths (protobuf-style)
//   - Length-prefixed: strings, prefixed with a varint length
//   - Node id 0 means "none" (no parent, append at end)
package protocol
