package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/race/pkg/host"
)

func TestFrameEncodeDecode(t *testing.T) {
	f := &Frame{Type: FrameOps, Flags: FlagMore, Payload: []byte{1, 2, 3}}
	data := f.Encode()
	if len(data) != FrameHeaderSize+3 {
		t.Fatalf("len(Encode()) = %d, want %d", len(data), FrameHeaderSize+3)
	}

	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("DecodeFrame() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	if _, err := DecodeFrame([]byte{0x02, 0}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("short header error = %v, want io.ErrUnexpectedEOF", err)
	}
	if _, err := DecodeFrame([]byte{0x09, 0, 0, 0}); !errors.Is(err, ErrInvalidFrameType) {
		t.Errorf("unknown type error = %v, want ErrInvalidFrameType", err)
	}
	if _, err := DecodeFrame([]byte{0x02, 0, 0, 5, 1}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated payload error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameHello, EncodeHello(Hello{Session: "s1", Root: 1})),
		NewFrame(FrameEvent, nil),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame() error = %v", err)
		}
	}
	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame(%d) error = %v", i, err)
		}
		if got.Type != want.Type || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("ReadFrame(%d) = %v %x, want %v %x", i, got.Type, got.Payload, want.Type, want.Payload)
		}
	}

	big := NewFrame(FrameOps, make([]byte, MaxPayloadSize+1))
	if err := WriteFrame(&buf, big); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("WriteFrame(oversized) error = %v, want ErrFrameTooLarge", err)
	}
}

func TestDecoderLimits(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(MaxCollectionCount + 1)
	if _, err := NewDecoder(e.Bytes()).ReadCount(); !errors.Is(err, ErrCollectionTooLarge) {
		t.Errorf("ReadCount() error = %v, want ErrCollectionTooLarge", err)
	}

	overflow := bytes.Repeat([]byte{0xff}, 11)
	if _, err := NewDecoder(overflow).ReadUvarint(); !errors.Is(err, ErrVarintOverflow) {
		t.Errorf("ReadUvarint() error = %v, want ErrVarintOverflow", err)
	}

	if _, err := NewDecoder([]byte{2}).ReadBool(); !errors.Is(err, ErrInvalidBool) {
		t.Errorf("ReadBool() error = %v, want ErrInvalidBool", err)
	}
}

func TestOpsRoundTrip(t *testing.T) {
	ops := []Op{
		{Kind: host.OpCreateElement, Target: 2, Key: "div"},
		{Kind: host.OpCreateText, Target: 3, Value: "hello"},
		{Kind: host.OpInsert, Target: 3, Parent: 2},
		{Kind: host.OpInsert, Target: 2, Parent: 1, Before: 7},
		{Kind: host.OpSetText, Target: 3, Value: "bye"},
		{Kind: host.OpSetAttribute, Target: 2, Key: "class", Value: "a b"},
		{Kind: host.OpRemoveAttribute, Target: 2, Key: "title"},
		{Kind: host.OpAddListener, Target: 2, Key: "click"},
		{Kind: host.OpRemoveListener, Target: 2, Key: "click"},
		{Kind: host.OpSetStyle, Target: 2, Style: map[string]string{"color": "red", "margin": "0"}},
		{Kind: host.OpRemove, Target: 2},
	}

	frames, err := EncodeOps(ops)
	if err != nil {
		t.Fatalf("EncodeOps() error = %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("len(frames) = %d, want 1", len(frames))
	}
	if frames[0].Flags.Has(FlagMore) {
		t.Error("single frame has FlagMore")
	}

	got, err := DecodeOps(frames[0].Payload)
	if err != nil {
		t.Fatalf("DecodeOps() error = %v", err)
	}
	if diff := cmp.Diff(ops, got); diff != "" {
		t.Errorf("DecodeOps() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeOpsSplitsLargeBatches(t *testing.T) {
	text := strings.Repeat("x", 1000)
	var ops []Op
	for i := range 200 {
		ops = append(ops, Op{Kind: host.OpCreateText, Target: uint64(i + 1), Value: text})
	}

	frames, err := EncodeOps(ops)
	if err != nil {
		t.Fatalf("EncodeOps() error = %v", err)
	}
	if len(frames) < 2 {
		t.Fatalf("len(frames) = %d, want at least 2", len(frames))
	}

	var got []Op
	for i, f := range frames {
		if len(f.Payload) > MaxPayloadSize {
			t.Errorf("frame %d payload = %d bytes, over limit", i, len(f.Payload))
		}
		last := i == len(frames)-1
		if f.Flags.Has(FlagMore) == last {
			t.Errorf("frame %d FlagMore = %v, want %v", i, f.Flags.Has(FlagMore), !last)
		}
		batch, err := DecodeOps(f.Payload)
		if err != nil {
			t.Fatalf("DecodeOps(frame %d) error = %v", i, err)
		}
		got = append(got, batch...)
	}
	if diff := cmp.Diff(ops, got); diff != "" {
		t.Errorf("reassembled ops mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeOpsEmpty(t *testing.T) {
	frames, err := EncodeOps(nil)
	if err != nil || len(frames) != 0 {
		t.Errorf("EncodeOps(nil) = %d frames, %v; want 0, nil", len(frames), err)
	}
}

func TestEncodeOpsTooLarge(t *testing.T) {
	op := Op{Kind: host.OpCreateText, Target: 1, Value: strings.Repeat("x", MaxPayloadSize)}
	if _, err := EncodeOps([]Op{op}); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("EncodeOps() error = %v, want ErrFrameTooLarge", err)
	}
}

func TestDecodeOpUnknownKind(t *testing.T) {
	if _, err := DecodeOps([]byte{1, 99, 1}); err == nil {
		t.Error("DecodeOps() with unknown kind succeeded")
	}
}

func TestEventHelloError(t *testing.T) {
	ev := Event{Target: 42, Type: "input", Value: "abc"}
	gotEv, err := DecodeEvent(EncodeEvent(ev))
	if err != nil || gotEv != ev {
		t.Errorf("DecodeEvent() = %+v, %v; want %+v", gotEv, err, ev)
	}

	h := Hello{Session: "abc", Root: 1}
	gotH, err := DecodeHello(EncodeHello(h))
	if err != nil || gotH != h {
		t.Errorf("DecodeHello() = %+v, %v; want %+v", gotH, err, h)
	}

	em := &ErrorMessage{Code: "P003", Message: "unknown node 9", Fatal: true}
	gotEM, err := DecodeErrorMessage(EncodeErrorMessage(em))
	if err != nil {
		t.Fatalf("DecodeErrorMessage() error = %v", err)
	}
	if diff := cmp.Diff(em, gotEM); diff != "" {
		t.Errorf("DecodeErrorMessage() mismatch (-want +got):\n%s", diff)
	}
	if got, want := em.Error(), "P003: unknown node 9"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if _, err := DecodeEvent([]byte{1}); err == nil {
		t.Error("DecodeEvent(truncated) succeeded")
	}
}
