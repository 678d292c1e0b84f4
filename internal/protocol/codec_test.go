package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"reflect"
	"testing"
)

func boolPtr(v bool) *bool { return &v }

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{
			name: "connect request",
			msg:  Message{SessionID: "s1", Code: CodeConnect},
		},
		{
			name: "sync request with body",
			msg:  Message{SessionID: "build-42", Code: CodeSync, Body: []byte{0x01, 0x02, 0x00, 0xff}},
		},
		{
			name: "success response",
			msg:  Message{SessionID: "s1", Code: CodeClean, Status: boolPtr(true)},
		},
		{
			name: "failure response",
			msg:  Message{SessionID: "s1", Code: CodeDisconnect, Status: boolPtr(false), Errors: "workspace locked"},
		},
		{
			name: "unknown code passes through",
			msg:  Message{SessionID: "s1", Code: Code(99)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Encode(&tt.msg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := Read(bytes.NewReader(frame))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, &tt.msg) {
				t.Fatalf("round trip = %+v, want %+v", got, &tt.msg)
			}
		})
	}
}

func TestReadCleanEOF(t *testing.T) {
	_, err := Read(bytes.NewReader(nil))
	if err != io.EOF {
		t.Fatalf("error = %v, want io.EOF", err)
	}
}

func TestReadTruncatedPrefix(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte{0x00, 0x01}))
	if !errors.Is(err, ErrFraming) {
		t.Fatalf("error = %v, want ErrFraming", err)
	}
}

func TestReadShortPayload(t *testing.T) {
	frame, err := Encode(&Message{SessionID: "s1", Code: CodeConnect})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = Read(bytes.NewReader(frame[:len(frame)-1]))
	if !errors.Is(err, ErrFraming) {
		t.Fatalf("error = %v, want ErrFraming", err)
	}
}

func TestReadOversizedLength(t *testing.T) {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], MaxFrameSize+1)

	_, err := Read(bytes.NewReader(prefix[:]))
	if !errors.Is(err, ErrFraming) {
		t.Fatalf("error = %v, want ErrFraming", err)
	}
}

func TestReadCorruptPayload(t *testing.T) {
	payload := []byte("this is not cbor at all, not even close")
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)

	_, err := Read(bytes.NewReader(frame))
	if !errors.Is(err, ErrFraming) {
		t.Fatalf("error = %v, want ErrFraming", err)
	}
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer

	first := &Message{SessionID: "a", Code: CodeConnect}
	second := &Message{SessionID: "b", Code: CodeSync, Body: []byte("payload")}

	if err := Write(&buf, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Write(&buf, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID != "a" {
		t.Fatalf("first SessionID = %q, want a", got.SessionID)
	}

	got, err = Read(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID != "b" || string(got.Body) != "payload" {
		t.Fatalf("second message = %+v, want session b with payload", got)
	}
}
