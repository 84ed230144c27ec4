package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// discardLogger satisfies the diagnostics sink without output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// appendChunk appends one standard-framing chunk to buf.
func appendChunk(buf *bytes.Buffer, tag string, data []byte) {
	var t [TagSize]byte
	copy(t[:], tag)

	var head [lengthSize]byte
	binary.BigEndian.PutUint32(head[:], uint32(len(data)))
	buf.Write(head[:])
	buf.Write(t[:])
	buf.Write(data)

	var crc [crcSize]byte
	binary.BigEndian.PutUint32(crc[:], Checksum(0, t, data))
	buf.Write(crc[:])
}

// testChunk describes one fixture chunk for buildStream.
type testChunk struct {
	tag  string
	size int
}

// buildStream assembles a signature followed by chunks with the given tags
// and payload sizes; payload bytes are a repeating pattern.
func buildStream(chunks ...testChunk) []byte {
	var buf bytes.Buffer
	sig := StandardSignature()
	buf.Write(sig[:])
	for _, c := range chunks {
		data := make([]byte, c.size)
		for i := range data {
			data[i] = byte(i)
		}
		appendChunk(&buf, c.tag, data)
	}
	return buf.Bytes()
}

func TestReadChunkWellFormed(t *testing.T) {
	var buf bytes.Buffer
	data := []byte("payload bytes")
	appendChunk(&buf, "tEXt", data)
	wire := buf.Len()

	var c Chunk
	n, err := ReadChunk(&buf, &c, int64(wire), discardLogger())
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if n != int64(wire) {
		t.Errorf("consumed %d bytes, want %d", n, wire)
	}
	if c.Length != uint32(len(data)) {
		t.Errorf("Length = %d, want %d", c.Length, len(data))
	}
	if c.Label() != "tEXt" {
		t.Errorf("Label = %q, want %q", c.Label(), "tEXt")
	}
	if !bytes.Equal(c.Data, data) {
		t.Errorf("Data = %x, want %x", c.Data, data)
	}
	var tag [TagSize]byte
	copy(tag[:], "tEXt")
	if want := Checksum(0, tag, data); c.CRC != want {
		t.Errorf("CRC = %#x, want %#x", c.CRC, want)
	}
}

func TestReadChunkLenient(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		prevLength uint32
		wantErr    bool // io.EOF expected
		check      func(t *testing.T, c *Chunk, consumed int64)
	}{
		{
			name:    "empty stream is a clean boundary",
			input:   nil,
			wantErr: true,
		},
		{
			name:       "partial length keeps previous value",
			input:      []byte{0x00, 0x00},
			prevLength: 7,
			check: func(t *testing.T, c *Chunk, consumed int64) {
				if c.Length != 7 {
					t.Errorf("Length = %d, want stale 7", c.Length)
				}
				if consumed != 2 {
					t.Errorf("consumed = %d, want 2", consumed)
				}
			},
		},
		{
			name:  "length only yields zeroed fields",
			input: []byte{0x00, 0x00, 0x00, 0x05},
			check: func(t *testing.T, c *Chunk, consumed int64) {
				if c.Length != 5 {
					t.Errorf("Length = %d, want 5", c.Length)
				}
				if c.Tag != ([TagSize]byte{}) {
					t.Errorf("Tag = %v, want zeroed", c.Tag)
				}
				if len(c.Data) != 0 {
					t.Errorf("Data length = %d, want 0", len(c.Data))
				}
				if c.CRC != 0 {
					t.Errorf("CRC = %#x, want 0", c.CRC)
				}
			},
		},
		{
			name:  "truncated payload",
			input: []byte{0x00, 0x00, 0x00, 0x0A, 'a', 'b', 'c', 'd', 1, 2, 3, 4},
			check: func(t *testing.T, c *Chunk, consumed int64) {
				if c.Length != 10 {
					t.Errorf("Length = %d, want declared 10", c.Length)
				}
				if !bytes.Equal(c.Data, []byte{1, 2, 3, 4}) {
					t.Errorf("Data = %x, want the 4 readable bytes", c.Data)
				}
			},
		},
		{
			name:  "truncated checksum",
			input: []byte{0x00, 0x00, 0x00, 0x01, 'a', 'b', 'c', 'd', 0xAA, 0xBB, 0xCC},
			check: func(t *testing.T, c *Chunk, consumed int64) {
				// One payload byte, then only two checksum bytes readable.
				if !bytes.Equal(c.Data, []byte{0xAA}) {
					t.Errorf("Data = %x, want AA", c.Data)
				}
				if c.CRC != 0xBBCC0000 {
					t.Errorf("CRC = %#x, want partial 0xBBCC0000", c.CRC)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Chunk{Length: tt.prevLength}
			n, err := ReadChunk(bytes.NewReader(tt.input), &c, int64(len(tt.input)), discardLogger())
			if tt.wantErr {
				if err != io.EOF {
					t.Fatalf("got %v, want io.EOF", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("degraded read must not fail: %v", err)
			}
			if tt.check != nil {
				tt.check(t, &c, n)
			}
		})
	}
}

func TestReadChunkWarnsOnShortReads(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	var c Chunk
	input := []byte{0x00, 0x00, 0x00, 0x0A, 's', 't', 'E', 'g'}
	if _, err := ReadChunk(bytes.NewReader(input), &c, int64(len(input)), log); err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}

	out := logs.String()
	for _, want := range []string{"short read of chunk payload", "short read of chunk checksum"} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostics missing %q in:\n%s", want, out)
		}
	}
}

func TestReadChunkCapsAllocationAtStreamSize(t *testing.T) {
	// A desynchronized walk can read a garbage length in the gigabytes; the
	// payload buffer must stay bounded by what the stream can provide.
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xF0})
	buf.Write([]byte("tagX"))
	buf.Write(bytes.Repeat([]byte{0x55}, 32))
	input := buf.Bytes()

	var c Chunk
	n, err := ReadChunk(bytes.NewReader(input), &c, int64(len(input)), discardLogger())
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if len(c.Data) > 32 {
		t.Errorf("Data length = %d, want at most the 32 available bytes", len(c.Data))
	}
	if n > int64(len(input)) {
		t.Errorf("consumed %d bytes from a %d byte stream", n, len(input))
	}
}

func TestSyntheticRoundTrip(t *testing.T) {
	tag, err := ParseTag("stEg")
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0x03, 0x00, 0x15, 0x07, 0x0a}},
		{"max", bytes.Repeat([]byte{0xEE}, MaxSyntheticPayload)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewSynthetic(tag, tt.data)

			var buf bytes.Buffer
			n, err := WriteSynthetic(&buf, rec)
			if err != nil {
				t.Fatalf("WriteSynthetic: %v", err)
			}
			if n != int64(rec.SyntheticSize()) {
				t.Errorf("wrote %d bytes, want %d", n, rec.SyntheticSize())
			}

			wire := buf.Bytes()
			if wire[0] != byte(len(tt.data)) {
				t.Errorf("length prefix = %d, want %d", wire[0], len(tt.data))
			}
			if string(wire[1:5]) != "stEg" {
				t.Errorf("tag on wire = %q, want stEg", wire[1:5])
			}
			if got := binary.BigEndian.Uint32(wire[len(wire)-4:]); got != rec.CRC {
				t.Errorf("checksum on wire = %#x, want %#x", got, rec.CRC)
			}

			var back Chunk
			m, err := ReadSynthetic(&buf, &back)
			if err != nil {
				t.Fatalf("ReadSynthetic: %v", err)
			}
			if m != n {
				t.Errorf("read %d bytes, wrote %d", m, n)
			}
			if back.Length != uint32(len(tt.data)) || !bytes.Equal(back.Data, tt.data) {
				t.Errorf("payload round trip failed: %x", back.Data)
			}
			if back.Tag != tag || back.CRC != rec.CRC {
				t.Errorf("header round trip failed: tag %v crc %#x", back.Tag, back.CRC)
			}
		})
	}
}

func TestWriteSyntheticRejectsOversizedPayload(t *testing.T) {
	tag, _ := ParseTag("stEg")
	rec := NewSynthetic(tag, make([]byte, MaxSyntheticPayload+1))

	if _, err := WriteSynthetic(io.Discard, rec); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("got %v, want ErrPayloadTooLarge", err)
	}
}

func TestReadSyntheticIsStrict(t *testing.T) {
	tag, _ := ParseTag("stEg")
	var buf bytes.Buffer
	if _, err := WriteSynthetic(&buf, NewSynthetic(tag, []byte("hello"))); err != nil {
		t.Fatalf("WriteSynthetic: %v", err)
	}

	// Every truncation point must fail, unlike the lenient standard read.
	wire := buf.Bytes()
	for cut := 0; cut < len(wire); cut++ {
		var c Chunk
		if _, err := ReadSynthetic(bytes.NewReader(wire[:cut]), &c); err == nil {
			t.Errorf("truncation at %d bytes did not fail", cut)
		}
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"stEg", true},
		{"IEND", true},
		{"abcd", true},
		{"", false},
		{"ab", false},
		{"toolong", false},
		{"st3g", false},
		{"st g", false},
		{"st\xffg", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tag, err := ParseTag(tt.input)
			if tt.ok {
				if err != nil {
					t.Fatalf("ParseTag(%q): %v", tt.input, err)
				}
				if string(tag[:]) != tt.input {
					t.Errorf("tag = %q, want %q", tag[:], tt.input)
				}
				return
			}
			if !errors.Is(err, ErrBadTag) {
				t.Fatalf("ParseTag(%q) = %v, want ErrBadTag", tt.input, err)
			}
		})
	}
}

func TestLabelDegradesLossily(t *testing.T) {
	c := Chunk{Tag: [TagSize]byte{0xFF, 'E', 'N', 'D'}}
	label := c.Label()
	if !strings.Contains(label, "�") {
		t.Errorf("invalid byte not replaced in %q", label)
	}
	if c.Terminal() {
		t.Error("degraded label must not match the terminal marker")
	}

	end := Chunk{Tag: [TagSize]byte{'I', 'E', 'N', 'D'}}
	if !end.Terminal() {
		t.Error("IEND not recognized as terminal")
	}
}
