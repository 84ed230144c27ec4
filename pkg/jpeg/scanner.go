package jpeg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrNotJPEG reports that the stream does not open with the SOI marker.
var ErrNotJPEG = errors.New("jpeg: stream does not start with SOI")

// maxSegments bounds a scan so a stream of standalone markers cannot
// spin the walk forever.
const maxSegments = 512

// Segment is one marker segment as it appeared on the wire.
type Segment struct {
	Marker uint16 // full two byte marker, 0xFFxx
	Name   string // conventional name: SOI, APP0, SOF0, ...
	Offset int64  // byte offset of the marker introducer
	Length int    // payload size excluding marker and length bytes
	Detail string // decoded summary for markers the scanner understands
}

// Scan walks the segment list of a JPEG stream up to the first SOS or
// EOI marker and returns the segments seen. Damage past the SOI check
// ends the walk with a warning and the partial list; only a missing SOI
// is an error.
func Scan(r io.Reader, log *slog.Logger) ([]Segment, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var head [2]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, ErrNotJPEG
	}
	if m := binary.BigEndian.Uint16(head[:]); m != markerSOI {
		return nil, fmt.Errorf("%w: found %#04x", ErrNotJPEG, m)
	}

	segs := []Segment{{Marker: markerSOI, Name: markerName(markerSOI)}}
	pos := int64(2)

	for len(segs) < maxSegments {
		var mb [2]byte
		if _, err := io.ReadFull(r, mb[:]); err != nil {
			if err != io.EOF {
				log.Warn("short read of segment marker", "offset", pos, "error", err)
			}
			return segs, nil
		}
		if mb[0] != 0xFF {
			log.Warn("lost marker synchronization", "offset", pos, "byte", fmt.Sprintf("%#02x", mb[0]))
			return segs, nil
		}
		// 0xFF may repeat as fill before the marker code.
		for mb[1] == 0xFF {
			if _, err := io.ReadFull(r, mb[1:]); err != nil {
				log.Warn("short read of segment marker", "offset", pos)
				return segs, nil
			}
			pos++
		}

		marker := binary.BigEndian.Uint16(mb[:])
		seg := Segment{Marker: marker, Name: markerName(marker), Offset: pos}
		pos += 2

		if standalone(marker) {
			segs = append(segs, seg)
			if marker == markerEOI {
				return segs, nil
			}
			continue
		}

		var lb [2]byte
		if _, err := io.ReadFull(r, lb[:]); err != nil {
			log.Warn("short read of segment length", "segment", seg.Name, "offset", seg.Offset)
			return append(segs, seg), nil
		}
		length := int(binary.BigEndian.Uint16(lb[:]))
		pos += 2
		if length < 2 {
			log.Warn("segment length below its own size", "segment", seg.Name, "length", length)
			return append(segs, seg), nil
		}
		seg.Length = length - 2

		payload := make([]byte, seg.Length)
		n, err := io.ReadFull(r, payload)
		pos += int64(n)
		if err != nil {
			log.Warn("short read of segment payload",
				"segment", seg.Name, "want", seg.Length, "got", n)
			seg.Length = n
			return append(segs, seg), nil
		}
		seg.Detail = describe(marker, payload)
		segs = append(segs, seg)

		if marker == markerSOS {
			return segs, nil
		}
	}

	log.Warn("segment walk exceeded bound", "segments", maxSegments)
	return segs, nil
}

// describe decodes the payloads the inspector reports on.
func describe(marker uint16, payload []byte) string {
	switch {
	case sofMarker(marker) && len(payload) >= 6:
		height := binary.BigEndian.Uint16(payload[1:3])
		width := binary.BigEndian.Uint16(payload[3:5])
		return fmt.Sprintf("%dx%d, %d-bit, %d components", width, height, payload[0], payload[5])
	case marker == markerSOS && len(payload) >= 1:
		return fmt.Sprintf("%d components", payload[0])
	case marker == markerCOM:
		return printable(payload)
	case marker == markerAPP0 && len(payload) >= 7 && string(payload[:5]) == "JFIF\x00":
		return fmt.Sprintf("JFIF %d.%02d", payload[5], payload[6])
	case marker == markerAPP1 && len(payload) >= 6 && string(payload[:6]) == "Exif\x00\x00":
		return "Exif"
	case marker == markerDRI && len(payload) >= 2:
		return fmt.Sprintf("restart interval %d", binary.BigEndian.Uint16(payload))
	}
	return ""
}

// printable renders comment bytes as text a terminal can show.
func printable(b []byte) string {
	s := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, strings.ToValidUTF8(string(b), "�"))
	return strings.TrimSpace(s)
}
