package stego

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ssargent/stegano/pkg/jpeg"
)

// Op names the operation a Result describes.
type Op string

const (
	OpEncode  Op = "encode"
	OpDecode  Op = "decode"
	OpInspect Op = "inspect"
)

// ChunkInfo is one chunk row of an inspection report.
type ChunkInfo struct {
	// Index in walk order
	Index int

	// Offset of the chunk's length field in the file
	Offset int64

	// Length of the chunk data
	Length uint32

	// Label is the chunk tag, rendered lossily for display
	Label string

	// CRC as stored in the file
	CRC uint32

	// Head holds the first bytes of the chunk data
	Head []byte
}

// Result represents the outcome of processing a single file.
type Result struct {
	// Op that produced this result
	Op Op

	// Input file path
	Input string

	// Output file path, when the operation wrote one
	Output string

	// Offset the synthetic record was spliced at or read from
	Offset int64

	// RecordSize is the on-wire size of the synthetic record
	RecordSize int

	// Checksum of the synthetic record
	Checksum uint32

	// Secret holds the recovered payload after a decode
	Secret []byte

	// Container walk, filled by inspections
	Kind     string
	FileSize int64
	Chunks   []ChunkInfo
	Segments []jpeg.Segment

	// Any error that occurred during processing
	Error error
}

// Summary is a one line account of the result.
func (r Result) Summary() string {
	switch r.Op {
	case OpEncode:
		return fmt.Sprintf("%s -> %s (%s, %d byte record at offset %d)",
			r.Input, r.Output, humanize.Bytes(uint64(r.FileSize)), r.RecordSize, r.Offset)
	case OpDecode:
		return fmt.Sprintf("%s -> %s (%s, %d byte secret from offset %d)",
			r.Input, r.Output, humanize.Bytes(uint64(r.FileSize)), len(r.Secret), r.Offset)
	case OpInspect:
		switch r.Kind {
		case "png":
			return fmt.Sprintf("%s: png, %s, %d chunks",
				r.Input, humanize.Bytes(uint64(r.FileSize)), len(r.Chunks))
		case "jpeg":
			return fmt.Sprintf("%s: jpeg, %s, %d segments",
				r.Input, humanize.Bytes(uint64(r.FileSize)), len(r.Segments))
		}
		return fmt.Sprintf("%s: %s", r.Input, humanize.Bytes(uint64(r.FileSize)))
	}

	return r.Input
}
