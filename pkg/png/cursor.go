package png

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrShortCopy reports a verbatim copy that could not deliver its exact byte
// count. Copy phases are hard contracts; hitting this aborts the pipeline.
var ErrShortCopy = errors.New("png: short read during verbatim copy")

// Cursor walks a chunk stream. It owns the read position exclusively: every
// read and copy goes through it, the current chunk is overwritten in place by
// each Next, and mutation is limited to the methods below. A Cursor belongs
// to a single pipeline invocation and is discarded when the run ends.
type Cursor struct {
	src        io.ReadSeeker
	reader     *bufio.Reader
	log        *slog.Logger
	sig        Signature
	chunk      Chunk
	pos        int64 // next byte to read
	chunkStart int64 // offset where the current chunk began
	size       int64 // total stream length
}

// NewCursor opens a chunk stream. The signature is read and validated
// immediately, so a non-PNG source fails here and nowhere else. The stream
// size is captured up front to bound payload allocations during lenient
// scans.
func NewCursor(src io.ReadSeeker, log *slog.Logger) (*Cursor, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("png: sizing stream: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("png: rewinding stream: %w", err)
	}

	c := &Cursor{
		src:    src,
		reader: bufio.NewReader(src),
		log:    log,
		size:   size,
	}

	sig, err := ReadSignature(c.reader)
	if err != nil {
		return nil, err
	}
	c.sig = sig
	c.pos = SignatureSize
	c.chunkStart = SignatureSize

	return c, nil
}

// Signature returns the stream's signature as read at open time.
func (c *Cursor) Signature() Signature {
	return c.sig
}

// Offset returns the current read position.
func (c *Cursor) Offset() int64 {
	return c.pos
}

// ChunkStart returns the byte offset where the current chunk began.
func (c *Cursor) ChunkStart() int64 {
	return c.chunkStart
}

// Size returns the total stream length in bytes.
func (c *Cursor) Size() int64 {
	return c.size
}

// Next reads the next standard chunk, leniently (see ReadChunk). The
// returned pointer aliases the cursor's single chunk value, which the next
// read overwrites. A stream ending exactly on a record boundary returns
// io.EOF.
func (c *Cursor) Next() (*Chunk, error) {
	c.chunkStart = c.pos
	n, err := ReadChunk(c.reader, &c.chunk, c.size-c.pos, c.log)
	c.pos += n
	if err != nil {
		return nil, err
	}
	return &c.chunk, nil
}

// NextSynthetic reads the record at the current position in narrow framing,
// strictly. Used once per extraction, at the resolved splice point.
func (c *Cursor) NextSynthetic() (*Chunk, error) {
	c.chunkStart = c.pos
	n, err := ReadSynthetic(c.reader, &c.chunk)
	c.pos += n
	if err != nil {
		return nil, err
	}
	return &c.chunk, nil
}

// Seek moves the read position to an absolute offset.
func (c *Cursor) Seek(offset int64) error {
	if _, err := c.src.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("png: seeking to %d: %w", offset, err)
	}
	c.reader.Reset(c.src) // drop buffered bytes
	c.pos = offset
	c.chunkStart = offset
	return nil
}

// Rewind moves the read position to the first chunk, just past the
// signature.
func (c *Cursor) Rewind() error {
	return c.Seek(SignatureSize)
}

// CopyTo streams exactly n bytes to w. The count is a hard contract: any
// short read, including one caused by an offset before the copyable region,
// fails with ErrShortCopy.
func (c *Cursor) CopyTo(w io.Writer, n int64) error {
	if n < 0 {
		// io.CopyN would report a negative count as success.
		return fmt.Errorf("%w: offset lands %d bytes before the copyable region", ErrShortCopy, -n)
	}
	written, err := io.CopyN(w, c.reader, n)
	c.pos += written
	if err != nil {
		return fmt.Errorf("%w: need %d bytes at offset %d, copied %d (%v)", ErrShortCopy, n, c.pos-written, written, err)
	}
	return nil
}

// CopyRemaining streams everything from the current position through the end
// of the stream to w.
func (c *Cursor) CopyRemaining(w io.Writer) (int64, error) {
	written, err := io.Copy(w, c.reader)
	c.pos += written
	if err != nil {
		return written, fmt.Errorf("png: copying stream remainder: %w", err)
	}
	return written, nil
}
