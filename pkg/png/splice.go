package png

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ssargent/stegano/pkg/cipher"
)

// Extraction copy geometry.
const (
	// ExtractBackoff is how far before the splice offset the extraction's
	// prefix copy stops: the signature already written plus the prelude
	// forwarded below. Deeper than EncodeBackoff's insertion backoff; the
	// pair is covered by round-trip tests.
	ExtractBackoff = 16

	// preludeSize is the run of original bytes sitting between the prefix
	// copy boundary and the record start. They are forwarded to the output
	// unchanged, which keeps reconstruction byte-faithful.
	preludeSize = ExtractBackoff - SignatureSize
)

// Splice describes one completed embed or extract run.
type Splice struct {
	Offset     int64  // resolved insertion offset
	RecordSize int    // synthetic record size on the wire
	Checksum   uint32 // checksum carried by the record
	Payload    []byte // ciphertext on embed, decrypted payload on extract
}

// Engine orchestrates the encode and decode pipelines. It owns no file
// handles; callers hand it an input stream and an output sink per run.
type Engine struct {
	cipher cipher.Cipher
	loc    Locator
	log    *slog.Logger
}

// NewEngine builds an engine around a constructed cipher, a locator, and a
// diagnostics logger (nil for silent).
func NewEngine(c cipher.Cipher, loc Locator, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{cipher: c, loc: loc, log: log}
}

// Embed splices an encrypted payload into the stream as a synthetic record
// at the requested offset (or Auto). The record is purely additive: every
// original byte at and after the insertion point survives in the output.
func (e *Engine) Embed(in io.ReadSeeker, out io.Writer, tag [TagSize]byte, plaintext []byte, requested int64) (*Splice, error) {
	cur, err := NewCursor(in, e.log)
	if err != nil {
		return nil, err
	}
	if _, err := cur.Signature().WriteTo(out); err != nil {
		return nil, fmt.Errorf("png: writing signature: %w", err)
	}

	offset, err := e.loc.ResolveOffset(cur, requested)
	if err != nil {
		return nil, err
	}
	e.log.Debug("resolved splice offset", "offset", offset, "requested", requested)

	// Untouched prefix; the signature bytes are already accounted for.
	if err := cur.CopyTo(out, offset-SignatureSize); err != nil {
		return nil, err
	}

	ciphertext, err := e.cipher.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	rec := NewSynthetic(tag, ciphertext)
	n, err := WriteSynthetic(out, rec)
	if err != nil {
		return nil, err
	}

	if _, err := cur.CopyRemaining(out); err != nil {
		return nil, err
	}

	return &Splice{
		Offset:     offset,
		RecordSize: int(n),
		Checksum:   rec.CRC,
		Payload:    ciphertext,
	}, nil
}

// Extract removes the synthetic record at the requested offset, returning
// its decrypted payload and writing a stream equal to the pre-embedding
// original. The offset is normally the explicit value reported at embed
// time; Auto rarely re-aligns on a spliced stream (see ResolveOffset).
//
// The decrypted payload is returned as the cipher produced it; trimming
// zero padding is a presentation decision left to the caller.
func (e *Engine) Extract(in io.ReadSeeker, out io.Writer, requested int64) (*Splice, error) {
	cur, err := NewCursor(in, e.log)
	if err != nil {
		return nil, err
	}
	if _, err := cur.Signature().WriteTo(out); err != nil {
		return nil, fmt.Errorf("png: writing signature: %w", err)
	}

	offset, err := e.loc.ResolveOffset(cur, requested)
	if err != nil {
		return nil, err
	}
	e.log.Debug("resolved splice offset", "offset", offset, "requested", requested)

	if err := cur.CopyTo(out, offset-ExtractBackoff); err != nil {
		return nil, err
	}
	if err := cur.CopyTo(out, preludeSize); err != nil {
		return nil, err
	}

	rec, err := cur.NextSynthetic()
	if err != nil {
		return nil, err
	}
	if got := Checksum(0, rec.Tag, rec.Data); got != rec.CRC {
		e.log.Warn("synthetic record checksum mismatch",
			"stored", fmt.Sprintf("%#x", rec.CRC),
			"computed", fmt.Sprintf("%#x", got))
	}

	plaintext, err := e.cipher.Decrypt(rec.Data)
	if err != nil {
		return nil, err
	}

	// Everything after the record is original; with the record consumed the
	// remainder copy excises it from the output.
	if _, err := cur.CopyRemaining(out); err != nil {
		return nil, err
	}

	return &Splice{
		Offset:     offset,
		RecordSize: rec.SyntheticSize(),
		Checksum:   rec.CRC,
		Payload:    plaintext,
	}, nil
}
