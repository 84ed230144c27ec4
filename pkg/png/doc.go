// Package png implements the chunk-stream splice engine: it parses a PNG's
// chunked binary layout one record at a time, splices a synthetic record into
// the byte stream at a chosen offset, and later extracts that record again
// while reconstituting a byte-faithful copy of everything else in the file.
//
// The package never decodes pixel data and never validates the image
// semantically. Its contract is purely positional: stream offsets are exact,
// checksums are correct, and every byte it does not own passes through
// unchanged.
//
// # Standard chunk format
//
// After the 8-byte signature, a PNG is a sequence of chunks:
//
//	[Length(4, big-endian)][Tag(4)][Data(Length)][CRC(4, big-endian)]
//
// The CRC covers the tag and data bytes using CRC-32 (IEEE). The stream ends
// with a chunk whose tag reads "IEND"; scanning loops treat that label as the
// terminal condition.
//
// # Synthetic record format
//
// The injected record uses a narrower framing with a single-byte length:
//
//	[Length(1)][Tag(4)][Ciphertext(Length)][CRC(4, big-endian)]
//
// The single-byte length caps the ciphertext at 255 bytes. This framing is
// specific to the synthetic record; standard chunks are never rewritten.
//
// # Reading policy
//
// Standard chunk reads are deliberately lenient. A sub-read that hits the end
// of the stream leaves the length field at its previous value, yields
// partial or zeroed tag/data/checksum fields, and reports the condition as a
// warning on the injected logger. Scans routinely run past the last
// well-formed chunk while hunting for the terminal marker, so a hard failure
// there would break the search. Verbatim copies are the opposite: their byte
// counts are exact contracts and any short read is fatal.
//
// # Splice geometry
//
// Embedding writes the signature, copies offset-8 bytes, emits the synthetic
// record, and copies the rest. The record is purely additive; in the spliced
// file it occupies [offset, offset+9+n).
//
// Extraction copies offset-16 bytes after the signature, forwards the next 8
// bytes unchanged (they are original stream bytes), reads the synthetic
// record, and copies the rest. The deeper extraction backoff minus the
// forwarded bytes lands the cursor exactly on the record start, so the
// output is the pre-embedding original, byte for byte.
//
// Auto-resolution walks chunks until IEND and backs off EncodeBackoff bytes
// from its start. On an already-spliced stream that walk usually
// desynchronizes at the split chunk and ends in ErrNoTerminal; extraction is
// expected to receive the explicit offset reported at embed time.
//
// # Usage
//
//	eng := png.NewEngine(cip, png.Locator{}, logger)
//
//	in, _ := os.Open("in.png")
//	tag, _ := png.ParseTag("stEg")
//	sp, err := eng.Embed(in, out, tag, []byte("payload"), png.Auto)
//	if err != nil {
//	    return err
//	}
//
//	// Later, with the offset reported above:
//	sp, err = eng.Extract(spliced, restored, sp.Offset)
//
// A Cursor is owned by exactly one pipeline invocation and is discarded at
// the end of the run; nothing in this package is shared across goroutines.
package png
