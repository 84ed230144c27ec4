package png

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Auto is the offset value requesting resolution by scanning for the
// terminal record.
const Auto int64 = -1

// EncodeBackoff is subtracted from the terminal record's start offset when
// an insertion point is auto-resolved. The synthetic record spends
// SyntheticOverhead (9) bytes on framing; the extra two bytes of slack keep
// it clear of the terminal marker's own framing. Empirical overhead carried
// by the wire format, not a derived value.
const EncodeBackoff = 11

// DefaultMaxScanChunks bounds the auto-resolution walk when the Locator does
// not set its own limit. A stream whose terminal marker is missing or
// unreachable terminates the scan here instead of walking garbage forever.
const DefaultMaxScanChunks = 4096

// Errors
var (
	ErrNoTerminal = errors.New("png: terminal record not found")
	ErrBadOffset  = errors.New("png: offset must be \"auto\" or a non-negative integer")
)

// ParseOffset converts an offset spec from the CLI or environment: the
// sentinel "auto" (case-insensitive) or a non-negative byte offset.
func ParseOffset(s string) (int64, error) {
	t := strings.TrimSpace(s)
	if strings.EqualFold(t, "auto") {
		return Auto, nil
	}

	v, err := strconv.ParseInt(t, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadOffset, s)
	}
	return v, nil
}

// Locator resolves the byte offset at which a synthetic record is spliced.
type Locator struct {
	// MaxScanChunks bounds the records walked during auto-resolution.
	// Zero means DefaultMaxScanChunks.
	MaxScanChunks int
}

// ResolveOffset returns an explicit offset as-is, with no bounds validation
// beyond the copy phases failing later if it points past the file. For Auto
// it walks records from the current position until the terminal label and
// returns its start minus EncodeBackoff.
//
// The cursor's read position is restored before returning on every path, so
// resolution never consumes stream state the caller still needs.
func (l Locator) ResolveOffset(cur *Cursor, requested int64) (int64, error) {
	if requested != Auto {
		return requested, nil
	}

	limit := l.MaxScanChunks
	if limit <= 0 {
		limit = DefaultMaxScanChunks
	}

	start := cur.Offset()
	found := int64(-1)
	var scanErr error
	for i := 0; i < limit; i++ {
		chunk, err := cur.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			scanErr = err
			break
		}
		if chunk.Terminal() {
			found = cur.ChunkStart()
			break
		}
	}

	if err := cur.Seek(start); err != nil {
		return 0, err
	}
	if scanErr != nil {
		return 0, fmt.Errorf("png: scanning for terminal record: %w", scanErr)
	}
	if found < 0 {
		return 0, ErrNoTerminal
	}

	return found - EncodeBackoff, nil
}
