// Package jpeg reads the marker structure of a JPEG stream for
// inspection purposes.
//
// A JPEG file is a sequence of segments, each introduced by a two byte
// marker of the form 0xFFxx. Most segments carry a big-endian length
// (which counts itself) followed by a payload; a few markers stand
// alone. The scanner walks segments from SOI up to the start-of-scan
// marker and reports what it finds. Entropy-coded image data after SOS
// is never parsed, and nothing in this package writes.
//
// Like the chunk reader in pkg/png, the scanner treats damage as a
// diagnostic rather than a failure: a truncated or desynchronized
// stream ends the walk with a warning and the segments seen so far.
package jpeg
