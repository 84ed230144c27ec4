package stego

import (
	"bytes"
	"context"
	"image"
	"image/color"
	stdpng "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/stegano/pkg/config"
	"github.com/ssargent/stegano/pkg/png"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writePNG renders a small image to path and returns its exact bytes.
func writePNG(t *testing.T, path string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: uint8(x * y), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, stdpng.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	return buf.Bytes()
}

func TestProcessorEncodeDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	original := writePNG(t, in)

	spliced := filepath.Join(dir, "spliced.png")
	enc, err := NewProcessor(config.Config{
		Input:   in,
		Output:  spliced,
		Key:     "key",
		Payload: "hello",
	}, discardLogger())
	require.NoError(t, err)

	res, err := enc.Encode()
	require.NoError(t, err)
	assert.Equal(t, OpEncode, res.Op)
	assert.Greater(t, res.Offset, int64(png.SignatureSize))
	assert.Equal(t, png.SyntheticOverhead+len("hello"), res.RecordSize)

	splicedBytes, err := os.ReadFile(spliced)
	require.NoError(t, err)
	assert.Len(t, splicedBytes, len(original)+res.RecordSize)

	restored := filepath.Join(dir, "restored.png")
	dec, err := NewProcessor(config.Config{
		Input:  spliced,
		Output: restored,
		Key:    "key",
		Offset: strconv.FormatInt(res.Offset, 10),
	}, discardLogger())
	require.NoError(t, err)

	dres, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(dres.Secret))
	assert.Equal(t, res.Checksum, dres.Checksum)

	restoredBytes, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, original, restoredBytes, "decode must reproduce the original file exactly")
}

func TestProcessorCompressedAESRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	payload := strings.Repeat("secret stanza ", 8)
	spliced := filepath.Join(dir, "spliced.png")

	enc, err := NewProcessor(config.Config{
		Input:     in,
		Output:    spliced,
		Key:       "key",
		Algorithm: "aes",
		Payload:   payload,
		Compress:  true,
	}, discardLogger())
	require.NoError(t, err)

	res, err := enc.Encode()
	require.NoError(t, err)

	dec, err := NewProcessor(config.Config{
		Input:     spliced,
		Output:    filepath.Join(dir, "restored.png"),
		Key:       "key",
		Algorithm: "aes",
		Offset:    strconv.FormatInt(res.Offset, 10),
		Compress:  true,
	}, discardLogger())
	require.NoError(t, err)

	dres, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, payload, string(dres.Secret))
}

func TestProcessorDecodeWrongKeyKeepsContainer(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	original := writePNG(t, in)

	spliced := filepath.Join(dir, "spliced.png")
	enc, err := NewProcessor(config.Config{
		Input: in, Output: spliced, Key: "key", Payload: "hello",
	}, discardLogger())
	require.NoError(t, err)

	res, err := enc.Encode()
	require.NoError(t, err)

	restored := filepath.Join(dir, "restored.png")
	dec, err := NewProcessor(config.Config{
		Input:  spliced,
		Output: restored,
		Key:    "wrong",
		Offset: strconv.FormatInt(res.Offset, 10),
	}, discardLogger())
	require.NoError(t, err)

	dres, err := dec.Decode()
	require.NoError(t, err)
	assert.NotEqual(t, "hello", string(dres.Secret), "wrong key must not reveal the payload")

	restoredBytes, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, original, restoredBytes, "reconstruction does not depend on the key")
}

func TestProcessorEncodeFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "not-a-png.txt")
	require.NoError(t, os.WriteFile(in, []byte("plain text"), 0o644))

	out := filepath.Join(dir, "out.png")
	enc, err := NewProcessor(config.Config{
		Input: in, Output: out, Key: "key", Payload: "hello",
	}, discardLogger())
	require.NoError(t, err)

	_, err = enc.Encode()
	assert.ErrorIs(t, err, png.ErrBadSignature)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "failed encode must not leave an output file")

	leftovers, err := filepath.Glob(filepath.Join(dir, ".stegano-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestProcessorMissingPieces(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	t.Run("no input", func(t *testing.T) {
		p, err := NewProcessor(config.Config{Key: "key", Payload: "x"}, discardLogger())
		require.NoError(t, err)
		_, err = p.Encode()
		assert.ErrorIs(t, err, ErrMissingInput)
		_, err = p.Decode()
		assert.ErrorIs(t, err, ErrMissingInput)
	})

	t.Run("no key", func(t *testing.T) {
		p, err := NewProcessor(config.Config{Input: in, Payload: "x"}, discardLogger())
		require.NoError(t, err)
		_, err = p.Encode()
		assert.ErrorIs(t, err, ErrMissingKey)
	})

	t.Run("no payload", func(t *testing.T) {
		p, err := NewProcessor(config.Config{Input: in, Key: "key"}, discardLogger())
		require.NoError(t, err)
		_, err = p.Encode()
		assert.ErrorIs(t, err, ErrMissingPayload)
	})
}

func TestNewProcessorRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"unknown algorithm", config.Config{Algorithm: "des", Key: "key"}},
		{"bad offset", config.Config{Offset: "somewhere"}},
		{"bad chunk tag", config.Config{Type: "st3g"}},
		{"oversized key", config.Config{Algorithm: "aes", Key: strings.Repeat("k", 17)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProcessor(tt.cfg, discardLogger())
			assert.Error(t, err)
		})
	}
}

func TestProcessorPayloadFromFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	payload := []byte{0x01, 0x02, 0x00, 0xFF}
	payloadFile := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(payloadFile, payload, 0o644))

	spliced := filepath.Join(dir, "spliced.png")
	enc, err := NewProcessor(config.Config{
		Input:       in,
		Output:      spliced,
		Key:         "key",
		PayloadFile: payloadFile,
	}, discardLogger())
	require.NoError(t, err)

	res, err := enc.Encode()
	require.NoError(t, err)

	secretOut := filepath.Join(dir, "secret.bin")
	dec, err := NewProcessor(config.Config{
		Input:     spliced,
		Output:    filepath.Join(dir, "restored.png"),
		Key:       "key",
		Offset:    strconv.FormatInt(res.Offset, 10),
		SecretOut: secretOut,
	}, discardLogger())
	require.NoError(t, err)

	dres, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, payload, dres.Secret)

	written, err := os.ReadFile(secretOut)
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestProcessorDefaultOutputNames(t *testing.T) {
	assert.Equal(t, "photo.steg.png", splicedPath("photo.png"))
	assert.Equal(t, "archive.steg", splicedPath("archive"))
	assert.Equal(t, "photo.steg.orig.png", restoredPath("photo.steg.png"))

	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	enc, err := NewProcessor(config.Config{
		Input: in, Key: "key", Payload: "x",
	}, discardLogger())
	require.NoError(t, err)

	res, err := enc.Encode()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "in.steg.png"), res.Output)

	_, err = os.Stat(res.Output)
	assert.NoError(t, err)
}

func TestProcessorInspectPNG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	proc, err := NewProcessor(config.Config{HeadBytes: 8}, discardLogger())
	require.NoError(t, err)

	var results []Result
	err = proc.Inspect(context.Background(), []string{in}, func(r Result) {
		results = append(results, r)
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.NoError(t, r.Error)
	assert.Equal(t, "png", r.Kind)
	assert.Greater(t, r.FileSize, int64(0))

	require.NotEmpty(t, r.Chunks)
	assert.Equal(t, "IHDR", r.Chunks[0].Label)
	assert.Equal(t, uint32(13), r.Chunks[0].Length)
	assert.Len(t, r.Chunks[0].Head, 8)
	assert.Equal(t, "IEND", r.Chunks[len(r.Chunks)-1].Label)
}

func TestProcessorInspectJPEG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.jpg")

	data := []byte{0xFF, 0xD8, 0xFF, 0xFE, 0x00, 0x06, 'h', 'e', 'l', 'l', 0xFF, 0xD9}
	require.NoError(t, os.WriteFile(in, data, 0o644))

	proc, err := NewProcessor(config.Config{}, discardLogger())
	require.NoError(t, err)

	var results []Result
	err = proc.Inspect(context.Background(), []string{in}, func(r Result) {
		results = append(results, r)
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.NoError(t, r.Error)
	assert.Equal(t, "jpeg", r.Kind)

	names := make([]string, len(r.Segments))
	for i, s := range r.Segments {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"SOI", "COM", "EOI"}, names)
}

func TestProcessorInspectReportsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writePNG(t, good)

	bad := filepath.Join(dir, "unreadable.txt")
	require.NoError(t, os.WriteFile(bad, []byte("just text"), 0o644))

	proc, err := NewProcessor(config.Config{}, discardLogger())
	require.NoError(t, err)

	var results []Result
	err = proc.Inspect(context.Background(), []string{good, bad}, func(r Result) {
		results = append(results, r)
	})
	assert.Error(t, err)

	byInput := map[string]Result{}
	for _, r := range results {
		byInput[r.Input] = r
	}
	if r, ok := byInput[bad]; ok {
		assert.ErrorIs(t, r.Error, ErrUnknownContainer)
	}
}

func TestProcessorInspectEmptyFileList(t *testing.T) {
	proc, err := NewProcessor(config.Config{}, discardLogger())
	require.NoError(t, err)

	err = proc.Inspect(context.Background(), nil, func(Result) {})
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestProcessorInspectHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proc, err := NewProcessor(config.Config{}, discardLogger())
	require.NoError(t, err)

	err = proc.Inspect(ctx, []string{in}, func(Result) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultSummary(t *testing.T) {
	enc := Result{
		Op: OpEncode, Input: "in.png", Output: "out.png",
		Offset: 989, RecordSize: 14, FileSize: 1200,
	}
	assert.Contains(t, enc.Summary(), "in.png -> out.png")
	assert.Contains(t, enc.Summary(), "offset 989")
	assert.Contains(t, enc.Summary(), "1.2 kB")

	dec := Result{
		Op: OpDecode, Input: "out.png", Output: "orig.png",
		Offset: 989, Secret: []byte("hello"), FileSize: 1186,
	}
	assert.Contains(t, dec.Summary(), "5 byte secret")

	insp := Result{Op: OpInspect, Input: "in.png", Kind: "png", FileSize: 1186, Chunks: make([]ChunkInfo, 3)}
	assert.Contains(t, insp.Summary(), "3 chunks")
}
