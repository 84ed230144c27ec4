package stego

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ssargent/stegano/pkg/cipher"
	"github.com/ssargent/stegano/pkg/config"
	"github.com/ssargent/stegano/pkg/fileutil"
	"github.com/ssargent/stegano/pkg/jpeg"
	"github.com/ssargent/stegano/pkg/png"
)

// Processor runs embed, extract, and inspect operations for the CLI.
type Processor struct {
	// cfg contains runtime configuration options
	cfg config.Config

	// log receives structural diagnostics from the container walks
	log *slog.Logger

	// parsed flag surface
	alg    cipher.Algorithm
	cipher cipher.Cipher // nil when no key was given
	offset int64
	tag    [png.TagSize]byte
}

// NewProcessor parses the flag surface into runtime form. Anything
// malformed fails here, before any output file is touched.
func NewProcessor(cfg config.Config, log *slog.Logger) (*Processor, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg.Algorithm == "" {
		cfg.Algorithm = "xor"
	}
	alg, err := cipher.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	if cfg.Offset == "" {
		cfg.Offset = "auto"
	}
	offset, err := png.ParseOffset(cfg.Offset)
	if err != nil {
		return nil, err
	}

	if cfg.Type == "" {
		cfg.Type = "stEg"
	}
	tag, err := png.ParseTag(cfg.Type)
	if err != nil {
		return nil, err
	}

	p := &Processor{cfg: cfg, log: log, alg: alg, offset: offset, tag: tag}

	if cfg.Key != "" {
		p.cipher, err = cipher.New(alg, cfg.Key)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// engine builds the splice engine for operations that need a key.
func (p *Processor) engine() (*png.Engine, error) {
	if p.cipher == nil {
		return nil, ErrMissingKey
	}

	return png.NewEngine(p.cipher, png.Locator{MaxScanChunks: p.cfg.MaxChunks}, p.log), nil
}

// Encode embeds the configured payload into the input container and
// stages the spliced copy atomically.
func (p *Processor) Encode() (res Result, err error) {
	res = Result{Op: OpEncode, Input: p.cfg.Input, Output: p.cfg.Output}

	if p.cfg.Input == "" {
		return res, ErrMissingInput
	}
	if res.Output == "" {
		res.Output = splicedPath(p.cfg.Input)
	}

	eng, err := p.engine()
	if err != nil {
		return res, err
	}

	plaintext, err := p.loadPayload()
	if err != nil {
		return res, err
	}
	if p.cfg.Compress {
		packed := packPayload(plaintext)
		p.log.Debug("compressed payload", "plain", len(plaintext), "packed", len(packed))
		plaintext = packed
	}

	in, err := os.Open(filepath.Clean(p.cfg.Input))
	if err != nil {
		return res, fmt.Errorf("opening input file: %w", err)
	}
	defer in.Close()

	to, err := fileutil.NewTempOutput(res.Output)
	if err != nil {
		return res, fmt.Errorf("preparing atomic write: %w", err)
	}
	defer to.CleanupOnError(&err)

	out := bufio.NewWriter(to.File())
	sp, err := eng.Embed(in, out, p.tag, plaintext, p.offset)
	if err != nil {
		return res, err
	}
	if err = out.Flush(); err != nil {
		return res, fmt.Errorf("flushing output: %w", err)
	}

	size, err := to.Promote()
	if err != nil {
		return res, err
	}

	res.Offset = sp.Offset
	res.RecordSize = sp.RecordSize
	res.Checksum = sp.Checksum
	res.FileSize = size
	p.log.Info("payload embedded",
		"input", res.Input, "output", res.Output,
		"offset", res.Offset, "record", res.RecordSize)

	return res, nil
}

// Decode recovers the embedded payload from the input container and
// reconstructs the pre-splice original next to it.
func (p *Processor) Decode() (res Result, err error) {
	res = Result{Op: OpDecode, Input: p.cfg.Input, Output: p.cfg.Output}

	if p.cfg.Input == "" {
		return res, ErrMissingInput
	}
	if res.Output == "" {
		res.Output = restoredPath(p.cfg.Input)
	}

	eng, err := p.engine()
	if err != nil {
		return res, err
	}

	in, err := os.Open(filepath.Clean(p.cfg.Input))
	if err != nil {
		return res, fmt.Errorf("opening input file: %w", err)
	}
	defer in.Close()

	to, err := fileutil.NewTempOutput(res.Output)
	if err != nil {
		return res, fmt.Errorf("preparing atomic write: %w", err)
	}
	defer to.CleanupOnError(&err)

	out := bufio.NewWriter(to.File())
	sp, err := eng.Extract(in, out, p.offset)
	if err != nil {
		return res, err
	}
	if err = out.Flush(); err != nil {
		return res, fmt.Errorf("flushing output: %w", err)
	}

	secret := sp.Payload
	switch {
	case p.cfg.Compress:
		if secret, err = unpackPayload(secret); err != nil {
			return res, err
		}
	case p.alg.ZeroPadded():
		secret = cipher.TrimZeroPadding(secret)
	}

	size, err := to.Promote()
	if err != nil {
		return res, err
	}

	res.Offset = sp.Offset
	res.RecordSize = sp.RecordSize
	res.Checksum = sp.Checksum
	res.Secret = secret
	res.FileSize = size

	if p.cfg.SecretOut != "" {
		if err = os.WriteFile(p.cfg.SecretOut, secret, 0o600); err != nil {
			return res, fmt.Errorf("writing recovered payload: %w", err)
		}
	}
	p.log.Info("payload recovered",
		"input", res.Input, "output", res.Output,
		"offset", res.Offset, "secret", len(secret))

	return res, nil
}

// loadPayload resolves the embed payload from the inline flag or a file.
func (p *Processor) loadPayload() ([]byte, error) {
	switch {
	case p.cfg.PayloadFile != "":
		data, err := os.ReadFile(filepath.Clean(p.cfg.PayloadFile))
		if err != nil {
			return nil, fmt.Errorf("reading payload file: %w", err)
		}
		return data, nil
	case p.cfg.Payload != "":
		return []byte(p.cfg.Payload), nil
	}

	return nil, ErrMissingPayload
}

// Inspect walks the container structure of each file concurrently and
// hands finished reports to emit. Reports arrive in completion order,
// from a single goroutine.
func (p *Processor) Inspect(ctx context.Context, files []string, emit func(Result)) error {
	if len(files) == 0 {
		return ErrMissingInput
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	results := make(chan Result, len(files))
	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range results {
			emit(result)
		}
	}()

	for _, file := range files {
		file := file
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := p.inspectFile(file)
			results <- res

			return res.Error
		})
	}

	err := group.Wait()

	close(results)
	<-done // Wait for the printer to finish

	if err != nil {
		return fmt.Errorf("inspecting files: %w", err)
	}

	return nil
}

// inspectFile sniffs the container kind and walks its structure.
func (p *Processor) inspectFile(path string) Result {
	res := Result{Op: OpInspect, Input: path}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		res.Error = fmt.Errorf("opening input file: %w", err)
		return res
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		res.Error = fmt.Errorf("stat input file: %w", err)
		return res
	}
	res.FileSize = info.Size()

	var head [2]byte
	if _, err := io.ReadFull(f, head[:]); err != nil {
		res.Error = fmt.Errorf("%w: file too short", ErrUnknownContainer)
		return res
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		res.Error = fmt.Errorf("rewinding input: %w", err)
		return res
	}

	switch {
	case head[0] == 0x89 && head[1] == 'P':
		res.Kind = "png"
		res.Chunks, res.Error = p.walkChunks(f)
	case head[0] == 0xFF && head[1] == 0xD8:
		res.Kind = "jpeg"
		res.Segments, res.Error = jpeg.Scan(bufio.NewReader(f), p.log)
	default:
		res.Error = fmt.Errorf("%w: %#02x %#02x", ErrUnknownContainer, head[0], head[1])
	}

	return res
}

// walkChunks lists the chunk layout of a PNG up to the terminal record.
func (p *Processor) walkChunks(f *os.File) ([]ChunkInfo, error) {
	cur, err := png.NewCursor(f, p.log)
	if err != nil {
		return nil, err
	}

	limit := p.cfg.MaxChunks
	if limit <= 0 {
		limit = png.DefaultMaxScanChunks
	}

	var chunks []ChunkInfo
	for len(chunks) < limit {
		c, err := cur.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return chunks, err
		}

		info := ChunkInfo{
			Index:  len(chunks),
			Offset: cur.ChunkStart(),
			Length: c.Length,
			Label:  c.Label(),
			CRC:    c.CRC,
		}
		if n := min(p.cfg.HeadBytes, len(c.Data)); n > 0 {
			info.Head = append([]byte(nil), c.Data[:n]...)
		}
		chunks = append(chunks, info)

		if c.Terminal() {
			break
		}
	}

	return chunks, nil
}

// splicedPath names the embed output when no output flag is given.
func splicedPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + ".steg" + ext
}

// restoredPath names the decode output when no output flag is given.
func restoredPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + ".orig" + ext
}
