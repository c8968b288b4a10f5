package buffer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
)

// Codec selects a compression algorithm
type Codec uint8

const (
	CodecNone Codec = iota
	CodecSnappy
	CodecZstd
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecSnappy:
		return "snappy"
	case CodecZstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// ParseCodec maps a case-insensitive codec name onto a Codec
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return CodecNone, nil
	case "snappy":
		return CodecSnappy, nil
	case "zstd":
		return CodecZstd, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
	}
}

// Compressor compresses view contents and restores them as read-only memory.
type Compressor struct {
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	metrics     Metrics

	mu     sync.RWMutex
	closed bool
}

// CompressorOption configures a Compressor
type CompressorOption func(*compressorOptions)

type compressorOptions struct {
	level   zstd.EncoderLevel
	metrics Metrics
}

// WithEncoderLevel sets the zstd compression level
func WithEncoderLevel(level zstd.EncoderLevel) CompressorOption {
	return func(o *compressorOptions) {
		o.level = level
	}
}

// WithCompressorMetrics sets the metrics sink
func WithCompressorMetrics(m Metrics) CompressorOption {
	return func(o *compressorOptions) {
		o.metrics = m
	}
}

// NewCompressor creates a compressor with initialized codecs
func NewCompressor(opts ...CompressorOption) (*Compressor, error) {
	o := compressorOptions{
		level:   zstd.SpeedDefault,
		metrics: NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(o.level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder with level %v: %w", o.level, err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Compressor{
		zstdEncoder: enc,
		zstdDecoder: dec,
		metrics:     o.metrics,
	}, nil
}

// Compress encodes the bytes visible through v
func (c *Compressor) Compress(ctx context.Context, v *View, codec Codec) ([]byte, error) {
	start := time.Now()
	data := v.mem.data

	out, err := c.compress(data, codec)
	c.metrics.RecordCodec(ctx, opCompress, codec, len(data), len(out), start, err)
	return out, err
}

func (c *Compressor) compress(data []byte, codec Codec) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrCompressorClosed
	}

	switch codec {
	case CodecNone:
		return bytes.Clone(data), nil
	case CodecZstd:
		return c.zstdEncoder.EncodeAll(data, nil), nil
	case CodecSnappy:
		return snappy.Encode(nil, data), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCodec, codec)
	}
}

// Decompress decodes data into a fresh read-only region
func (c *Compressor) Decompress(ctx context.Context, data []byte, codec Codec) (Memory, error) {
	start := time.Now()

	out, err := c.decompress(data, codec)
	c.metrics.RecordCodec(ctx, opDecompress, codec, len(data), len(out), start, err)
	if err != nil {
		return Memory{}, err
	}
	return ReadOnlyMemory(out), nil
}

func (c *Compressor) decompress(data []byte, codec Codec) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrCompressorClosed
	}

	switch codec {
	case CodecNone:
		return bytes.Clone(data), nil
	case CodecZstd:
		if len(data) == 0 {
			return nil, nil
		}
		out, err := c.zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCompressedData, err)
		}
		return out, nil
	case CodecSnappy:
		out, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCompressedData, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCodec, codec)
	}
}

// Close releases the zstd encoder and decoder
func (c *Compressor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.zstdDecoder.Close()
	return c.zstdEncoder.Close()
}
