package buffer

import (
	"bytes"
	"context"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KevoDB/interop/pkg/stats"
)

func TestCompressRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewCompressor()
	require.NoError(t, err)
	defer c.Close()

	payload := bytes.Repeat([]byte("interop buffer "), 64)
	src := NewSource(MutableMemory(payload))
	v, err := src.Acquire(ctx, FlagSimple)
	require.NoError(t, err)

	for _, codec := range []Codec{CodecNone, CodecSnappy, CodecZstd} {
		t.Run(codec.String(), func(t *testing.T) {
			packed, err := c.Compress(ctx, v, codec)
			require.NoError(t, err)
			if codec != CodecNone {
				assert.Less(t, len(packed), len(payload))
			}

			mem, err := c.Decompress(ctx, packed, codec)
			require.NoError(t, err)
			assert.False(t, mem.IsMutable())

			restored, err := NewSource(mem).Acquire(ctx, FlagSimple)
			require.NoError(t, err)
			assert.Equal(t, v.Checksum(), restored.Checksum())

			_, err = NewSource(mem).Acquire(ctx, FlagWritable)
			assert.True(t, IsNotWritable(err))
		})
	}
}

func TestCompressEmpty(t *testing.T) {
	ctx := context.Background()
	c, err := NewCompressor(WithEncoderLevel(zstd.SpeedFastest))
	require.NoError(t, err)
	defer c.Close()

	v, err := NewSource(ReadOnlyMemory(nil)).Acquire(ctx, FlagSimple)
	require.NoError(t, err)

	for _, codec := range []Codec{CodecSnappy, CodecZstd} {
		packed, err := c.Compress(ctx, v, codec)
		require.NoError(t, err)
		mem, err := c.Decompress(ctx, packed, codec)
		require.NoError(t, err)
		assert.Equal(t, 0, mem.Len())
	}
}

func TestDecompressCorrupt(t *testing.T) {
	c, err := NewCompressor()
	require.NoError(t, err)
	defer c.Close()

	for _, codec := range []Codec{CodecSnappy, CodecZstd} {
		_, err := c.Decompress(context.Background(), []byte{0xff, 0xfe, 0xfd, 0xfc}, codec)
		assert.ErrorIs(t, err, ErrInvalidCompressedData, codec.String())
	}
}

func TestUnknownCodec(t *testing.T) {
	c, err := NewCompressor()
	require.NoError(t, err)
	defer c.Close()

	v, err := NewSource(ReadOnlyMemory([]byte{1})).Acquire(context.Background(), FlagSimple)
	require.NoError(t, err)

	_, err = c.Compress(context.Background(), v, Codec(9))
	assert.ErrorIs(t, err, ErrUnknownCodec)
	_, err = c.Decompress(context.Background(), []byte{1}, Codec(9))
	assert.ErrorIs(t, err, ErrUnknownCodec)
	assert.Equal(t, "codec(9)", Codec(9).String())
}

func TestParseCodec(t *testing.T) {
	for name, want := range map[string]Codec{"": CodecNone, "NONE": CodecNone, "snappy": CodecSnappy, "Zstd": CodecZstd} {
		got, err := ParseCodec(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCodec("lz4")
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestCompressorClose(t *testing.T) {
	c, err := NewCompressor()
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	v, err := NewSource(ReadOnlyMemory([]byte{1})).Acquire(context.Background(), FlagSimple)
	require.NoError(t, err)
	_, err = c.Compress(context.Background(), v, CodecZstd)
	assert.ErrorIs(t, err, ErrCompressorClosed)
	_, err = c.Decompress(context.Background(), []byte{1}, CodecSnappy)
	assert.ErrorIs(t, err, ErrCompressorClosed)
}

func TestCompressorMetrics(t *testing.T) {
	collector := stats.NewAtomicCollector()
	c, err := NewCompressor(WithCompressorMetrics(NewMetrics(nil, collector)))
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	v, err := NewSource(ReadOnlyMemory([]byte("abcdabcd"))).Acquire(ctx, FlagSimple)
	require.NoError(t, err)

	packed, err := c.Compress(ctx, v, CodecSnappy)
	require.NoError(t, err)
	_, err = c.Decompress(ctx, packed, CodecSnappy)
	require.NoError(t, err)

	s := collector.GetStats()
	assert.Equal(t, uint64(1), s["compress_ops"])
	assert.Equal(t, uint64(1), s["decompress_ops"])
	assert.Equal(t, uint64(8+len(packed)), s["total_bytes_read"])
	assert.Equal(t, uint64(len(packed)+8), s["total_bytes_written"])
}
