package compressor

import (
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
	"github.com/semmidev/archivist/internal/domain"
	"github.com/ulikunitz/xz"
)

// newCodecWriter wraps w with the streaming encoder for format.
func newCodecWriter(w io.Writer, format domain.Format) (io.WriteCloser, error) {
	switch format {
	case domain.Gzip:
		gw, err := pgzip.NewWriterLevel(w, pgzip.BestCompression)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip writer: %w", err)
		}
		return gw, nil
	case domain.Bzip2:
		bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
		if err != nil {
			return nil, fmt.Errorf("failed to create bzip2 writer: %w", err)
		}
		return bw, nil
	case domain.Xz:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xw, nil
	case domain.Zstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, nil
	case domain.Lz4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported archive type %q", format)
	}
}
