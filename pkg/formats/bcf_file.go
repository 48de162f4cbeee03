package formats

import (
	"bytes"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/octacube/pkg/cube"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// IsCompressed reports whether data is a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// CompressBCF wraps an encoded tree in a zstd frame.
func CompressBCF(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// DecompressBCF unwraps a zstd frame produced by CompressBCF.
func DecompressBCF(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing BCF: %w", err)
	}
	return out, nil
}

// LoadBCF decodes raw or zstd-compressed BCF bytes.
func LoadBCF(data []byte) (*cube.Cube[uint8], error) {
	if IsCompressed(data) {
		raw, err := DecompressBCF(data)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return ParseBCF(data)
}

// ParseBCFFile parses a BCF file from disk. Compressed files are detected
// automatically.
func ParseBCFFile(path string) (*cube.Cube[uint8], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BCF file: %w", err)
	}
	return LoadBCF(data)
}

// WriteBCFFile encodes c and writes it to path, optionally zstd-compressed.
func WriteBCFFile(path string, c *cube.Cube[uint8], compress bool) error {
	data := SerializeBCF(c)
	if compress {
		var err error
		if data, err = CompressBCF(data); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing BCF file: %w", err)
	}
	return nil
}
