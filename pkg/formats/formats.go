// Package formats reads and writes octree model files.
//
// Two formats are supported: BCF, a compact binary encoding that may be
// wrapped in a zstd frame, and CSM, a line-oriented text format.
package formats

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/octacube/pkg/cube"
)

// Format identifies a model file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatBCF
	FormatCSM
)

func (f Format) String() string {
	switch f {
	case FormatBCF:
		return "bcf"
	case FormatCSM:
		return "csm"
	default:
		return "unknown"
	}
}

// FormatFromPath picks a format from the file extension.
// ".bcf" and ".bcf.zst" map to BCF, ".csm" to CSM.
func FormatFromPath(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".bcf"), strings.HasSuffix(name, ".bcf.zst"):
		return FormatBCF
	case strings.HasSuffix(name, ".csm"):
		return FormatCSM
	default:
		return FormatUnknown
	}
}

// SniffFormat guesses the format of file contents. Anything that is not a
// BCF header or a zstd frame is treated as CSM text.
func SniffFormat(data []byte) Format {
	if IsCompressed(data) || bytes.HasPrefix(data, []byte(BCFMagic)) {
		return FormatBCF
	}
	return FormatCSM
}

// Load reads a model from path. The extension decides the format; unknown
// extensions fall back to sniffing the contents.
func Load(path string) (*cube.Cube[uint8], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}

	format := FormatFromPath(path)
	if format == FormatUnknown {
		format = SniffFormat(data)
	}

	switch format {
	case FormatBCF:
		return LoadBCF(data)
	default:
		m, err := ParseCSM(string(data))
		if err != nil {
			return nil, err
		}
		return m.Root, nil
	}
}

// Save writes c to path in the format implied by its extension. compress
// only applies to BCF.
func Save(path string, c *cube.Cube[uint8], compress bool) error {
	switch FormatFromPath(path) {
	case FormatBCF:
		return WriteBCFFile(path, c, compress)
	case FormatCSM:
		return WriteCSMFile(path, c)
	default:
		return fmt.Errorf("unknown model format for %q", path)
	}
}
