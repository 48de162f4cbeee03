package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Faultbox/octacube/pkg/cube"
)

// BCF format errors.
var (
	ErrInvalidBCFMagic       = errors.New("invalid BCF magic: expected 'BCF1'")
	ErrUnsupportedBCFVersion = errors.New("unsupported BCF version")
	ErrTruncatedBCFData      = errors.New("truncated BCF data")
	ErrInvalidBCFNode        = errors.New("invalid BCF node type")
	ErrBCFTooDeep            = errors.New("BCF tree too deep")
)

// BCF layout constants.
const (
	BCFMagic      = "BCF1"
	BCFVersion    = 1 // written by SerializeBCF; version 0 is also accepted
	BCFHeaderSize = 12
	BCFMaxDepth   = 64
)

// Node type bytes. Values 0x00-0x7F are inline leaves.
const (
	bcfExtendedLeaf  byte = 0x80 // followed by one value byte
	bcfOctaLeaves    byte = 0x90 // followed by eight value bytes
	bcfOctaPointers  byte = 0xA0 // followed by eight encoded children
	bcfInlineMaxLeaf byte = 0x7F
)

// BCFHeader is the fixed 12-byte file header.
type BCFHeader struct {
	Version uint32
	Length  uint32 // total size including the header
}

// SerializeBCF encodes a tree depth-first in octant order.
func SerializeBCF(c *cube.Cube[uint8]) []byte {
	buf := new(bytes.Buffer)

	buf.WriteString(BCFMagic)
	binary.Write(buf, binary.LittleEndian, uint32(BCFVersion))
	binary.Write(buf, binary.LittleEndian, uint32(0)) // length, patched below

	writeBCFNode(buf, c)

	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[8:12], uint32(len(data)))
	return data
}

func writeBCFNode(buf *bytes.Buffer, c *cube.Cube[uint8]) {
	if v, ok := c.IsSolid(); ok {
		writeBCFLeaf(buf, v)
		return
	}

	children := c.Children()
	allLeaves := true
	for _, ch := range children {
		if !ch.IsLeaf() {
			allLeaves = false
			break
		}
	}

	if allLeaves {
		buf.WriteByte(bcfOctaLeaves)
		for _, ch := range children {
			v, _ := ch.IsSolid()
			buf.WriteByte(v)
		}
		return
	}

	buf.WriteByte(bcfOctaPointers)
	for _, ch := range children {
		writeBCFNode(buf, ch)
	}
}

func writeBCFLeaf(buf *bytes.Buffer, v uint8) {
	if v <= bcfInlineMaxLeaf {
		buf.WriteByte(v)
		return
	}
	buf.WriteByte(bcfExtendedLeaf)
	buf.WriteByte(v)
}

// ParseBCFHeader validates and decodes the header.
func ParseBCFHeader(data []byte) (BCFHeader, error) {
	if len(data) < BCFHeaderSize {
		return BCFHeader{}, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncatedBCFData, len(data), BCFHeaderSize)
	}

	if string(data[0:4]) != BCFMagic {
		return BCFHeader{}, ErrInvalidBCFMagic
	}

	h := BCFHeader{
		Version: binary.LittleEndian.Uint32(data[4:8]),
		Length:  binary.LittleEndian.Uint32(data[8:12]),
	}

	if h.Version > BCFVersion {
		return BCFHeader{}, fmt.Errorf("%w: %d", ErrUnsupportedBCFVersion, h.Version)
	}

	if h.Length < BCFHeaderSize || int64(h.Length) > int64(len(data)) {
		return BCFHeader{}, fmt.Errorf("%w: header declares %d bytes, have %d", ErrTruncatedBCFData, h.Length, len(data))
	}

	return h, nil
}

// ParseBCF decodes a BCF byte stream. Bytes after the declared length are ignored.
func ParseBCF(data []byte) (*cube.Cube[uint8], error) {
	h, err := ParseBCFHeader(data)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(data[BCFHeaderSize:h.Length])
	root, err := parseBCFNode(r, 0)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// parseBCFNode reads one node and its subtree.
func parseBCFNode(r *bytes.Reader, depth int) (*cube.Cube[uint8], error) {
	if depth > BCFMaxDepth {
		return nil, fmt.Errorf("%w: more than %d levels", ErrBCFTooDeep, BCFMaxDepth)
	}

	offset := BCFHeaderSize + r.Size() - int64(r.Len())
	b, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: node at offset %d", ErrTruncatedBCFData, offset)
	}

	switch {
	case b <= bcfInlineMaxLeaf:
		return cube.Solid(b), nil

	case b == bcfExtendedLeaf:
		v, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: extended leaf at offset %d", ErrTruncatedBCFData, offset)
		}
		return cube.Solid(v), nil

	case b == bcfOctaLeaves:
		var values [8]byte
		if _, err := io.ReadFull(r, values[:]); err != nil {
			return nil, fmt.Errorf("%w: leaf octa at offset %d", ErrTruncatedBCFData, offset)
		}
		return cube.Tabulate(func(i int) *cube.Cube[uint8] {
			return cube.Solid(values[i])
		}), nil

	case b == bcfOctaPointers:
		var children [8]*cube.Cube[uint8]
		for i := range children {
			child, err := parseBCFNode(r, depth+1)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return cube.Subdivided(children), nil

	default:
		return nil, fmt.Errorf("%w: 0x%02X at offset %d", ErrInvalidBCFNode, b, offset)
	}
}
