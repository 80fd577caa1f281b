package dmi

import (
	"encoding/binary"
	"fmt"
	"io"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// length + type + CRC
const chunkOverhead = 12

type ChunkType int

const (
	ChunkOther ChunkType = iota
	ChunkIHDR
	ChunkText
	ChunkCompressedText
	ChunkIEND
)

func chunkTypeOf(tag [4]byte) ChunkType {
	switch string(tag[:]) {
	case "IHDR":
		return ChunkIHDR
	case "tEXt":
		return ChunkText
	case "zTXt":
		return ChunkCompressedText
	case "IEND":
		return ChunkIEND
	}
	return ChunkOther
}

func (t ChunkType) String() string {
	switch t {
	case ChunkIHDR:
		return "IHDR"
	case ChunkText:
		return "tEXt"
	case ChunkCompressedText:
		return "zTXt"
	case ChunkIEND:
		return "IEND"
	}
	return "other"
}

// Chunk is one framed PNG chunk. Data aliases the scanned buffer and is
// only valid until the caller stops using the scanner's input.
type Chunk struct {
	Type   ChunkType
	Tag    [4]byte
	Offset int64
	Length uint32
	Data   []byte
	CRC    uint32
}

func (c Chunk) Name() string {
	return string(c.Tag[:])
}

// ChunkScanner walks the chunk stream of an in-memory PNG. It holds no
// chunk state between calls to Next.
type ChunkScanner struct {
	data []byte
	pos  int64
	done bool
}

func NewChunkScanner(data []byte) (*ChunkScanner, error) {
	if len(data) < len(pngSignature) || string(data[:len(pngSignature)]) != pngSignature {
		return nil, ErrBadSignature
	}
	return &ChunkScanner{data: data, pos: int64(len(pngSignature))}, nil
}

// Next returns the next chunk, or io.EOF once IEND has been returned or
// the input is exhausted on a chunk boundary.
func (s *ChunkScanner) Next() (Chunk, error) {
	if s.done {
		return Chunk{}, io.EOF
	}
	remaining := int64(len(s.data)) - s.pos
	if remaining == 0 {
		s.done = true
		return Chunk{}, io.EOF
	}
	if remaining < 8 {
		s.done = true
		return Chunk{}, fmt.Errorf("%w: chunk header at offset %d needs 8 bytes, %d remain", ErrTruncated, s.pos, remaining)
	}

	header := s.data[s.pos : s.pos+8]
	length := binary.BigEndian.Uint32(header[0:4])
	var tag [4]byte
	copy(tag[:], header[4:8])

	frame := int64(length) + chunkOverhead
	if frame > remaining {
		s.done = true
		return Chunk{}, fmt.Errorf("%w: %s chunk at offset %d declares %d bytes, %d remain", ErrTruncated, tag[:], s.pos, length, remaining-chunkOverhead)
	}

	start := s.pos + 8
	end := start + int64(length)
	chunk := Chunk{
		Type:   chunkTypeOf(tag),
		Tag:    tag,
		Offset: s.pos,
		Length: length,
		Data:   s.data[start:end:end],
		CRC:    binary.BigEndian.Uint32(s.data[end : end+4]),
	}
	s.pos += frame
	if chunk.Type == ChunkIEND {
		s.done = true
	}
	return chunk, nil
}

// ChunkInfo describes a chunk without its payload.
type ChunkInfo struct {
	Index  int    `json:"index" yaml:"index" cbor:"index"`
	Type   string `json:"type" yaml:"type" cbor:"type"`
	Offset int64  `json:"offset" yaml:"offset" cbor:"offset"`
	Length uint32 `json:"length" yaml:"length" cbor:"length"`
	CRC    uint32 `json:"crc" yaml:"crc" cbor:"crc"`
}

// ListChunks scans every chunk in data.
func ListChunks(data []byte) ([]ChunkInfo, error) {
	scanner, err := NewChunkScanner(data)
	if err != nil {
		return nil, err
	}
	var infos []ChunkInfo
	for i := 0; ; i++ {
		chunk, err := scanner.Next()
		if err == io.EOF {
			return infos, nil
		}
		if err != nil {
			return infos, err
		}
		infos = append(infos, ChunkInfo{
			Index:  i,
			Type:   chunk.Name(),
			Offset: chunk.Offset,
			Length: chunk.Length,
			CRC:    chunk.CRC,
		})
	}
}

// CanvasInfo describes the whole PNG image as declared by IHDR.
type CanvasInfo struct {
	Width      int    `json:"width" yaml:"width" cbor:"width"`
	Height     int    `json:"height" yaml:"height" cbor:"height"`
	BitDepth   int    `json:"bit_depth" yaml:"bit_depth" cbor:"bit_depth"`
	ColorSpace string `json:"color_space" yaml:"color_space" cbor:"color_space"`
}

func parsePNGInfo(data []byte) (CanvasInfo, bool) {
	// Minimal PNG parse: signature + IHDR.
	scanner, err := NewChunkScanner(data)
	if err != nil {
		return CanvasInfo{}, false
	}
	chunk, err := scanner.Next()
	if err != nil || chunk.Type != ChunkIHDR || len(chunk.Data) < 13 {
		return CanvasInfo{}, false
	}
	ihdr := chunk.Data
	w := int(binary.BigEndian.Uint32(ihdr[0:4]))
	h := int(binary.BigEndian.Uint32(ihdr[4:8]))
	bitDepth := int(ihdr[8])
	colorType := ihdr[9]

	cs := ""
	switch colorType {
	case 0, 4: // grayscale / grayscale+alpha
		cs = "Y"
	case 2, 6: // truecolor / truecolor+alpha
		cs = "RGB"
	case 3:
		cs = "Indexed"
	}

	return CanvasInfo{Width: w, Height: h, BitDepth: bitDepth, ColorSpace: cs}, true
}
