package dmi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
)

const (
	descriptionKeyword = "Description"

	// The keyword's NUL separator must fall within the first 79 bytes of
	// the payload.
	keywordWindow = 79

	compressionDeflate = 0

	DefaultMaxDescriptionBytes int64 = 64 << 20
)

// DescriptionSource is the payload of a Description text chunk, either
// stored verbatim (tEXt) or zlib compressed (zTXt).
type DescriptionSource interface {
	// Text returns the description text, refusing to produce more than
	// limit bytes.
	Text(limit int64) (string, error)
	isDescriptionSource()
}

type RawText struct {
	Keyword string
	Data    []byte
}

type CompressedText struct {
	Keyword string
	Method  byte
	Data    []byte
}

func (RawText) isDescriptionSource()        {}
func (CompressedText) isDescriptionSource() {}

func (s RawText) Text(limit int64) (string, error) {
	if int64(len(s.Data)) > limit {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrDescriptionTooLarge, len(s.Data), limit)
	}
	return validText(s.Data)
}

func (s CompressedText) Text(limit int64) (string, error) {
	if s.Method != compressionDeflate {
		return "", fmt.Errorf("%w: method %d", ErrUnsupportedCompression, s.Method)
	}
	inflated, err := inflate(s.Data, limit)
	if err != nil {
		return "", err
	}
	return validText(inflated)
}

// decodeTextChunk classifies a tEXt or zTXt chunk. ok is false for text
// chunks carrying some other keyword and for non-text chunks.
func decodeTextChunk(chunk Chunk) (source DescriptionSource, ok bool, err error) {
	if chunk.Type != ChunkText && chunk.Type != ChunkCompressedText {
		return nil, false, nil
	}

	keyword, rest, err := splitKeyword(chunk.Data)
	if err != nil {
		return nil, false, err
	}
	if !bytes.Equal(keyword, []byte(descriptionKeyword)) {
		return nil, false, nil
	}

	switch chunk.Type {
	case ChunkText:
		return RawText{Keyword: descriptionKeyword, Data: rest}, true, nil
	case ChunkCompressedText:
		if len(rest) == 0 {
			return nil, false, fmt.Errorf("%w: missing method byte", ErrUnsupportedCompression)
		}
		return CompressedText{Keyword: descriptionKeyword, Method: rest[0], Data: rest[1:]}, true, nil
	}
	return nil, false, nil
}

func splitKeyword(payload []byte) (keyword, rest []byte, err error) {
	window := payload
	if len(window) > keywordWindow {
		window = window[:keywordWindow]
	}
	idx := bytes.IndexByte(window, 0)
	if idx < 0 {
		return nil, nil, ErrMissingKeywordTerminator
	}
	return payload[:idx], payload[idx+1:], nil
}

func inflate(compressed []byte, limit int64) ([]byte, error) {
	// One byte past the limit is read to detect overflow.
	if limit > math.MaxInt64-1 {
		limit = math.MaxInt64 - 1
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
	}
	defer zr.Close()

	// Text compresses well; start at a few times the input and let the
	// buffer grow from there.
	hint := int64(len(compressed)) * 4
	if hint > limit {
		hint = limit
	}
	var buf bytes.Buffer
	buf.Grow(int(hint))

	n, err := io.Copy(&buf, io.LimitReader(zr, limit+1))
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: stream ends early", ErrDecompressionFailed)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
	}
	if n > limit {
		return nil, fmt.Errorf("%w: more than %d bytes inflated", ErrDescriptionTooLarge, limit)
	}
	return buf.Bytes(), nil
}

// validText copies data into a string so the result never aliases the
// input file buffer.
func validText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidText
	}
	return string(data), nil
}
