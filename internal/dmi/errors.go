package dmi

import (
	"errors"
	"fmt"
)

var (
	ErrBadSignature             = errors.New("not a PNG file")
	ErrTruncated                = errors.New("truncated chunk")
	ErrMissingKeywordTerminator = errors.New("text chunk keyword is not NUL terminated")
	ErrUnsupportedCompression   = errors.New("unsupported text chunk compression method")
	ErrDecompressionFailed      = errors.New("text chunk decompression failed")
	ErrDescriptionTooLarge      = errors.New("description exceeds size limit")
	ErrInvalidText              = errors.New("description is not valid UTF-8")
	ErrNoDescriptionChunk       = errors.New("no Description text chunk")

	ErrInvalidDirection  = errors.New("dirs must be 1, 4 or 8")
	ErrInvalidFrameCount = errors.New("frames must be between 1 and 255")
	ErrDelayMismatch     = errors.New("delay count does not match frames")
	ErrInvalidValue      = errors.New("invalid value")
	ErrMalformedLine     = errors.New("expected key = value")
	ErrMisplacedField    = errors.New("field not allowed here")
	ErrDuplicateField    = errors.New("field repeated")
	ErrMissingDimension  = errors.New("width and height are required")
)

// ErrorKind is a stable, machine readable name for a failure class.
type ErrorKind string

const (
	KindNone                     ErrorKind = ""
	KindBadSignature             ErrorKind = "bad_signature"
	KindTruncated                ErrorKind = "truncated"
	KindMissingKeywordTerminator ErrorKind = "missing_keyword_terminator"
	KindUnsupportedCompression   ErrorKind = "unsupported_compression"
	KindDecompressionFailed      ErrorKind = "decompression_failed"
	KindDescriptionTooLarge      ErrorKind = "description_too_large"
	KindInvalidText              ErrorKind = "invalid_text"
	KindNoDescriptionChunk       ErrorKind = "no_description_chunk"
	KindInvalidDirection         ErrorKind = "invalid_direction"
	KindInvalidFrameCount        ErrorKind = "invalid_frame_count"
	KindDelayMismatch            ErrorKind = "delay_mismatch"
	KindInvalidValue             ErrorKind = "invalid_value"
	KindMalformedLine            ErrorKind = "malformed_line"
	KindMisplacedField           ErrorKind = "misplaced_field"
	KindDuplicateField           ErrorKind = "duplicate_field"
	KindMissingDimension         ErrorKind = "missing_dimension"
	KindIO                       ErrorKind = "io"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrBadSignature, KindBadSignature},
	{ErrTruncated, KindTruncated},
	{ErrMissingKeywordTerminator, KindMissingKeywordTerminator},
	{ErrUnsupportedCompression, KindUnsupportedCompression},
	{ErrDecompressionFailed, KindDecompressionFailed},
	{ErrDescriptionTooLarge, KindDescriptionTooLarge},
	{ErrInvalidText, KindInvalidText},
	{ErrNoDescriptionChunk, KindNoDescriptionChunk},
	{ErrInvalidDirection, KindInvalidDirection},
	{ErrInvalidFrameCount, KindInvalidFrameCount},
	{ErrDelayMismatch, KindDelayMismatch},
	{ErrInvalidValue, KindInvalidValue},
	{ErrMalformedLine, KindMalformedLine},
	{ErrMisplacedField, KindMisplacedField},
	{ErrDuplicateField, KindDuplicateField},
	{ErrMissingDimension, KindMissingDimension},
}

// KindOf classifies err. Errors that do not wrap one of the package
// sentinels (file system failures, for example) are reported as KindIO.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, entry := range errorKinds {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}
	return KindIO
}

// ChunkError reports a malformed text chunk.
type ChunkError struct {
	Type   string
	Offset int64
	Err    error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%s chunk at offset %d: %v", e.Type, e.Offset, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// SyntaxError reports a description line that could not be parsed.
// Line is 1-based; Text is the offending line as it appeared in the
// description. Line is 0 for problems only detectable at end of input.
type SyntaxError struct {
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("description: %v", e.Err)
	}
	return fmt.Sprintf("description line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
