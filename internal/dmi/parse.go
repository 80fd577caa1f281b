package dmi

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

type Options struct {
	// Lenient skips malformed text chunks instead of failing the parse.
	Lenient bool
	// MaxDescriptionBytes caps the decoded description size. Zero means
	// DefaultMaxDescriptionBytes.
	MaxDescriptionBytes int64
	Logger              *slog.Logger
}

func (o Options) limit() int64 {
	if o.MaxDescriptionBytes > 0 {
		return o.MaxDescriptionBytes
	}
	return DefaultMaxDescriptionBytes
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Parse decodes the Description metadata of a DMI file held in memory.
func Parse(data []byte) (*IconFile, error) {
	return ParseWithOptions(data, Options{})
}

func ParseWithOptions(data []byte, opts Options) (*IconFile, error) {
	text, err := findDescription(data, opts)
	if err != nil {
		return nil, err
	}
	return ParseDescription(text)
}

// LoadIconFile reads and parses the DMI file at path.
func LoadIconFile(path string) (*IconFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// findDescription returns the text of the first Description chunk.
func findDescription(data []byte, opts Options) (string, error) {
	scanner, err := NewChunkScanner(data)
	if err != nil {
		return "", err
	}
	logger := opts.logger()
	for {
		chunk, err := scanner.Next()
		if err == io.EOF {
			return "", ErrNoDescriptionChunk
		}
		if err != nil {
			return "", err
		}

		text, ok, err := descriptionText(chunk, opts.limit())
		if err != nil {
			if opts.Lenient && isChunkError(err) {
				logger.Warn("skipping malformed text chunk", "type", chunk.Name(), "offset", chunk.Offset, "error", err)
				continue
			}
			return "", err
		}
		if !ok {
			if chunk.Type == ChunkText || chunk.Type == ChunkCompressedText {
				logger.Debug("skipping text chunk", "type", chunk.Name(), "offset", chunk.Offset)
			}
			continue
		}
		logger.Debug("found description", "type", chunk.Name(), "offset", chunk.Offset, "bytes", len(text))
		return text, nil
	}
}

func descriptionText(chunk Chunk, limit int64) (string, bool, error) {
	source, ok, err := decodeTextChunk(chunk)
	if err == nil && ok {
		var text string
		text, err = source.Text(limit)
		if err == nil {
			return text, true, nil
		}
	}
	if err != nil {
		return "", false, &ChunkError{Type: chunk.Name(), Offset: chunk.Offset, Err: err}
	}
	return "", false, nil
}

// isChunkError reports whether err is confined to one text chunk, so a
// lenient scan may move on to the next.
func isChunkError(err error) bool {
	var chunkErr *ChunkError
	if !errors.As(err, &chunkErr) {
		return false
	}
	return !errors.Is(err, ErrDescriptionTooLarge)
}
