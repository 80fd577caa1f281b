package dmi

import "errors"

// Document is the structured form of a Report used by the JSON, YAML
// and CBOR outputs. Exactly one of Icon and Error is set.
type Document struct {
	Ref    string         `json:"ref" yaml:"ref" cbor:"ref"`
	Size   int64          `json:"size,omitempty" yaml:"size,omitempty" cbor:"size,omitempty"`
	Canvas *CanvasInfo    `json:"canvas,omitempty" yaml:"canvas,omitempty" cbor:"canvas,omitempty"`
	Digest string         `json:"digest,omitempty" yaml:"digest,omitempty" cbor:"digest,omitempty"`
	Icon   *IconFile      `json:"icon,omitempty" yaml:"icon,omitempty" cbor:"icon,omitempty"`
	Error  *ErrorDocument `json:"error,omitempty" yaml:"error,omitempty" cbor:"error,omitempty"`
}

type ErrorDocument struct {
	Kind    ErrorKind `json:"kind" yaml:"kind" cbor:"kind"`
	Message string    `json:"message" yaml:"message" cbor:"message"`
	Line    int       `json:"line,omitempty" yaml:"line,omitempty" cbor:"line,omitempty"`
	Text    string    `json:"text,omitempty" yaml:"text,omitempty" cbor:"text,omitempty"`
}

func NewDocument(report Report) Document {
	doc := Document{
		Ref:    report.Ref,
		Size:   report.Size,
		Canvas: report.Canvas,
		Digest: report.Digest,
		Icon:   report.Icon,
	}
	if report.Err != nil {
		doc.Error = newErrorDocument(report.Err)
	}
	return doc
}

func newErrorDocument(err error) *ErrorDocument {
	doc := &ErrorDocument{Kind: KindOf(err), Message: err.Error()}
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		doc.Line = syntaxErr.Line
		doc.Text = syntaxErr.Text
	}
	return doc
}

// ChunkListing is the chunk table of one file.
type ChunkListing struct {
	Ref    string         `json:"ref" yaml:"ref" cbor:"ref"`
	Chunks []ChunkInfo    `json:"chunks" yaml:"chunks" cbor:"chunks"`
	Error  *ErrorDocument `json:"error,omitempty" yaml:"error,omitempty" cbor:"error,omitempty"`
}

func NewChunkListing(ref string, data []byte) ChunkListing {
	chunks, err := ListChunks(data)
	listing := ChunkListing{Ref: ref, Chunks: chunks}
	if listing.Chunks == nil {
		listing.Chunks = []ChunkInfo{}
	}
	if err != nil {
		listing.Error = newErrorDocument(err)
	}
	return listing
}

func documents(reports []Report) []Document {
	docs := make([]Document, 0, len(reports))
	for _, report := range reports {
		docs = append(docs, NewDocument(report))
	}
	return docs
}

// single returns the lone element of a one-file run so single-file
// output is an object rather than a one-element list.
func single[T any](items []T) any {
	if len(items) == 1 {
		return items[0]
	}
	return items
}
