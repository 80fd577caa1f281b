package dmi

type StreamKind string

const (
	StreamGeneral StreamKind = "General"
	StreamState   StreamKind = "State"
)

// Field is one labelled line of a report. Key is the machine name used
// by the XML output.
type Field struct {
	Name  string
	Key   string
	Value string
}

type Stream struct {
	Kind   StreamKind
	Fields []Field
}

// Report is the analysis of one file. Icon is nil when Err is set.
type Report struct {
	Ref     string
	Size    int64
	Canvas  *CanvasInfo
	Digest  string
	Icon    *IconFile
	Err     error
	General Stream
	Streams []Stream
}

func (r Report) Failed() bool {
	return r.Err != nil
}

func appendField(fields []Field, name, key, value string) []Field {
	if value == "" {
		return fields
	}
	return append(fields, Field{Name: name, Key: key, Value: value})
}
