package dmi

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
	FormatXML  Format = "xml"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR, FormatXML, FormatCSV, FormatHTML}

var ErrChunkFormat = errors.New("chunk listings support text, json, yaml and cbor output")

func ParseFormat(name string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, format := range Formats {
		if format == normalized {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", name)
}

// WriteReports renders reports to w in the requested format.
func WriteReports(w io.Writer, format Format, reports []Report) error {
	var out []byte
	var err error
	switch format {
	case FormatText:
		out = []byte(RenderText(lipgloss.NewRenderer(w), reports) + "\n")
	case FormatJSON:
		out, err = RenderJSON(reports)
	case FormatYAML:
		out, err = RenderYAML(reports)
	case FormatCBOR:
		out, err = RenderCBOR(reports)
	case FormatXML:
		out = []byte(RenderXML(reports))
	case FormatCSV:
		out = []byte(RenderCSV(reports))
	case FormatHTML:
		out = []byte(RenderHTML(reports))
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func WriteChunkListings(w io.Writer, format Format, listings []ChunkListing) error {
	var out []byte
	var err error
	switch format {
	case FormatText:
		out = []byte(RenderChunksText(lipgloss.NewRenderer(w), listings) + "\n")
	case FormatJSON:
		out, err = marshalJSON(single(listings))
	case FormatYAML:
		out, err = marshalYAML(single(listings))
	case FormatCBOR:
		out, err = marshalCBOR(single(listings))
	default:
		return ErrChunkFormat
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
