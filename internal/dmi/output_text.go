package dmi

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type textStyles struct {
	title lipgloss.Style
	err   lipgloss.Style
}

func newTextStyles(renderer *lipgloss.Renderer) textStyles {
	return textStyles{
		title: renderer.NewStyle().Bold(true),
		err:   renderer.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// RenderText renders reports as aligned name/value blocks, one block per
// track. Styling degrades to plain text when the renderer's output is
// not a terminal.
func RenderText(renderer *lipgloss.Renderer, reports []Report) string {
	styles := newTextStyles(renderer)
	var buf bytes.Buffer
	for i, report := range reports {
		if i > 0 {
			buf.WriteString("\n")
		}
		writeStream(&buf, styles, string(report.General.Kind), report.General)
		for _, entry := range enumerateStreams(report.Streams) {
			buf.WriteString("\n")
			writeStream(&buf, styles, entry.Title, entry.Stream)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeStream(buf *bytes.Buffer, styles textStyles, title string, stream Stream) {
	buf.WriteString(styles.title.Render(title))
	buf.WriteString("\n")
	for _, field := range stream.Fields {
		buf.WriteString(padRight(field.Name, 36))
		buf.WriteString(": ")
		if field.Key == "Error" {
			buf.WriteString(styles.err.Render(field.Value))
		} else {
			buf.WriteString(field.Value)
		}
		buf.WriteString("\n")
	}
}

func RenderChunksText(renderer *lipgloss.Renderer, listings []ChunkListing) string {
	styles := newTextStyles(renderer)
	var buf bytes.Buffer
	for i, listing := range listings {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(styles.title.Render(listing.Ref))
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "%-5s %-4s %10s %10s %s\n", "#", "Type", "Offset", "Length", "CRC")
		for _, chunk := range listing.Chunks {
			fmt.Fprintf(&buf, "%-5d %-4s %10d %10d %08x\n", chunk.Index, chunk.Type, chunk.Offset, chunk.Length, chunk.CRC)
		}
		if listing.Error != nil {
			buf.WriteString(styles.err.Render("error: " + listing.Error.Message))
			buf.WriteString("\n")
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func padRight(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}

type titledStream struct {
	Title  string
	Stream Stream
}

func enumerateStreams(streams []Stream) []titledStream {
	counts := map[StreamKind]int{}
	for _, stream := range streams {
		counts[stream.Kind]++
	}
	index := map[StreamKind]int{}
	out := make([]titledStream, 0, len(streams))
	for _, stream := range streams {
		index[stream.Kind]++
		title := streamTitle(stream.Kind, index[stream.Kind], counts[stream.Kind])
		out = append(out, titledStream{Title: title, Stream: stream})
	}
	return out
}

func streamTitle(kind StreamKind, index, total int) string {
	if total <= 1 || kind == StreamGeneral {
		return string(kind)
	}
	return fmt.Sprintf("%s #%d", kind, index)
}
