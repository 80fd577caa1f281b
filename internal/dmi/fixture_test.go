package dmi

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// encodeDescription writes icon in the layout BYOND uses for the
// Description chunk.
func encodeDescription(icon IconFile) string {
	var b strings.Builder
	b.WriteString("# BEGIN DMI\n")
	b.WriteString("version = " + icon.Version + "\n")
	b.WriteString("\twidth = " + strconv.Itoa(int(icon.Width)) + "\n")
	b.WriteString("\theight = " + strconv.Itoa(int(icon.Height)) + "\n")
	for _, state := range icon.States {
		b.WriteString("state = " + quoteStateName(state.Name) + "\n")
		b.WriteString("\tdirs = " + strconv.Itoa(int(state.Dirs)) + "\n")
		b.WriteString("\tframes = " + strconv.Itoa(int(state.Frames)) + "\n")
		if len(state.Delays) > 0 {
			parts := make([]string, len(state.Delays))
			for i, delay := range state.Delays {
				parts[i] = strconv.FormatFloat(float64(delay), 'g', -1, 32)
			}
			b.WriteString("\tdelay = " + strings.Join(parts, ",") + "\n")
		}
		if state.Loop != 0 {
			b.WriteString("\tloop = " + strconv.Itoa(int(state.Loop)) + "\n")
		}
		if state.Rewind {
			b.WriteString("\trewind = 1\n")
		}
	}
	b.WriteString("# END DMI\n")
	return b.String()
}

var stateNameEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteStateName(name string) string {
	return `"` + stateNameEscaper.Replace(name) + `"`
}

type testChunk struct {
	tag  string
	data []byte
}

func ihdrChunk(width, height uint32) testChunk {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:4], width)
	binary.BigEndian.PutUint32(data[4:8], height)
	data[8] = 8 // bit depth
	data[9] = 6 // truecolor + alpha
	return testChunk{tag: "IHDR", data: data}
}

func textChunk(keyword, text string) testChunk {
	data := append([]byte(keyword), 0)
	data = append(data, text...)
	return testChunk{tag: "tEXt", data: data}
}

func compressedTextChunk(t *testing.T, keyword, text string) testChunk {
	t.Helper()
	data := append([]byte(keyword), 0, 0)
	return testChunk{tag: "zTXt", data: append(data, deflate(t, []byte(text))...)}
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("deflate close: %v", err)
	}
	return buf.Bytes()
}

func idatChunk(t *testing.T) testChunk {
	return testChunk{tag: "IDAT", data: deflate(t, []byte{0, 0, 0, 0, 0})}
}

func appendChunk(out []byte, chunk testChunk) []byte {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(chunk.data)))
	copy(header[4:8], chunk.tag)
	out = append(out, header[:]...)
	out = append(out, chunk.data...)
	crc := crc32.NewIEEE()
	crc.Write(header[4:8])
	crc.Write(chunk.data)
	return binary.BigEndian.AppendUint32(out, crc.Sum32())
}

// buildPNG frames chunks between the PNG signature and an IEND chunk.
func buildPNG(chunks ...testChunk) []byte {
	out := []byte(pngSignature)
	for _, chunk := range chunks {
		out = appendChunk(out, chunk)
	}
	return appendChunk(out, testChunk{tag: "IEND"})
}

// buildDMI is a minimal DMI: IHDR, a zTXt Description, one IDAT.
func buildDMI(t *testing.T, icon IconFile) []byte {
	t.Helper()
	return buildPNG(
		ihdrChunk(160, 64),
		compressedTextChunk(t, descriptionKeyword, encodeDescription(icon)),
		idatChunk(t),
	)
}

func sampleIcon() IconFile {
	return IconFile{
		Version: "4.0",
		Width:   32,
		Height:  32,
		States: []IconState{
			{Name: "idle", Dirs: 1, Frames: 1, Delays: []float32{}},
			{Name: "walk", Dirs: 4, Frames: 2, Rewind: true, Loop: 3, Delays: []float32{1, 2.5}},
			{Name: "", Dirs: 1, Frames: 1, Delays: []float32{}},
		},
	}
}
