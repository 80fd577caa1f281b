package dmi

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const formatName = "DMI"

// AnalyzeFile parses the file at path and builds its report. Parse
// failures are returned both as the error and in Report.Err so callers
// rendering many files can keep going.
func AnalyzeFile(path string, opts Options) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return failedReport(path, 0, err), err
	}
	return AnalyzeBytes(path, data, opts)
}

func AnalyzeBytes(ref string, data []byte, opts Options) (Report, error) {
	size := int64(len(data))
	text, err := findDescription(data, opts)
	if err != nil {
		return failedReport(ref, size, err), err
	}
	icon, err := ParseDescription(text)
	if err != nil {
		return failedReport(ref, size, err), err
	}

	report := Report{
		Ref:    ref,
		Size:   size,
		Digest: descriptionDigest(text),
		Icon:   icon,
	}
	if canvas, ok := parsePNGInfo(data); ok {
		report.Canvas = &canvas
	}

	general := Stream{Kind: StreamGeneral}
	general.Fields = appendField(general.Fields, "Complete name", "CompleteName", ref)
	general.Fields = appendField(general.Fields, "Format", "Format", formatName)
	general.Fields = appendField(general.Fields, "Format version", "FormatVersion", icon.Version)
	general.Fields = appendField(general.Fields, "File size", "FileSize", formatBytes(size))
	general.Fields = appendField(general.Fields, "Cell size", "CellSize", formatSize(int(icon.Width), int(icon.Height)))
	if canvas := report.Canvas; canvas != nil {
		general.Fields = appendField(general.Fields, "Canvas size", "CanvasSize", formatSize(canvas.Width, canvas.Height))
		if icon.Width > 0 && icon.Height > 0 {
			columns := canvas.Width / int(icon.Width)
			rows := canvas.Height / int(icon.Height)
			general.Fields = appendField(general.Fields, "Sheet capacity", "SheetCapacity", strconv.Itoa(columns*rows))
		}
		general.Fields = appendField(general.Fields, "Bit depth", "BitDepth", formatBitDepth(canvas.BitDepth))
		general.Fields = appendField(general.Fields, "Color space", "ColorSpace", canvas.ColorSpace)
	}
	general.Fields = appendField(general.Fields, "State count", "StateCount", strconv.Itoa(len(icon.States)))
	general.Fields = appendField(general.Fields, "Sprite count", "SpriteCount", strconv.Itoa(icon.SpriteCount()))
	general.Fields = appendField(general.Fields, "Description digest", "DescriptionDigest", report.Digest)
	report.General = general

	offsets := icon.SpriteOffsets()
	for i, state := range icon.States {
		report.Streams = append(report.Streams, stateStream(state, offsets[i]))
	}
	return report, nil
}

func stateStream(state IconState, firstSprite int) Stream {
	stream := Stream{Kind: StreamState}
	stream.Fields = appendField(stream.Fields, "Name", "Name", strconv.Quote(state.Name))
	stream.Fields = appendField(stream.Fields, "Directions", "Directions", strconv.Itoa(int(state.Dirs)))
	stream.Fields = appendField(stream.Fields, "Frames", "Frames", strconv.Itoa(int(state.Frames)))
	stream.Fields = appendField(stream.Fields, "Delays", "Delays", formatDelays(state.Delays))
	stream.Fields = appendField(stream.Fields, "Total delay", "TotalDelay", formatTicks(state.TotalDelay()))
	if state.Looping() {
		stream.Fields = appendField(stream.Fields, "Loop", "Loop", "Infinite")
	} else {
		stream.Fields = appendField(stream.Fields, "Loop", "Loop", strconv.Itoa(int(state.Loop)))
	}
	stream.Fields = appendField(stream.Fields, "Rewind", "Rewind", formatYesNo(state.Rewind))
	stream.Fields = appendField(stream.Fields, "Sprites", "Sprites", strconv.Itoa(state.SpriteCount()))
	stream.Fields = appendField(stream.Fields, "First sprite", "FirstSprite", strconv.Itoa(firstSprite))
	return stream
}

func failedReport(ref string, size int64, err error) Report {
	general := Stream{Kind: StreamGeneral}
	general.Fields = appendField(general.Fields, "Complete name", "CompleteName", ref)
	if size > 0 {
		general.Fields = appendField(general.Fields, "File size", "FileSize", formatBytes(size))
	}
	general.Fields = appendField(general.Fields, "Error", "Error", err.Error())
	general.Fields = appendField(general.Fields, "Error kind", "ErrorKind", string(KindOf(err)))
	return Report{Ref: ref, Size: size, Err: err, General: general}
}

// AnalyzeFiles analyzes every path and returns one report per path along
// with the number of files that failed.
func AnalyzeFiles(paths []string, opts Options) ([]Report, int) {
	reports := make([]Report, 0, len(paths))
	failed := 0
	for _, path := range paths {
		report, err := AnalyzeFile(path, opts)
		if err != nil {
			report.Err = fmt.Errorf("%s: %w", path, err)
			failed++
		}
		reports = append(reports, report)
	}
	return reports, failed
}

func formatSize(width, height int) string {
	return fmt.Sprintf("%d x %d pixels", width, height)
}

func formatBitDepth(depth int) string {
	if depth <= 0 {
		return ""
	}
	return fmt.Sprintf("%d bits", depth)
}

func formatDelays(delays []float32) string {
	if len(delays) == 0 {
		return ""
	}
	parts := make([]string, len(delays))
	for i, delay := range delays {
		parts[i] = strconv.FormatFloat(float64(delay), 'g', -1, 32)
	}
	return strings.Join(parts, ", ")
}

func formatTicks(ticks float64) string {
	value := strconv.FormatFloat(ticks, 'g', -1, 64)
	if value == "1" {
		return value + " tick"
	}
	return value + " ticks"
}

func formatYesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
