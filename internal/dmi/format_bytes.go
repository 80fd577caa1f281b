package dmi

import "fmt"

var byteUnits = []string{"KiB", "MiB", "GiB"}

// formatBytes renders a file size with binary prefixes. Sizes under one
// KiB are exact.
func formatBytes(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size) / 1024
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, byteUnits[unit])
}
