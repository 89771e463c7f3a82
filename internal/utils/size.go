package utils

import "fmt"

// byteUnit is the step between adjacent size units.
const byteUnit = 1024

var sizeUnitSuffixes = []string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte length as a compact lower-case size string.
// Scaled values below ten keep one fractional digit unless it is zero.
func FormatFileSize(byteLength int64) string {
	if byteLength <= 0 {
		return "0" + sizeUnitSuffixes[0]
	}
	if byteLength < byteUnit {
		return fmt.Sprintf("%d%s", byteLength, sizeUnitSuffixes[0])
	}
	scaledValue := float64(byteLength)
	suffixIndex := 0
	for scaledValue >= byteUnit && suffixIndex < len(sizeUnitSuffixes)-1 {
		scaledValue /= byteUnit
		suffixIndex++
	}
	if scaledValue < 10 {
		rounded := fmt.Sprintf("%.1f", scaledValue)
		if len(rounded) > 2 && rounded[len(rounded)-2:] == ".0" {
			rounded = rounded[:len(rounded)-2]
		}
		return rounded + sizeUnitSuffixes[suffixIndex]
	}
	return fmt.Sprintf("%.0f%s", scaledValue, sizeUnitSuffixes[suffixIndex])
}
