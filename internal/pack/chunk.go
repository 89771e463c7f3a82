package pack

import (
	"fmt"
	"unicode/utf8"
)

const (
	// DefaultMaxBytesPerChunk keeps chunks safely below common upload limits.
	DefaultMaxBytesPerChunk = 9_000_000

	// minimumMaxBytes guarantees forward progress: a window must always be
	// able to hold one complete UTF-8 code point, whose encoding is at most
	// utf8.UTFMax bytes. Smaller limits are a configuration error.
	minimumMaxBytes = utf8.UTFMax

	continuationByteMask  = 0b1100_0000
	continuationByteValue = 0b1000_0000

	errorMaxBytesTooSmall = "max bytes per chunk must be at least %d, got %d"
)

// SplitUTF8 splits text into byte-limited chunks without breaking UTF-8
// characters. Concatenating the returned buffers in order reproduces the
// text's UTF-8 encoding exactly, and every buffer boundary falls on a
// code-point boundary.
func SplitUTF8(text string, maxBytes int) ([][]byte, error) {
	if maxBytes < minimumMaxBytes {
		return nil, fmt.Errorf(errorMaxBytesTooSmall, minimumMaxBytes, maxBytes)
	}

	encodedText := []byte(text)
	var chunks [][]byte
	startIndex := 0
	for startIndex < len(encodedText) {
		cutIndex := startIndex + maxBytes
		if cutIndex > len(encodedText) {
			cutIndex = len(encodedText)
		}
		// Back up while the byte at the cut point is a continuation byte so
		// the boundary never falls inside a multi-byte sequence.
		for cutIndex > startIndex && cutIndex < len(encodedText) && encodedText[cutIndex]&continuationByteMask == continuationByteValue {
			cutIndex--
		}
		chunks = append(chunks, encodedText[startIndex:cutIndex])
		startIndex = cutIndex
	}
	return chunks, nil
}
