package pack

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/temirov/ctxpack/internal/types"
)

// manifestSampleSize bounds the number of relative paths recorded for quick inspection.
const manifestSampleSize = 20

// ManifestInputs carries everything BuildManifest derives its summary from.
type ManifestInputs struct {
	Root           string
	BuildTime      time.Time
	Document       string
	SelectedFiles  []types.SelectedFile
	ChunkPaths     []string
	MaxBytes       int
	DocumentTokens int
	TokenizerModel string
}

// BuildManifest computes the run summary: the SHA-256 hash of the document's
// UTF-8 bytes, file and chunk counts, the configured chunk ceiling, and a
// sample of included relative paths. It is a pure function with no side
// effects; the caller persists the result.
func BuildManifest(inputs ManifestInputs) types.Manifest {
	documentBytes := []byte(inputs.Document)
	documentDigest := sha256.Sum256(documentBytes)

	sampleSize := len(inputs.SelectedFiles)
	if sampleSize > manifestSampleSize {
		sampleSize = manifestSampleSize
	}
	filesSample := make([]string, 0, sampleSize)
	for _, selectedFile := range inputs.SelectedFiles[:sampleSize] {
		filesSample = append(filesSample, selectedFile.RelativePath)
	}

	firstChunkPath := ""
	if len(inputs.ChunkPaths) > 0 {
		firstChunkPath = inputs.ChunkPaths[0]
	}

	return types.Manifest{
		Root:             inputs.Root,
		BuiltAtUTC:       inputs.BuildTime.UTC().Format(buildTimestampLayout),
		TotalBytes:       len(documentBytes),
		SHA256:           hex.EncodeToString(documentDigest[:]),
		NumFilesIncluded: len(inputs.SelectedFiles),
		NumChunks:        len(inputs.ChunkPaths),
		MaxBytesPerChunk: inputs.MaxBytes,
		FirstChunkPath:   firstChunkPath,
		FilesSample:      filesSample,
		DocumentTokens:   inputs.DocumentTokens,
		TokenizerModel:   inputs.TokenizerModel,
	}
}
