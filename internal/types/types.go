// Package types defines every cross-package data structure used by the ctxpack CLI.
package types

const (
	CommandPack   = "pack"
	CommandRedact = "redact"
)

// ValidatedRoot is an absolute project root path that already passed existence checks.
type ValidatedRoot struct {
	AbsolutePath string
	Name         string
}

// SelectedFile is one file chosen for inclusion in a context pack.
// RelativePath is unix-normalized and unique within a selection run.
type SelectedFile struct {
	AbsolutePath string
	RelativePath string
}

// Manifest summarizes one completed pack run. It is created once, written once,
// and never mutated afterwards.
type Manifest struct {
	Root             string   `json:"root"`
	BuiltAtUTC       string   `json:"built_at_utc"`
	TotalBytes       int      `json:"total_bytes"`
	SHA256           string   `json:"sha256"`
	NumFilesIncluded int      `json:"num_files_included"`
	NumChunks        int      `json:"num_chunks"`
	MaxBytesPerChunk int      `json:"max_bytes_per_chunk"`
	FirstChunkPath   string   `json:"first_chunk_path"`
	FilesSample      []string `json:"files_sample"`
	DocumentTokens   int      `json:"document_tokens,omitempty"`
	TokenizerModel   string   `json:"tokenizer_model,omitempty"`
}

// PackResult reports the artifacts written by a pack run.
type PackResult struct {
	DocumentPath string
	ManifestPath string
	ChunksDir    string
	ChunkPaths   []string
	ArchivePath  string
	Manifest     Manifest
}

// RedactionReport aggregates the outcome of an in-place redaction run.
type RedactionReport struct {
	FilesChanged int
	ChangedPaths []string
}
