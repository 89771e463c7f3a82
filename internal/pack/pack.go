package pack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/temirov/ctxpack/internal/config"
	"github.com/temirov/ctxpack/internal/ignore"
	"github.com/temirov/ctxpack/internal/selector"
	"github.com/temirov/ctxpack/internal/tokenizer"
	"github.com/temirov/ctxpack/internal/types"
)

const (
	outputDirectorySuffix = "_context"
	documentFileName      = "project_context.md"
	manifestFileName      = "manifest.json"
	chunksDirectoryName   = "chunks"
	chunkFileNameFormat   = "%04d.md"
	archiveFileSuffix     = "_context.zip"

	outputFileMode      = 0o644
	outputDirectoryMode = 0o755

	warningTokenCountFormat = "Warning: failed to count tokens for %s: %v\n"
)

// Options configures one pack run.
type Options struct {
	// Root is the absolute path of the project to pack.
	Root string
	// ProjectName overrides the root's base name in output paths when set.
	ProjectName string
	// OutParent is the directory under which the pack directory is created.
	OutParent string
	// MaxBytes is the chunk size ceiling; DefaultMaxBytesPerChunk when zero.
	MaxBytes int
	// IncludeExtensions is the extension allow-list; the built-in code-ish set
	// when empty.
	IncludeExtensions []string
	// ForceIncludePrefixes lists path prefixes included regardless of extension.
	ForceIncludePrefixes []string
	// BuildTime stamps the document header and manifest; the current time when
	// zero. Injectable so identical settings reproduce identical documents.
	BuildTime time.Time
	// TokenCounter, when non-nil, adds a document token count to the manifest.
	TokenCounter tokenizer.Counter
	// TokenModel names the tokenizer model recorded in the manifest.
	TokenModel string
	// ReadContent overrides file content reading; the default reader when nil.
	ReadContent ContentReader
}

// Build runs the full pack pipeline for options.Root: pattern loading, file
// selection, document assembly, chunking, and the final write batch of
// document, chunks, manifest, and archive.
func Build(options Options) (types.PackResult, error) {
	projectName := options.ProjectName
	if projectName == "" {
		projectName = filepath.Base(options.Root)
	}
	maxBytes := options.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytesPerChunk
	}
	buildTime := options.BuildTime
	if buildTime.IsZero() {
		buildTime = time.Now()
	}
	includedExtensions := options.IncludeExtensions
	if len(includedExtensions) == 0 {
		includedExtensions = config.DefaultIncludedExtensions
	}

	ignorePatterns, patternsError := config.LoadProjectIgnorePatterns(options.Root)
	if patternsError != nil {
		return types.PackResult{}, patternsError
	}
	matcher := ignore.NewMatcher(ignore.CompilePatterns(ignorePatterns))

	selectedFiles, selectError := selector.Select(options.Root, matcher, selector.Options{
		IncludedExtensions:   includedExtensions,
		ForceIncludePrefixes: options.ForceIncludePrefixes,
	})
	if selectError != nil {
		return types.PackResult{}, fmt.Errorf("selecting files under %s: %w", options.Root, selectError)
	}

	document := AssembleDocument(options.Root, projectName, selectedFiles, buildTime, options.ReadContent)

	chunks, chunkError := SplitUTF8(document, maxBytes)
	if chunkError != nil {
		return types.PackResult{}, chunkError
	}

	outputDirectory := filepath.Join(options.OutParent, projectName+outputDirectorySuffix)
	chunksDirectory := filepath.Join(outputDirectory, chunksDirectoryName)
	if mkdirError := os.MkdirAll(chunksDirectory, outputDirectoryMode); mkdirError != nil {
		return types.PackResult{}, fmt.Errorf("creating output directory %s: %w", chunksDirectory, mkdirError)
	}

	documentPath := filepath.Join(outputDirectory, documentFileName)
	if writeError := os.WriteFile(documentPath, []byte(document), outputFileMode); writeError != nil {
		return types.PackResult{}, fmt.Errorf("writing document %s: %w", documentPath, writeError)
	}

	chunkPaths := make([]string, 0, len(chunks))
	for chunkIndex, chunkBytes := range chunks {
		chunkPath := filepath.Join(chunksDirectory, fmt.Sprintf(chunkFileNameFormat, chunkIndex+1))
		if writeError := os.WriteFile(chunkPath, chunkBytes, outputFileMode); writeError != nil {
			return types.PackResult{}, fmt.Errorf("writing chunk %s: %w", chunkPath, writeError)
		}
		chunkPaths = append(chunkPaths, chunkPath)
	}

	documentTokens := 0
	tokenizerModel := ""
	if options.TokenCounter != nil {
		countedTokens, countError := options.TokenCounter.CountString(document)
		if countError != nil {
			fmt.Fprintf(os.Stderr, warningTokenCountFormat, documentPath, countError)
		} else {
			documentTokens = countedTokens
			tokenizerModel = options.TokenModel
		}
	}

	manifest := BuildManifest(ManifestInputs{
		Root:           options.Root,
		BuildTime:      buildTime,
		Document:       document,
		SelectedFiles:  selectedFiles,
		ChunkPaths:     chunkPaths,
		MaxBytes:       maxBytes,
		DocumentTokens: documentTokens,
		TokenizerModel: tokenizerModel,
	})
	manifestBytes, marshalError := json.MarshalIndent(manifest, "", "  ")
	if marshalError != nil {
		return types.PackResult{}, fmt.Errorf("encoding manifest: %w", marshalError)
	}
	manifestPath := filepath.Join(outputDirectory, manifestFileName)
	if writeError := os.WriteFile(manifestPath, manifestBytes, outputFileMode); writeError != nil {
		return types.PackResult{}, fmt.Errorf("writing manifest %s: %w", manifestPath, writeError)
	}

	archivePath := filepath.Join(outputDirectory, projectName+archiveFileSuffix)
	if archiveError := WriteArchive(archivePath, documentPath, manifestPath, chunkPaths); archiveError != nil {
		return types.PackResult{}, archiveError
	}

	return types.PackResult{
		DocumentPath: documentPath,
		ManifestPath: manifestPath,
		ChunksDir:    chunksDirectory,
		ChunkPaths:   chunkPaths,
		ArchivePath:  archivePath,
		Manifest:     manifest,
	}, nil
}
