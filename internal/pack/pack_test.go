package pack_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/temirov/ctxpack/internal/pack"
	"github.com/temirov/ctxpack/internal/types"
)

var fixedBuildTime = time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)

// writeFixtureTree lays down a small project with an ignored secret file.
func writeFixtureTree(t *testing.T, rootDirectory string) {
	t.Helper()
	fixtures := map[string]string{
		"a.py":     "print(1)",
		"notes.md": "hello",
		".env":     "KEY=1",
	}
	for relativePath, content := range fixtures {
		if writeError := os.WriteFile(filepath.Join(rootDirectory, relativePath), []byte(content), 0o644); writeError != nil {
			t.Fatalf("failed to write %s: %v", relativePath, writeError)
		}
	}
}

func TestBuildWritesAllArtifacts(t *testing.T) {
	rootDirectory := t.TempDir()
	outParent := t.TempDir()
	writeFixtureTree(t, rootDirectory)

	result, buildError := pack.Build(pack.Options{
		Root:      rootDirectory,
		OutParent: outParent,
		BuildTime: fixedBuildTime,
	})
	if buildError != nil {
		t.Fatalf("Build failed: %v", buildError)
	}

	documentBytes, readError := os.ReadFile(result.DocumentPath)
	if readError != nil {
		t.Fatalf("failed to read document: %v", readError)
	}
	document := string(documentBytes)
	if !strings.Contains(document, "### `a.py`") || !strings.Contains(document, "### `notes.md`") {
		t.Fatalf("document misses expected file sections:\n%s", document)
	}
	if strings.Contains(document, ".env") && strings.Contains(document, "KEY=1") {
		t.Fatalf("secret file leaked into document")
	}

	manifestBytes, readError := os.ReadFile(result.ManifestPath)
	if readError != nil {
		t.Fatalf("failed to read manifest: %v", readError)
	}
	var manifest types.Manifest
	if decodeError := json.Unmarshal(manifestBytes, &manifest); decodeError != nil {
		t.Fatalf("failed to decode manifest: %v", decodeError)
	}
	if manifest.NumFilesIncluded != 2 {
		t.Fatalf("expected two included files, got %d", manifest.NumFilesIncluded)
	}
	if manifest.NumChunks != len(result.ChunkPaths) {
		t.Fatalf("manifest chunk count %d disagrees with %d written chunks", manifest.NumChunks, len(result.ChunkPaths))
	}

	if filepath.Base(result.ChunkPaths[0]) != "0001.md" {
		t.Fatalf("expected 4-digit 1-based chunk numbering, got %s", filepath.Base(result.ChunkPaths[0]))
	}

	archiveReader, archiveError := zip.OpenReader(result.ArchivePath)
	if archiveError != nil {
		t.Fatalf("failed to open archive: %v", archiveError)
	}
	defer archiveReader.Close()
	archiveNames := make(map[string]struct{}, len(archiveReader.File))
	for _, archivedFile := range archiveReader.File {
		archiveNames[archivedFile.Name] = struct{}{}
	}
	for _, expectedName := range []string{"project_context.md", "manifest.json", "chunks/0001.md"} {
		if _, present := archiveNames[expectedName]; !present {
			t.Fatalf("archive misses entry %s; has %v", expectedName, archiveNames)
		}
	}
}

func TestBuildChunkRoundTrip(t *testing.T) {
	rootDirectory := t.TempDir()
	outParent := t.TempDir()
	if writeError := os.WriteFile(filepath.Join(rootDirectory, "unicode.py"), []byte("x = 'héllo wörld 你好'\n"), 0o644); writeError != nil {
		t.Fatalf("failed to write fixture: %v", writeError)
	}

	result, buildError := pack.Build(pack.Options{
		Root:      rootDirectory,
		OutParent: outParent,
		MaxBytes:  64,
		BuildTime: fixedBuildTime,
	})
	if buildError != nil {
		t.Fatalf("Build failed: %v", buildError)
	}
	if len(result.ChunkPaths) < 2 {
		t.Fatalf("expected multiple chunks at a 64-byte ceiling, got %d", len(result.ChunkPaths))
	}

	documentBytes, readError := os.ReadFile(result.DocumentPath)
	if readError != nil {
		t.Fatalf("failed to read document: %v", readError)
	}
	var rejoined bytes.Buffer
	for _, chunkPath := range result.ChunkPaths {
		chunkBytes, chunkReadError := os.ReadFile(chunkPath)
		if chunkReadError != nil {
			t.Fatalf("failed to read chunk %s: %v", chunkPath, chunkReadError)
		}
		if len(chunkBytes) > 64 {
			t.Fatalf("chunk %s exceeds the configured ceiling", chunkPath)
		}
		rejoined.Write(chunkBytes)
	}
	if !bytes.Equal(rejoined.Bytes(), documentBytes) {
		t.Fatalf("concatenated chunks differ from the document")
	}
}

func TestBuildDeterminism(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFixtureTree(t, rootDirectory)

	firstResult, firstError := pack.Build(pack.Options{Root: rootDirectory, OutParent: t.TempDir(), BuildTime: fixedBuildTime})
	if firstError != nil {
		t.Fatalf("first Build failed: %v", firstError)
	}
	secondResult, secondError := pack.Build(pack.Options{Root: rootDirectory, OutParent: t.TempDir(), BuildTime: fixedBuildTime})
	if secondError != nil {
		t.Fatalf("second Build failed: %v", secondError)
	}

	firstDocument, _ := os.ReadFile(firstResult.DocumentPath)
	secondDocument, _ := os.ReadFile(secondResult.DocumentPath)
	if !bytes.Equal(firstDocument, secondDocument) {
		t.Fatalf("identical settings produced differing documents")
	}
	if firstResult.Manifest.SHA256 != secondResult.Manifest.SHA256 {
		t.Fatalf("identical settings produced differing content hashes")
	}
}

func TestBuildProjectNameOverride(t *testing.T) {
	rootDirectory := t.TempDir()
	outParent := t.TempDir()
	writeFixtureTree(t, rootDirectory)

	result, buildError := pack.Build(pack.Options{
		Root:        rootDirectory,
		OutParent:   outParent,
		ProjectName: "renamed",
		BuildTime:   fixedBuildTime,
	})
	if buildError != nil {
		t.Fatalf("Build failed: %v", buildError)
	}
	if filepath.Base(filepath.Dir(result.DocumentPath)) != "renamed_context" {
		t.Fatalf("unexpected output directory %s", filepath.Dir(result.DocumentPath))
	}
	if filepath.Base(result.ArchivePath) != "renamed_context.zip" {
		t.Fatalf("unexpected archive name %s", filepath.Base(result.ArchivePath))
	}
}

func TestBuildRejectsTinyChunkCeiling(t *testing.T) {
	rootDirectory := t.TempDir()
	writeFixtureTree(t, rootDirectory)

	if _, buildError := pack.Build(pack.Options{Root: rootDirectory, OutParent: t.TempDir(), MaxBytes: 2}); buildError == nil {
		t.Fatalf("expected a configuration error for a 2-byte chunk ceiling")
	}
}
