package pack

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const chunksArchivePrefix = "chunks/"

// WriteArchive bundles the document, the manifest, and every chunk file into a
// single zip archive at archivePath. Chunks are stored under a chunks/ prefix.
func WriteArchive(archivePath string, documentPath string, manifestPath string, chunkPaths []string) (err error) {
	archiveFile, createError := os.Create(archivePath)
	if createError != nil {
		return fmt.Errorf("create archive %s: %w", archivePath, createError)
	}
	defer func() {
		if closeError := archiveFile.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()

	archiveWriter := zip.NewWriter(archiveFile)
	defer func() {
		if closeError := archiveWriter.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()

	if addError := addFileToArchive(archiveWriter, documentPath, filepath.Base(documentPath)); addError != nil {
		return addError
	}
	if addError := addFileToArchive(archiveWriter, manifestPath, filepath.Base(manifestPath)); addError != nil {
		return addError
	}
	for _, chunkPath := range chunkPaths {
		if addError := addFileToArchive(archiveWriter, chunkPath, chunksArchivePrefix+filepath.Base(chunkPath)); addError != nil {
			return addError
		}
	}
	return nil
}

// addFileToArchive copies one file into the archive under the given arc name
// using deflate compression.
func addFileToArchive(archiveWriter *zip.Writer, sourcePath string, archiveName string) error {
	sourceFile, openError := os.Open(sourcePath)
	if openError != nil {
		return fmt.Errorf("open %s for archiving: %w", sourcePath, openError)
	}
	defer sourceFile.Close()

	entryWriter, entryError := archiveWriter.CreateHeader(&zip.FileHeader{
		Name:   archiveName,
		Method: zip.Deflate,
	})
	if entryError != nil {
		return fmt.Errorf("create archive entry %s: %w", archiveName, entryError)
	}
	if _, copyError := io.Copy(entryWriter, sourceFile); copyError != nil {
		return fmt.Errorf("write archive entry %s: %w", archiveName, copyError)
	}
	return nil
}
