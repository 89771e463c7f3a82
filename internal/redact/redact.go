// Package redact rewrites secret-like key/value assignments in project trees,
// either in place or into a sanitized mirror copy.
package redact

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/temirov/ctxpack/internal/types"
	"github.com/temirov/ctxpack/internal/utils"
)

// ErrDestinationNotEmpty reports a mirror destination that already exists and
// contains entries. Mirroring never writes into such a directory.
var ErrDestinationNotEmpty = errors.New("mirror destination already exists and is not empty")

const (
	redactedFileMode      = 0o644
	mirrorDirectoryMode   = 0o755
	inPlaceRedactedFormat = "Redacted: %s\n"
)

// redactionRule pairs one secret pattern with its replacement template.
type redactionRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// redactionRules are applied in order over the whole text. The
// assignment-style pattern runs before the colon-style pattern; later rules
// re-scan text already rewritten by earlier ones, so the ordering is a fixed
// contract.
var redactionRules = []redactionRule{
	{
		// KEY = "value" / KEY = 'value'
		pattern:     regexp.MustCompile(`(?i)\b(api[-_ ]?key|secret|token|password)\s*=\s*(['"])[^'"\n]+(['"])`),
		replacement: "$1=$2<REDACTED>$3",
	},
	{
		// KEY: value   (YAML / JSON-ish / env)
		pattern:     regexp.MustCompile(`(?i)\b(api[-_ ]?key|secret|token|password)\s*:\s*['"]?[^'"\n]+`),
		replacement: "$1: <REDACTED>",
	},
}

// textExtensions lists the extensions considered safe to decode and rewrite as text.
var textExtensions = map[string]struct{}{
	".py": {}, ".json": {}, ".yml": {}, ".yaml": {}, ".toml": {}, ".ini": {}, ".env": {}, ".html": {}, ".htm": {},
	".md": {}, ".txt": {}, ".js": {}, ".ts": {}, ".css": {}, ".scss": {}, ".tsx": {}, ".jsx": {},
}

// IsTextClassified reports whether a file name is considered rewritable text,
// by extension or by the extensionless-dotfile convention.
func IsTextClassified(baseName string) bool {
	extensionValue := strings.ToLower(utils.FileExtension(baseName))
	if _, classified := textExtensions[extensionValue]; classified {
		return true
	}
	return strings.HasPrefix(baseName, ".") && utils.FileExtension(baseName) == ""
}

// Redact applies every redaction rule to text in order and returns the result.
func Redact(text string) string {
	result := text
	for _, rule := range redactionRules {
		result = rule.pattern.ReplaceAllString(result, rule.replacement)
	}
	return result
}

// InPlace redacts every text-classified file under rootPath, overwriting files
// whose content changes. Files that do not decode as text are silently
// skipped; a single unreadable file never fails the run.
func InPlace(rootPath string) (types.RedactionReport, error) {
	var report types.RedactionReport
	walkError := filepath.WalkDir(rootPath, func(currentPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			// Unreadable entries are skipped, never fatal.
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if !IsTextClassified(directoryEntry.Name()) {
			return nil
		}
		fileBytes, readError := os.ReadFile(currentPath)
		if readError != nil || utils.IsBinary(fileBytes) {
			return nil
		}
		originalText := string(fileBytes)
		redactedText := Redact(originalText)
		if redactedText == originalText {
			return nil
		}
		if writeError := os.WriteFile(currentPath, []byte(redactedText), redactedFileMode); writeError != nil {
			return nil
		}
		fmt.Printf(inPlaceRedactedFormat, currentPath)
		report.FilesChanged++
		report.ChangedPaths = append(report.ChangedPaths, currentPath)
		return nil
	})
	if walkError != nil {
		return report, fmt.Errorf("walking %s: %w", rootPath, walkError)
	}
	return report, nil
}

// Mirror recreates every file under sourceRoot beneath destinationRoot,
// redacting text-classified files and copying everything else verbatim. The
// destination must not already exist non-empty; that safety check runs before
// any write. This walk intentionally applies no ignore pruning and no
// extension allow-list.
func Mirror(sourceRoot string, destinationRoot string) error {
	if nonEmptyError := ensureDestinationEmpty(destinationRoot); nonEmptyError != nil {
		return nonEmptyError
	}
	walkError := filepath.WalkDir(sourceRoot, func(currentPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if directoryEntry.IsDir() {
			return nil
		}
		return mirrorFile(sourceRoot, destinationRoot, currentPath, directoryEntry.Name())
	})
	if walkError != nil {
		return fmt.Errorf("mirroring %s: %w", sourceRoot, walkError)
	}
	return nil
}

// ensureDestinationEmpty rejects a destination directory that exists and holds entries.
func ensureDestinationEmpty(destinationRoot string) error {
	entries, readError := os.ReadDir(destinationRoot)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil
		}
		return fmt.Errorf("inspecting mirror destination %s: %w", destinationRoot, readError)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%s: %w", destinationRoot, ErrDestinationNotEmpty)
	}
	return nil
}

// mirrorFile writes one source file under the destination root, redacting when
// the file classifies as text and falling back to a verbatim copy otherwise.
func mirrorFile(sourceRoot string, destinationRoot string, sourcePath string, baseName string) error {
	relativePath := utils.RelativePathOrSelf(sourcePath, sourceRoot)
	destinationPath := filepath.Join(destinationRoot, filepath.FromSlash(relativePath))
	if mkdirError := os.MkdirAll(filepath.Dir(destinationPath), mirrorDirectoryMode); mkdirError != nil {
		return fmt.Errorf("creating mirror directory for %s: %w", relativePath, mkdirError)
	}

	if IsTextClassified(baseName) {
		fileBytes, readError := os.ReadFile(sourcePath)
		if readError == nil && !utils.IsBinary(fileBytes) {
			redactedText := Redact(string(fileBytes))
			if writeError := os.WriteFile(destinationPath, []byte(redactedText), redactedFileMode); writeError != nil {
				return fmt.Errorf("writing mirrored file %s: %w", destinationPath, writeError)
			}
			return nil
		}
		// Unreadable as text: fall back to a verbatim copy.
	}
	return copyFileVerbatim(sourcePath, destinationPath)
}

// copyFileVerbatim duplicates a file's bytes and permission bits.
func copyFileVerbatim(sourcePath string, destinationPath string) (err error) {
	sourceFile, openError := os.Open(sourcePath)
	if openError != nil {
		return fmt.Errorf("opening %s for copy: %w", sourcePath, openError)
	}
	defer sourceFile.Close()

	sourceInfo, statError := sourceFile.Stat()
	if statError != nil {
		return fmt.Errorf("stat %s: %w", sourcePath, statError)
	}

	destinationFile, createError := os.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, sourceInfo.Mode().Perm())
	if createError != nil {
		return fmt.Errorf("creating %s: %w", destinationPath, createError)
	}
	defer func() {
		if closeError := destinationFile.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()

	if _, copyError := io.Copy(destinationFile, sourceFile); copyError != nil {
		return fmt.Errorf("copying %s: %w", sourcePath, copyError)
	}
	return nil
}
