// Package config loads ignore patterns and application configuration.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/ctxpack/internal/utils"
)

const commentLinePrefix = "#"

// DefaultIgnorePatterns is the built-in rule set applied when a project carries
// no ignore override file. It covers common VCS, dependency and cache
// directories, binary media, secret-like filenames, and lockfile noise.
var DefaultIgnorePatterns = []string{
	// Folders
	".git/", ".hg/", ".svn/", ".idea/", ".vscode/",
	"__pycache__/", ".mypy_cache/", ".pytest_cache/", ".ruff_cache/",
	"node_modules/", "dist/", "build/", "out/", ".next/", ".cache/",
	".venv/", "venv/", "static/", "media/", "storage/cache/",
	"storage/chatbots_files/", "storage/logs/", "notebooks/data/",
	// Binaries / big blobs
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.ico", "*.pdf",
	"*.mp3", "*.mp4", "*.wav", "*.zip", "*.tar", "*.tar.gz", "*.sqlite3",
	// Secrets
	".env", ".env.*", "secrets.*", "credentials.*", "*service_account*.json",
	"id_rsa", "id_ed25519", "storage-admin.json", "outbound-trunk.json",
	// Noise
	"*.lock", "package-lock.json", "pnpm-lock.yaml", "yarn.lock",
	"*.min.js", "*.min.css", "*.log",
}

// DefaultIncludedExtensions lists the code-ish file extensions included in a
// pack when no override is supplied.
var DefaultIncludedExtensions = []string{
	".py", ".ts", ".tsx", ".js", ".jsx", ".json", ".yml", ".yaml", ".toml", ".ini",
	".md", ".txt", ".env.example", ".env.sample",
	".css", ".scss", ".html", ".jinja", ".j2",
	".sql", ".sh", ".bash", ".zsh", ".ps1", ".bat",
	".go", ".rs", ".java", ".kt", ".c", ".cc", ".cpp", ".h", ".hpp",
	".rb", ".php", ".swift", ".dart", ".lua", ".r",
}

// LoadIgnoreFilePatterns reads the ignore override file at ignoreFilePath and
// returns its patterns. Blank lines and comment lines are discarded. A missing
// file yields a nil slice and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	// Non-nil even when every line is discarded: an existing override file
	// replaces the built-in defaults rather than supplementing them.
	ignorePatterns := []string{}
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentLinePrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadProjectIgnorePatterns returns the ignore patterns governing a project
// root: the patterns of its override file when one exists, otherwise the
// built-in defaults.
func LoadProjectIgnorePatterns(absoluteRootPath string) ([]string, error) {
	ignoreFilePath := filepath.Join(absoluteRootPath, utils.IgnoreFileName)
	loadedPatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		return nil, fmt.Errorf("loading %s from %s: %w", utils.IgnoreFileName, absoluteRootPath, loadError)
	}
	if loadedPatterns == nil {
		return utils.DeduplicatePatterns(DefaultIgnorePatterns), nil
	}
	return utils.DeduplicatePatterns(loadedPatterns), nil
}

// NormalizeExtensions coerces a list of extension tokens to dot-prefixed,
// trimmed form, discarding blanks.
func NormalizeExtensions(extensionTokens []string) []string {
	normalizedExtensions := make([]string, 0, len(extensionTokens))
	for _, extensionToken := range extensionTokens {
		trimmedToken := strings.TrimSpace(extensionToken)
		if trimmedToken == "" {
			continue
		}
		if !strings.HasPrefix(trimmedToken, ".") {
			trimmedToken = "." + trimmedToken
		}
		normalizedExtensions = append(normalizedExtensions, trimmedToken)
	}
	return utils.DeduplicatePatterns(normalizedExtensions)
}
