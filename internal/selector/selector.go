// Package selector walks a project tree and decides which files belong in a
// context pack.
package selector

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/ctxpack/internal/ignore"
	"github.com/temirov/ctxpack/internal/types"
	"github.com/temirov/ctxpack/internal/utils"
)

const dotfilePrefix = "."

// Options configures one selection run.
type Options struct {
	// IncludedExtensions is the allow-list of dot-prefixed extensions.
	IncludedExtensions []string
	// ForceIncludePrefixes lists relative path prefixes whose files are
	// included regardless of extension. Each prefix is coerced to end with a
	// forward slash. A prefix naming no existing directory selects nothing.
	ForceIncludePrefixes []string
}

// Select traverses rootPath and returns the files surviving the ignore rules
// and the inclusion allow-list, sorted lexicographically by relative path.
// Directories matched by the ignore rules are pruned: their contents are never
// visited.
func Select(rootPath string, matcher *ignore.Matcher, options Options) ([]types.SelectedFile, error) {
	extensionSet := make(map[string]struct{}, len(options.IncludedExtensions))
	for _, extensionValue := range options.IncludedExtensions {
		extensionSet[extensionValue] = struct{}{}
	}
	normalizedPrefixes := normalizeForcedPrefixes(options.ForceIncludePrefixes)

	var selectedFiles []types.SelectedFile
	walkError := filepath.WalkDir(rootPath, func(currentPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		relativePath := utils.RelativePathOrSelf(currentPath, rootPath)
		if relativePath == "." {
			return nil
		}
		if directoryEntry.IsDir() {
			if matcher.MatchesDirectory(relativePath) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.MatchesFile(relativePath) {
			return nil
		}
		if !isIncludedFile(directoryEntry.Name(), relativePath, extensionSet, normalizedPrefixes) {
			return nil
		}
		selectedFiles = append(selectedFiles, types.SelectedFile{
			AbsolutePath: currentPath,
			RelativePath: relativePath,
		})
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	sort.Slice(selectedFiles, func(firstIndex, secondIndex int) bool {
		return selectedFiles[firstIndex].RelativePath < selectedFiles[secondIndex].RelativePath
	})
	return selectedFiles, nil
}

// normalizeForcedPrefixes trims, unix-normalizes and slash-terminates the
// configured force-include prefixes, discarding blanks.
func normalizeForcedPrefixes(prefixes []string) []string {
	normalizedPrefixes := make([]string, 0, len(prefixes))
	for _, prefixValue := range prefixes {
		trimmedPrefix := strings.TrimSpace(prefixValue)
		if trimmedPrefix == "" {
			continue
		}
		normalizedPrefix := strings.TrimSuffix(utils.NormalizeToUnixPath(trimmedPrefix), "/")
		normalizedPrefixes = append(normalizedPrefixes, normalizedPrefix+"/")
	}
	return normalizedPrefixes
}

// isIncludedFile applies the inclusion allow-list: extension membership, the
// dotfile convention, or a force-include prefix.
func isIncludedFile(baseName string, relativePath string, extensionSet map[string]struct{}, forcedPrefixes []string) bool {
	extensionValue := utils.FileExtension(baseName)
	if _, allowed := extensionSet[extensionValue]; allowed {
		return true
	}
	if strings.HasPrefix(baseName, dotfilePrefix) && extensionValue == "" {
		return true
	}
	for _, forcedPrefix := range forcedPrefixes {
		if strings.HasPrefix(relativePath, forcedPrefix) {
			return true
		}
	}
	return false
}
