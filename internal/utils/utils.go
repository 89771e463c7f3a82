// Package utils contains general helper functions used across the ctxpack tool.
package utils

import (
	"path/filepath"
	"strings"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizeToUnixPath converts platform path separators to forward slashes.
func NormalizeToUnixPath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "\\", pathSegmentSeparator)
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// FileExtension returns the dot-prefixed extension of a file base name. A
// leading dot never begins an extension, so dotfiles such as ".env" report an
// empty extension while ".env.local" reports ".local".
func FileExtension(baseName string) string {
	stem := strings.TrimPrefix(baseName, ".")
	lastDotIndex := strings.LastIndex(stem, ".")
	if lastDotIndex <= 0 {
		return ""
	}
	return stem[lastDotIndex:]
}

// EnsureTrailingSlash coerces a non-empty path to end with a forward slash.
func EnsureTrailingSlash(path string) string {
	if path == "" {
		return path
	}
	if strings.HasSuffix(path, pathSegmentSeparator) {
		return path
	}
	return path + pathSegmentSeparator
}
