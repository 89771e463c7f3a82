package selector_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/ctxpack/internal/config"
	"github.com/temirov/ctxpack/internal/ignore"
	"github.com/temirov/ctxpack/internal/selector"
	"github.com/temirov/ctxpack/internal/types"
)

// writeTree creates the given relative-path files under root with placeholder content.
func writeTree(t *testing.T, root string, relativePaths map[string]string) {
	t.Helper()
	for relativePath, content := range relativePaths {
		fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
		if mkdirError := os.MkdirAll(filepath.Dir(fullPath), 0o755); mkdirError != nil {
			t.Fatalf("failed to create directory for %s: %v", relativePath, mkdirError)
		}
		if writeError := os.WriteFile(fullPath, []byte(content), 0o644); writeError != nil {
			t.Fatalf("failed to write %s: %v", relativePath, writeError)
		}
	}
}

// relativePaths projects selected files onto their relative paths.
func relativePaths(selectedFiles []types.SelectedFile) []string {
	result := make([]string, 0, len(selectedFiles))
	for _, selectedFile := range selectedFiles {
		result = append(result, selectedFile.RelativePath)
	}
	return result
}

// TestSelectWithDefaultRules mirrors the canonical example: extension matches
// are included, the dotfile secret is excluded by the default rule set.
func TestSelectWithDefaultRules(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTree(t, rootDirectory, map[string]string{
		"a.py":     "print(1)",
		"notes.md": "hello",
		".env":     "KEY=1",
	})

	matcher := ignore.NewMatcher(ignore.CompilePatterns(config.DefaultIgnorePatterns))
	selectedFiles, selectError := selector.Select(rootDirectory, matcher, selector.Options{
		IncludedExtensions: config.DefaultIncludedExtensions,
	})
	if selectError != nil {
		t.Fatalf("Select failed: %v", selectError)
	}

	expected := []string{"a.py", "notes.md"}
	if !reflect.DeepEqual(relativePaths(selectedFiles), expected) {
		t.Fatalf("unexpected selection: got %v want %v", relativePaths(selectedFiles), expected)
	}
}

// TestSelectPrunesIgnoredDirectories verifies a file inside an ignored
// directory never appears, even though its extension is allowed.
func TestSelectPrunesIgnoredDirectories(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTree(t, rootDirectory, map[string]string{
		"src/main.py":                  "print(1)",
		"node_modules/pkg/index.js":    "module.exports = 1",
		"node_modules/pkg/readme.md":   "docs",
		"storage/cache/warm/cached.py": "print(2)",
	})

	matcher := ignore.NewMatcher(ignore.CompilePatterns([]string{"node_modules/", "storage/cache/"}))
	selectedFiles, selectError := selector.Select(rootDirectory, matcher, selector.Options{
		IncludedExtensions: []string{".py", ".js", ".md"},
	})
	if selectError != nil {
		t.Fatalf("Select failed: %v", selectError)
	}

	expected := []string{"src/main.py"}
	if !reflect.DeepEqual(relativePaths(selectedFiles), expected) {
		t.Fatalf("unexpected selection: got %v want %v", relativePaths(selectedFiles), expected)
	}
}

// TestSelectForceIncludePrefix verifies forced prefixes admit files the
// allow-list would reject, while ignore rules still win.
func TestSelectForceIncludePrefix(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTree(t, rootDirectory, map[string]string{
		"templates/email.tmpl": "hi",
		"templates/skip.log":   "noise",
		"misc/other.tmpl":      "bye",
	})

	matcher := ignore.NewMatcher(ignore.CompilePatterns([]string{"*.log"}))
	selectedFiles, selectError := selector.Select(rootDirectory, matcher, selector.Options{
		IncludedExtensions:   []string{".py"},
		ForceIncludePrefixes: []string{"templates"},
	})
	if selectError != nil {
		t.Fatalf("Select failed: %v", selectError)
	}

	expected := []string{"templates/email.tmpl"}
	if !reflect.DeepEqual(relativePaths(selectedFiles), expected) {
		t.Fatalf("unexpected selection: got %v want %v", relativePaths(selectedFiles), expected)
	}
}

// TestSelectNonexistentForcedPrefix verifies a prefix naming no directory
// selects nothing extra and raises no error.
func TestSelectNonexistentForcedPrefix(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTree(t, rootDirectory, map[string]string{"main.go": "package main"})

	matcher := ignore.NewMatcher(ignore.CompilePatterns(nil))
	selectedFiles, selectError := selector.Select(rootDirectory, matcher, selector.Options{
		IncludedExtensions:   []string{".go"},
		ForceIncludePrefixes: []string{"does-not-exist/"},
	})
	if selectError != nil {
		t.Fatalf("Select failed: %v", selectError)
	}
	expected := []string{"main.go"}
	if !reflect.DeepEqual(relativePaths(selectedFiles), expected) {
		t.Fatalf("unexpected selection: got %v want %v", relativePaths(selectedFiles), expected)
	}
}

// TestSelectDotfileConvention verifies extensionless dotfiles are included and
// ordering is lexicographic by relative path.
func TestSelectDotfileConvention(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTree(t, rootDirectory, map[string]string{
		".gitignore": "dist/",
		"b.py":       "print(2)",
		"a/c.py":     "print(3)",
	})

	matcher := ignore.NewMatcher(ignore.CompilePatterns(nil))
	selectedFiles, selectError := selector.Select(rootDirectory, matcher, selector.Options{
		IncludedExtensions: []string{".py"},
	})
	if selectError != nil {
		t.Fatalf("Select failed: %v", selectError)
	}

	expected := []string{".gitignore", "a/c.py", "b.py"}
	if !reflect.DeepEqual(relativePaths(selectedFiles), expected) {
		t.Fatalf("unexpected selection order: got %v want %v", relativePaths(selectedFiles), expected)
	}
}
