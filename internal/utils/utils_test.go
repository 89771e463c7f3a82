package utils_test

import (
	"reflect"
	"testing"

	"github.com/temirov/ctxpack/internal/utils"
)

func TestDeduplicatePatterns(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "empty", input: nil, expected: []string{}},
		{name: "no duplicates", input: []string{"a", "b"}, expected: []string{"a", "b"}},
		{name: "preserves first occurrence order", input: []string{"b", "a", "b", "a"}, expected: []string{"b", "a"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.DeduplicatePatterns(testCase.input)
			if !reflect.DeepEqual(result, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}

func TestNormalizeToUnixPath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already unix", input: "a/b/c.txt", expected: "a/b/c.txt"},
		{name: "windows separators", input: `a\b\c.txt`, expected: "a/b/c.txt"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.NormalizeToUnixPath(testCase.input)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestEnsureTrailingSlash(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty stays empty", input: "", expected: ""},
		{name: "adds slash", input: "templates", expected: "templates/"},
		{name: "keeps existing slash", input: "docs/", expected: "docs/"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.EnsureTrailingSlash(testCase.input)
			if result != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, result)
			}
		})
	}
}

func TestFileExtension(t *testing.T) {
	testCases := []struct {
		name     string
		baseName string
		expected string
	}{
		{name: "plain extension", baseName: "main.py", expected: ".py"},
		{name: "compound name keeps last extension", baseName: "archive.tar.gz", expected: ".gz"},
		{name: "dotfile has no extension", baseName: ".gitignore", expected: ""},
		{name: "dotfile with extension", baseName: ".env.local", expected: ".local"},
		{name: "no extension", baseName: "Makefile", expected: ""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FileExtension(testCase.baseName)
			if result != testCase.expected {
				t.Fatalf("FileExtension(%q): expected %q, got %q", testCase.baseName, testCase.expected, result)
			}
		})
	}
}

func TestIsBinary(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{name: "empty", data: nil, expected: false},
		{name: "plain text", data: []byte("hello world"), expected: false},
		{name: "multibyte text", data: []byte("héllo wörld"), expected: false},
		{name: "null byte", data: []byte{'a', 0, 'b'}, expected: true},
		{name: "invalid utf8", data: []byte{0xff, 0xfe}, expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.IsBinary(testCase.data)
			if result != testCase.expected {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0b"},
		{name: "zero", bytes: 0, expected: "0b"},
		{name: "bytes", bytes: 512, expected: "512b"},
		{name: "one kilobyte", bytes: 1024, expected: "1kb"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5kb"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
