// Package pack builds the context-pack artifacts: the assembled document, its
// UTF-8-safe byte chunks, the manifest, and the bundling archive.
package pack

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/temirov/ctxpack/internal/types"
	"github.com/temirov/ctxpack/internal/utils"
)

const (
	// maxFileCharacters bounds a single file's contribution to the document.
	// Longer content is cut at this many characters and marked as truncated.
	maxFileCharacters = 250_000

	treeIndentUnit     = "  "
	treeFenceOpen      = "```text"
	treeFenceClose     = "```"
	truncationMarker   = "\n<<TRUNCATED>>\n"
	unreadableFormat   = "<<UNREADABLE %s: %v>>"
	sectionSeparator   = "\n"
	headerFormat       = "# Project Context Pack\n\n- Root: `%s`\n- Built: %s\n"
	treeSectionHeading = "## Repository Tree (filtered)\n"
	exclusionNote      = "## Note on Exclusions\nThis pack was generated with `.gptignore`/defaults to skip large, binary, or secret files.\n"
	filesSectionHead   = "## Files\n"
	fileSectionFormat  = "\n### `%s`\n```%s\n%s\n```\n"

	buildTimestampLayout = "2006-01-02T15:04:05.999999Z"
)

// FileContent is the outcome of reading one selected file: either decoded
// text, or a read failure carried as data so the failure marker is formatted
// only at render time.
type FileContent struct {
	Text       string
	Unreadable bool
	BaseName   string
	ReadError  error
}

// ContentReader resolves a selected file to its content.
type ContentReader func(file types.SelectedFile) FileContent

// ReadFileContent is the default ContentReader. Bytes that do not decode as
// UTF-8 are replaced with the replacement rune; read failures are reported as
// unreadable rather than aborting the run.
func ReadFileContent(file types.SelectedFile) FileContent {
	fileBytes, readError := os.ReadFile(file.AbsolutePath)
	if readError != nil {
		return FileContent{Unreadable: true, BaseName: filepath.Base(file.AbsolutePath), ReadError: readError}
	}
	return FileContent{Text: strings.ToValidUTF8(string(fileBytes), string(utf8.RuneError))}
}

// RenderTree renders the selected files as an indented textual tree inside a
// fenced block. Each line shows the file's base name indented two spaces per
// path-depth level; the full relative path reappears in the per-file sections.
func RenderTree(rootName string, sortedFiles []types.SelectedFile) string {
	lines := []string{treeFenceOpen, rootName + "/"}
	for _, selectedFile := range sortedFiles {
		pathSegments := strings.Split(selectedFile.RelativePath, "/")
		depth := len(pathSegments) - 1
		lines = append(lines, strings.Repeat(treeIndentUnit, depth)+pathSegments[len(pathSegments)-1])
	}
	lines = append(lines, treeFenceClose)
	return strings.Join(lines, "\n")
}

// AssembleDocument concatenates the header, the rendered tree, the exclusion
// note, and one fenced content block per selected file into the single pack
// document. The exact section order and separators are part of the observable
// contract: the returned text is what gets hashed and chunked.
func AssembleDocument(rootPath string, rootName string, sortedFiles []types.SelectedFile, buildTime time.Time, readContent ContentReader) string {
	if readContent == nil {
		readContent = ReadFileContent
	}

	sections := make([]string, 0, len(sortedFiles)+4)
	sections = append(sections, fmt.Sprintf(headerFormat, rootPath, buildTime.UTC().Format(buildTimestampLayout)))
	sections = append(sections, treeSectionHeading+RenderTree(rootName, sortedFiles)+"\n")
	sections = append(sections, exclusionNote)
	sections = append(sections, filesSectionHead)

	for _, selectedFile := range sortedFiles {
		content := readContent(selectedFile)
		text := content.Text
		if content.Unreadable {
			text = fmt.Sprintf(unreadableFormat, content.BaseName, content.ReadError)
		}
		if utf8.RuneCountInString(text) > maxFileCharacters {
			text = string([]rune(text)[:maxFileCharacters]) + truncationMarker
		}
		fenceLanguage := strings.TrimPrefix(utils.FileExtension(path.Base(selectedFile.RelativePath)), ".")
		sections = append(sections, fmt.Sprintf(fileSectionFormat, selectedFile.RelativePath, fenceLanguage, text))
	}

	return strings.Join(sections, sectionSeparator)
}
