// Package extract pulls fenced code blocks out of markdown documents so
// contracts embedded in docs can be audited at their correct line offsets.
package extract

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is one fenced code block from a markdown document. Line is the
// 1-based line number of the first code line in the enclosing document.
type CodeBlock struct {
	Text     string
	Line     int
	Language string
}

// IsMarkdown returns true if the file path has a markdown extension.
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// CodeBlocks parses markdown and returns every fenced code block with its
// starting line. Prose, headings and inline code are ignored.
func CodeBlocks(source []byte) []CodeBlock {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var blocks []CodeBlock
	walk(doc, source, &blocks)
	return blocks
}

func walk(n ast.Node, source []byte, blocks *[]CodeBlock) {
	if fc, ok := n.(*ast.FencedCodeBlock); ok {
		lang := ""
		if fc.Language(source) != nil {
			lang = string(fc.Language(source))
		}
		*blocks = append(*blocks, CodeBlock{
			Text:     blockText(fc, source),
			Line:     firstLine(fc, source),
			Language: lang,
		})
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		walk(child, source, blocks)
	}
}

func blockText(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// firstLine converts the byte offset of the block's first code line into a
// 1-based line number.
func firstLine(n *ast.FencedCodeBlock, source []byte) int {
	if n.Lines().Len() == 0 {
		return 1
	}
	offset := n.Lines().At(0).Start
	line := 1
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}
