// SPDX-License-Identifier: MPL-2.0

package pep723

import "strings"

const (
	// ScriptTag is the block type used for script dependency metadata.
	ScriptTag = "script"

	// fenceClose is both the close fence and the prefix of every open fence.
	fenceClose = "# ///"
	// commentMarker starts every non-blank interior line of a block.
	commentMarker = "#"
)

// Block is a fenced metadata region located inside a script.
type Block struct {
	// Tag is the block type (the word after "# /// ").
	Tag string
	// Start is the byte offset of the open fence.
	Start int
	// End is the byte offset just past the close fence, excluding its line terminator.
	End int
	// StartLine and EndLine are the 1-based lines of the open and close fence.
	StartLine int
	EndLine   int
	// Body is the interior with the comment prefix stripped from every line.
	// Each line keeps its "\n"; an empty block has an empty body.
	Body string
	// Raw is the fenced region exactly as it appeared in the script.
	Raw string
}

// Canonical reports whether re-fencing Body reproduces Raw byte-for-byte.
// Blocks written by uv, or by Fence, are always canonical.
func (b *Block) Canonical() bool {
	return b.Raw == FenceTaggedCell(b.Tag, b.Body)
}

type line struct {
	num   int    // 1-based
	start int    // offset of the first byte
	end   int    // offset past the content, before "\r\n" or "\n"
	text  string // content without the terminator
}

func splitLines(text string) []line {
	var lines []line
	for pos, num := 0, 1; pos < len(text); num++ {
		next := len(text)
		end := len(text)
		if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
			end = pos + i
			next = end + 1
		}
		content := strings.TrimSuffix(text[pos:end], "\r")
		lines = append(lines, line{num: num, start: pos, end: pos + len(content), text: content})
		pos = next
	}
	return lines
}

func fenceOpen(tag string) string {
	return fenceClose + " " + tag
}

// FindBlock locates the "script" metadata block in text. It returns nil and
// no error when the text has no open fence.
func FindBlock(text string) (*Block, error) {
	return FindTaggedBlock(text, ScriptTag)
}

// FindTaggedBlock locates the metadata block of the given tag in text.
//
// Lines between the fences must be blank or start with "#". Fences of other
// tags outside the block are ignored. A second open fence of the same tag is
// an AmbiguousBlockError; a malformed block is a BlockSyntaxError.
func FindTaggedBlock(text, tag string) (*Block, error) {
	open := fenceOpen(tag)

	var (
		found   *Block
		opening *line
		body    []string
	)

	lines := splitLines(text)
	for i := range lines {
		ln := &lines[i]

		if opening == nil {
			if ln.text != open {
				continue
			}
			if found != nil {
				return nil, &AmbiguousBlockError{Tag: tag, FirstLine: found.StartLine, SecondLine: ln.num}
			}
			opening = ln
			body = body[:0]
			continue
		}

		switch {
		case ln.text == fenceClose:
			found = &Block{
				Tag:       tag,
				Start:     opening.start,
				End:       ln.end,
				StartLine: opening.num,
				EndLine:   ln.num,
				Body:      joinBody(body),
				Raw:       text[opening.start:ln.end],
			}
			opening = nil
		case ln.text == open:
			return nil, &BlockSyntaxError{Line: ln.num, Text: ln.text, Reason: "nested open fence"}
		case strings.TrimSpace(ln.text) == "":
			body = append(body, "")
		case strings.HasPrefix(ln.text, commentMarker):
			body = append(body, stripComment(ln.text))
		default:
			return nil, &BlockSyntaxError{Line: ln.num, Text: ln.text, Reason: "line inside block is not a comment"}
		}
	}

	if opening != nil {
		return nil, &BlockSyntaxError{Line: opening.num, Text: opening.text, Reason: "missing closing fence"}
	}

	return found, nil
}

// IncludesInlineMetadata reports whether text contains a well-formed
// "script" metadata block.
func IncludesInlineMetadata(text string) bool {
	b, err := FindBlock(text)
	return err == nil && b != nil
}

// Fence renders body as a "script" metadata block. Every line, fences
// included, is terminated by "\n".
func Fence(body string) string {
	return FenceTagged(ScriptTag, body)
}

// FenceCell renders body as a "script" metadata block without the final
// line terminator, the form stored in a notebook cell.
func FenceCell(body string) string {
	return FenceTaggedCell(ScriptTag, body)
}

// FenceTagged renders body as a metadata block of the given tag.
// Non-empty lines are prefixed with "# " and empty lines become a bare "#".
func FenceTagged(tag, body string) string {
	var sb strings.Builder
	sb.WriteString(fenceOpen(tag))
	sb.WriteByte('\n')
	for _, l := range bodyLines(body) {
		if l == "" {
			sb.WriteString(commentMarker)
		} else {
			sb.WriteString(commentMarker + " " + l)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(fenceClose)
	sb.WriteByte('\n')
	return sb.String()
}

// FenceTaggedCell is FenceTagged without the final line terminator.
func FenceTaggedCell(tag, body string) string {
	return strings.TrimSuffix(FenceTagged(tag, body), "\n")
}

func stripComment(s string) string {
	s = strings.TrimPrefix(s, commentMarker)
	return strings.TrimPrefix(s, " ")
}

func joinBody(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func bodyLines(body string) []string {
	if body == "" {
		return nil
	}
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(body, "\n"), "\n")
}
