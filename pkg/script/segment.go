// SPDX-License-Identifier: MPL-2.0

// Package script splits script text into notebook-shaped segments.
//
// A script may carry one inline metadata block (see package pep723) and any
// number of "# %%" cell-boundary lines. Split removes the metadata block,
// reports it as its own segment, and cuts the rest of the text at every
// boundary line.
package script

import (
	"fmt"
	"strings"

	"github.com/juvnb/juv/pkg/pep723"
)

// MarkerLine is the cell-boundary marker. A line equal to it (ignoring
// trailing spaces) separates two cells.
const MarkerLine = "# %%"

const (
	// CodeSegment is a run of code between cell-boundary markers.
	CodeSegment SegmentKind = iota + 1
	// MetadataSegment holds the body of the inline metadata block.
	MetadataSegment
)

type (
	// SegmentKind tells metadata and code segments apart.
	SegmentKind int

	// Segment is one logical piece of a script.
	Segment struct {
		Kind SegmentKind
		// Text is the code for a CodeSegment and the de-fenced block body
		// for a MetadataSegment.
		Text string
		// Raw is the fenced block exactly as written. Empty for a CodeSegment.
		Raw string
		// Line is the 1-based line in the original script where the segment starts.
		Line int
	}

	chunk struct {
		text string
		line int
	}
)

// String returns the segment kind name.
func (k SegmentKind) String() string {
	switch k {
	case CodeSegment:
		return "code"
	case MetadataSegment:
		return "metadata"
	default:
		return fmt.Sprintf("SegmentKind(%d)", int(k))
	}
}

// Split segments text. Errors from the metadata block grammar are returned
// unchanged.
//
// The metadata segment, when present, is placed where the block appeared
// relative to the code segments: ahead of the cell it sits in when only
// blank lines precede it there, after that cell otherwise. Each code segment
// is the text between two markers with one trailing line terminator removed.
// A blank region before the first marker is dropped, and a script holding
// nothing but a metadata block produces no code segment.
func Split(text string) ([]Segment, error) {
	block, err := pep723.FindBlock(text)
	if err != nil {
		return nil, err
	}

	remaining := text
	metaChunk := -1
	metaFirst := true
	beforeLines, removedLines := 0, 0
	if block != nil {
		before := text[:block.Start]
		after := skipBlankLines(dropLineTerminator(text[block.End:]))
		remaining = before + after

		metaChunk = countMarkers(before)
		metaFirst = isBlank(afterLastMarker(before))
		beforeLines = strings.Count(before, "\n")
		removedLines = strings.Count(text[block.Start:len(text)-len(after)], "\n")
	}

	chunks := splitChunks(remaining)
	markers := len(chunks) - 1

	segments := make([]Segment, 0, len(chunks)+1)
	for i, c := range chunks {
		if i == metaChunk && metaFirst {
			segments = append(segments, Segment{Kind: MetadataSegment, Text: block.Body, Raw: block.Raw, Line: block.StartLine})
		}

		skip := isBlank(c.text) && ((markers > 0 && i == 0) || (markers == 0 && block != nil))
		if !skip {
			lineNum := c.line
			if block != nil && lineNum > beforeLines {
				lineNum += removedLines
			}
			segments = append(segments, Segment{Kind: CodeSegment, Text: trimLineTerminator(c.text), Line: lineNum})
		}

		if i == metaChunk && !metaFirst {
			segments = append(segments, Segment{Kind: MetadataSegment, Text: block.Body, Raw: block.Raw, Line: block.StartLine})
		}
	}

	return segments, nil
}

// IsMarker reports whether s (a line without its terminator) is a
// cell-boundary marker.
func IsMarker(s string) bool {
	return strings.TrimRight(s, " \t\r") == MarkerLine
}

func splitChunks(text string) []chunk {
	chunks := make([]chunk, 0, 4)
	start, startLine := 0, 1
	for pos, num := 0, 1; pos < len(text); num++ {
		end, next := len(text), len(text)
		if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
			end = pos + i
			next = end + 1
		}
		if IsMarker(text[pos:end]) {
			chunks = append(chunks, chunk{text: text[start:pos], line: startLine})
			start, startLine = next, num+1
		}
		pos = next
	}
	return append(chunks, chunk{text: text[start:], line: startLine})
}

func countMarkers(text string) int {
	n := 0
	for _, l := range strings.Split(text, "\n") {
		if IsMarker(l) {
			n++
		}
	}
	return n
}

// afterLastMarker returns the part of text that follows its last marker line.
func afterLastMarker(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if IsMarker(lines[i]) {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return text
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func dropLineTerminator(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "\n")
}

func trimLineTerminator(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}

func skipBlankLines(s string) string {
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			if isBlank(s) {
				return ""
			}
			return s
		}
		if !isBlank(s[:i]) {
			return s
		}
		s = s[i+1:]
	}
	return s
}
