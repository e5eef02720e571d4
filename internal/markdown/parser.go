// Package markdown implements a line-oriented structural classifier for
// Markdown documents. It is a best-effort splitter, not a validator:
// unrecognized or malformed constructs degrade to paragraphs and parsing
// never fails.
package markdown

import (
	"regexp"
	"strings"
)

// Kind is the closed set of structural segment kinds.
type Kind int

const (
	Blank Kind = iota
	Heading
	Paragraph
	List
	Code
	Table
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case List:
		return "list"
	case Code:
		return "code"
	case Table:
		return "table"
	default:
		return "unknown"
	}
}

// Segment is one classified block of the document.
type Segment struct {
	Kind     Kind
	Text     string // raw block text without trailing newline
	Level    int    // heading level (1-6), 0 otherwise
	Language string // fenced code language tag, "" otherwise
}

// Metadata holds the front matter extracted from the document head.
// It is carried through untouched and never translated.
type Metadata struct {
	FrontMatter map[string]string
	Title       string
	// Raw is the verbatim front matter block including delimiters,
	// re-emitted ahead of the translated body.
	Raw string
}

var (
	atxHeadingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	listItemRe   = regexp.MustCompile(`^\s{0,3}([-*+]|\d+[.)])\s+`)
	setextH1Re   = regexp.MustCompile(`^\s{0,3}=+\s*$`)
	setextH2Re   = regexp.MustCompile(`^\s{0,3}-+\s*$`)
	tableDelimRe = regexp.MustCompile(`^\s*\|?[\s:|-]+\|[\s:|-]*$`)
)

// Parse splits raw document text into ordered structural segments and
// extracts front matter. It never returns an error.
func Parse(input string) ([]Segment, Metadata) {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")

	meta, rest := extractFrontMatter(lines)

	var segments []Segment
	i := 0
	for i < len(rest) {
		line := rest[i]

		switch {
		case strings.TrimSpace(line) == "":
			j := i
			for j < len(rest) && strings.TrimSpace(rest[j]) == "" {
				j++
			}
			// A single Blank segment per run of blank lines.
			if len(segments) > 0 && j < len(rest) {
				segments = append(segments, Segment{Kind: Blank})
			}
			i = j

		case isFenceOpen(line):
			seg, next := readFencedCode(rest, i)
			segments = append(segments, seg)
			i = next

		case atxHeadingRe.MatchString(line):
			m := atxHeadingRe.FindStringSubmatch(line)
			segments = append(segments, Segment{
				Kind:  Heading,
				Text:  line,
				Level: len(m[1]),
			})
			i++

		case isIndentedCodeLine(line):
			seg, next := readIndentedCode(rest, i)
			segments = append(segments, seg)
			i = next

		case isTableStart(rest, i):
			seg, next := readTable(rest, i)
			segments = append(segments, seg)
			i = next

		case listItemRe.MatchString(line):
			seg, next := readList(rest, i)
			segments = append(segments, seg)
			i = next

		case strings.HasPrefix(strings.TrimLeft(line, " "), ">"):
			// Block quotes are grouped so the quote stays intact, but the
			// closed kind set classifies them as paragraphs.
			seg, next := readQuote(rest, i)
			segments = append(segments, seg)
			i = next

		default:
			seg, next := readParagraph(rest, i)
			segments = append(segments, seg)
			i = next
		}
	}

	// Strip a trailing blank marker; it separates nothing.
	if n := len(segments); n > 0 && segments[n-1].Kind == Blank {
		segments = segments[:n-1]
	}

	if meta.Title == "" {
		for _, s := range segments {
			if s.Kind == Heading && s.Level == 1 {
				meta.Title = strings.TrimSpace(strings.TrimLeft(s.Text, "# "))
				break
			}
		}
	}

	return segments, meta
}

func extractFrontMatter(lines []string) (Metadata, []string) {
	meta := Metadata{FrontMatter: map[string]string{}}
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return meta, lines
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			block := lines[:i+1]
			for _, l := range block[1 : len(block)-1] {
				key, value, ok := strings.Cut(l, ":")
				if !ok {
					continue
				}
				key = strings.TrimSpace(key)
				if key == "" {
					continue
				}
				meta.FrontMatter[key] = strings.TrimSpace(value)
			}
			meta.Raw = strings.Join(block, "\n") + "\n"
			meta.Title = meta.FrontMatter["title"]
			return meta, lines[i+1:]
		}
	}
	// Unterminated front matter: treat the whole head as regular content.
	return meta, lines
}

func isFenceOpen(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if strings.HasPrefix(trimmed, "```") {
		return "```"
	}
	return "~~~"
}

func readFencedCode(lines []string, start int) (Segment, int) {
	marker := fenceMarker(lines[start])
	lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimLeft(lines[start], " "), marker))

	i := start + 1
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, marker) && strings.Trim(trimmed, string(marker[0])) == "" {
			i++
			break
		}
		i++
	}
	// An unclosed fence runs to end of document; still code, never an error.
	return Segment{
		Kind:     Code,
		Text:     strings.Join(lines[start:i], "\n"),
		Language: lang,
	}, i
}

func isIndentedCodeLine(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func readIndentedCode(lines []string, start int) (Segment, int) {
	i := start
	for i < len(lines) && isIndentedCodeLine(lines[i]) {
		i++
	}
	return Segment{
		Kind: Code,
		Text: strings.Join(lines[start:i], "\n"),
	}, i
}

func isTableStart(lines []string, i int) bool {
	line := lines[i]
	if !strings.Contains(line, "|") {
		return false
	}
	if strings.HasPrefix(strings.TrimSpace(line), "|") {
		return true
	}
	return i+1 < len(lines) && tableDelimRe.MatchString(lines[i+1]) && strings.Contains(lines[i+1], "|")
}

func readTable(lines []string, start int) (Segment, int) {
	i := start
	for i < len(lines) && strings.Contains(lines[i], "|") && strings.TrimSpace(lines[i]) != "" {
		i++
	}
	return Segment{
		Kind: Table,
		Text: strings.Join(lines[start:i], "\n"),
	}, i
}

func readList(lines []string, start int) (Segment, int) {
	i := start
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			break
		}
		// Continuation lines (indented under an item) stay in the list.
		if !listItemRe.MatchString(line) && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			break
		}
		i++
	}
	return Segment{
		Kind: List,
		Text: strings.Join(lines[start:i], "\n"),
	}, i
}

func readQuote(lines []string, start int) (Segment, int) {
	i := start
	for i < len(lines) && strings.HasPrefix(strings.TrimLeft(lines[i], " "), ">") {
		i++
	}
	return Segment{
		Kind: Paragraph,
		Text: strings.Join(lines[start:i], "\n"),
	}, i
}

func readParagraph(lines []string, start int) (Segment, int) {
	i := start
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			break
		}
		if i > start {
			// Setext underline turns the accumulated single line into a heading.
			if i == start+1 && setextH1Re.MatchString(line) {
				return Segment{Kind: Heading, Text: lines[start] + "\n" + line, Level: 1}, i + 1
			}
			if i == start+1 && setextH2Re.MatchString(line) && !listItemRe.MatchString(line) {
				return Segment{Kind: Heading, Text: lines[start] + "\n" + line, Level: 2}, i + 1
			}
		}
		if isFenceOpen(line) || atxHeadingRe.MatchString(line) || listItemRe.MatchString(line) ||
			strings.HasPrefix(strings.TrimLeft(line, " "), ">") || isTableStart(lines, i) {
			break
		}
		i++
	}
	if i == start {
		// Always consume at least one line so the loop can't stall.
		i = start + 1
	}
	return Segment{
		Kind: Paragraph,
		Text: strings.Join(lines[start:i], "\n"),
	}, i
}
