package telegram

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

type openTag struct {
	name string
	raw  string
}

type cutPoint struct {
	pos   int
	stack []openTag
}

// utf16Len is the length Telegram uses for message limits.
func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// nextToken returns the token starting at i: a whole tag, a whole entity or
// a single rune, and whether it is a tag.
func nextToken(text string, i int) (string, bool) {
	switch text[i] {
	case '<':
		if end := strings.IndexByte(text[i:], '>'); end > 0 {
			return text[i : i+end+1], true
		}
	case '&':
		if end := strings.IndexByte(text[i:], ';'); end > 1 && end <= 10 && !strings.ContainsAny(text[i+1:i+end], " <&") {
			return text[i : i+end+1], false
		}
	}
	_, size := utf8.DecodeRuneInString(text[i:])
	return text[i : i+size], false
}

func tagName(tag string) string {
	name := strings.TrimLeft(tag[1:len(tag)-1], "/")
	if j := strings.IndexAny(name, " \t\n/"); j >= 0 {
		name = name[:j]
	}
	return strings.ToLower(name)
}

// applyTag returns the open element stack after tag. It never modifies stack.
func applyTag(stack []openTag, tag string) []openTag {
	name := tagName(tag)
	if name == "" || strings.HasSuffix(tag, "/>") || strings.HasPrefix(tag, "<!") {
		return stack
	}
	if strings.HasPrefix(tag, "</") {
		for k := len(stack) - 1; k >= 0; k-- {
			if stack[k].name == name {
				out := make([]openTag, 0, len(stack)-1)
				out = append(out, stack[:k]...)
				return append(out, stack[k+1:]...)
			}
		}
		return stack
	}
	out := make([]openTag, len(stack), len(stack)+1)
	copy(out, stack)
	return append(out, openTag{name: name, raw: tag})
}

func openers(stack []openTag) string {
	var sb strings.Builder
	for _, t := range stack {
		sb.WriteString(t.raw)
	}
	return sb.String()
}

func closers(stack []openTag) string {
	var sb strings.Builder
	for k := len(stack) - 1; k >= 0; k-- {
		sb.WriteString("</" + stack[k].name + ">")
	}
	return sb.String()
}

// nextCut finds where the chunk starting at pos with stack open must end.
func nextCut(text string, pos int, stack []openTag, limit int) cutPoint {
	size := utf16Len(openers(stack))
	cur := stack
	var lastBreak, lastAny cutPoint
	i := pos
	for i < len(text) {
		tok, isTag := nextToken(text, i)
		next := cur
		if isTag {
			next = applyTag(cur, tok)
		}
		tokSize := utf16Len(tok)
		if size+tokSize+utf16Len(closers(next)) > limit {
			break
		}
		size += tokSize
		cur = next
		i += len(tok)
		lastAny = cutPoint{pos: i, stack: cur}
		if tok == "\n" {
			lastBreak = lastAny
		}
	}
	switch {
	case i >= len(text):
		return cutPoint{pos: len(text), stack: cur}
	case lastBreak.pos > pos:
		return lastBreak
	case lastAny.pos > pos:
		return lastAny
	}
	// A single token larger than the limit; emit it alone.
	tok, isTag := nextToken(text, pos)
	if isTag {
		return cutPoint{pos: pos + len(tok), stack: applyTag(stack, tok)}
	}
	return cutPoint{pos: pos + len(tok), stack: stack}
}

// splitHTML cuts Telegram HTML into chunks of at most limit UTF-16 units
// without breaking tags or entities. Every chunk is well formed on its own.
func splitHTML(text string, limit int) []string {
	if utf16Len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var stack []openTag
	pos := 0
	for pos < len(text) {
		cut := nextCut(text, pos, stack, limit)
		chunk := openers(stack) + text[pos:cut.pos] + closers(cut.stack)
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		pos, stack = cut.pos, cut.stack
	}
	return chunks
}
