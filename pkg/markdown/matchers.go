package markdown

import "strings"

// cursor caches the next occurrence of needle at or after from.
// Lookups during a scan move forward, so each needle is searched at most
// once per stretch of text.
type cursor struct {
	needle string
	from   int
	at     int // -1 when there is no occurrence at or after from
	valid  bool
}

func (c *cursor) next(text string, from int) int {
	if from > len(text) {
		return -1
	}
	if c.valid && from >= c.from && (c.at < 0 || c.at >= from) {
		return c.at
	}

	i := strings.Index(text[from:], c.needle)
	if i >= 0 {
		i += from
	}
	c.from, c.at, c.valid = from, i, true
	return i
}

// scanner is the per-call lookup state of a single Escape/Tokenize run
type scanner struct {
	text    string
	cursors []cursor
}

func newScanner(text string) *scanner {
	return &scanner{text: text, cursors: make([]cursor, 0, 8)}
}

// index returns the first position of needle at or after from, or -1
func (sc *scanner) index(needle string, from int) int {
	for i := range sc.cursors {
		if sc.cursors[i].needle == needle {
			return sc.cursors[i].next(sc.text, from)
		}
	}
	sc.cursors = append(sc.cursors, cursor{needle: needle})
	return sc.cursors[len(sc.cursors)-1].next(sc.text, from)
}

// matchSingle matches d, one or more bytes other than d, then d.
// Bold, italic, strikethrough and inline code share this shape.
func matchSingle(d byte) func(sc *scanner, pos int) (int, string) {
	needle := string([]byte{d})
	return func(sc *scanner, pos int) (int, string) {
		j := sc.index(needle, pos+1)
		if j <= pos+1 {
			return -1, ""
		}
		return j + 1, ""
	}
}

// matchDouble matches dd, one or more bytes other than d, then dd.
// Underline and spoiler share this shape.
func matchDouble(d byte) func(sc *scanner, pos int) (int, string) {
	needle := string([]byte{d})
	return func(sc *scanner, pos int) (int, string) {
		text := sc.text
		if pos+1 >= len(text) || text[pos+1] != d {
			return -1, ""
		}
		j := sc.index(needle, pos+2)
		if j <= pos+2 || j+1 >= len(text) || text[j+1] != d {
			return -1, ""
		}
		return j + 2, ""
	}
}

// matchLink matches [label](url) with a non-empty label free of ']' and a
// non-empty url free of ')'.
func matchLink(sc *scanner, pos int) (int, string) {
	text := sc.text
	j := sc.index("]", pos+1)
	if j <= pos+1 || j+1 >= len(text) || text[j+1] != '(' {
		return -1, ""
	}
	k := sc.index(")", j+2)
	if k <= j+2 {
		return -1, ""
	}
	return k + 1, ""
}

const fence = "```"

// matchCodeBlock matches a fenced block up to the first closing fence.
// A tag run directly after the opening fence and ended by a newline is
// reported as the block language.
func matchCodeBlock(sc *scanner, pos int) (int, string) {
	text := sc.text
	if !strings.HasPrefix(text[pos:], fence) {
		return -1, ""
	}
	open := pos + len(fence)
	j := sc.index(fence, open)
	if j < 0 {
		return -1, ""
	}

	lang := ""
	k := open
	for k < j && isLanguageByte(text[k]) {
		k++
	}
	if k > open && k < j && text[k] == '\n' {
		lang = text[open:k]
	}

	return j + len(fence), lang
}

func isLanguageByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '+' || c == '-':
		return true
	}
	return false
}
