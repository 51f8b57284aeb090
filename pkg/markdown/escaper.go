package markdown

import (
	"strings"
)

// ReservedChars are the characters Telegram MarkdownV2 treats as markup
// outside of a formatting entity: _ * [ ] ( ) ~ ` > # + - = | { } . !
const ReservedChars = "_*[]()~`>#+-=|{}.!"

// Construct identifies the kind of a tokenized segment
type Construct int

const (
	Plain Construct = iota
	Bold
	Italic
	Underline
	Strikethrough
	Spoiler
	InlineLink
	InlineCode
	CodeBlock
)

var constructNames = [...]string{
	Plain:         "plain",
	Bold:          "bold",
	Italic:        "italic",
	Underline:     "underline",
	Strikethrough: "strikethrough",
	Spoiler:       "spoiler",
	InlineLink:    "inline_link",
	InlineCode:    "inline_code",
	CodeBlock:     "code_block",
}

// String returns string representation
func (c Construct) String() string {
	if c < 0 || int(c) >= len(constructNames) {
		return "unknown"
	}
	return constructNames[c]
}

// Protected reports whether segments of this kind are emitted verbatim
func (c Construct) Protected() bool {
	return c != Plain
}

// Segment is a run of input text classified as protected markup or plain text
type Segment struct {
	Construct Construct
	Text      string
	Language  string // fence tag, CodeBlock only
}

// matcher returns the end offset (exclusive) of the construct starting at pos,
// or -1 when the construct does not match there.
type matcher struct {
	construct Construct
	match     func(sc *scanner, pos int) (end int, lang string)
}

// Escaper escapes MarkdownV2 reserved characters outside recognized formatting
// constructs. It is immutable after construction and safe for concurrent use.
type Escaper struct {
	reserved [128]bool
	// dispatch holds, per leading byte, the matchers tried in declared order
	dispatch [128][]matcher
}

// NewEscaper builds an escaper with the MarkdownV2 construct table
func NewEscaper() *Escaper {
	e := &Escaper{}
	for i := 0; i < len(ReservedChars); i++ {
		e.reserved[ReservedChars[i]] = true
	}

	// Declared priority. Matchers sharing a leading byte are tried in this order.
	table := []struct {
		lead byte
		m    matcher
	}{
		{'`', matcher{CodeBlock, matchCodeBlock}},
		{'`', matcher{InlineCode, matchSingle('`')}},
		{'[', matcher{InlineLink, matchLink}},
		{'*', matcher{Bold, matchSingle('*')}},
		{'_', matcher{Underline, matchDouble('_')}},
		{'_', matcher{Italic, matchSingle('_')}},
		{'~', matcher{Strikethrough, matchSingle('~')}},
		{'|', matcher{Spoiler, matchDouble('|')}},
	}
	for _, entry := range table {
		e.dispatch[entry.lead] = append(e.dispatch[entry.lead], entry.m)
	}

	return e
}

var defaultEscaper = NewEscaper()

// Default returns the shared escaper
func Default() *Escaper {
	return defaultEscaper
}

// Escape escapes text with the shared escaper
func Escape(text string) string {
	return defaultEscaper.Escape(text)
}

// Tokenize splits text with the shared escaper
func Tokenize(text string) []Segment {
	return defaultEscaper.Tokenize(text)
}

// IsReserved reports whether r must be escaped outside formatting constructs
func (e *Escaper) IsReserved(r rune) bool {
	return r >= 0 && r < 128 && e.reserved[r]
}

// Tokenize partitions text into plain and protected segments, in order.
// Concatenating the Text of all segments yields the input.
func (e *Escaper) Tokenize(text string) []Segment {
	if text == "" {
		return nil
	}

	var segments []Segment
	e.scan(text, func(seg Segment) {
		segments = append(segments, seg)
	})
	return segments
}

// Escape returns text with every reserved character outside a recognized
// construct preceded by a backslash. Recognized constructs are copied verbatim.
func (e *Escaper) Escape(text string) string {
	if text == "" {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(text)/8)

	e.scan(text, func(seg Segment) {
		if seg.Construct.Protected() {
			b.WriteString(seg.Text)
			return
		}
		e.writePlain(&b, seg.Text)
	})
	return b.String()
}

// EscapePlain escapes every reserved character, ignoring markup
func (e *Escaper) EscapePlain(text string) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(text)/8)
	e.writePlain(&b, text)
	return b.String()
}

// writePlain works on bytes: every reserved character is ASCII and never
// occurs inside a multi-byte UTF-8 sequence.
func (e *Escaper) writePlain(b *strings.Builder, text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < 128 && e.reserved[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
}

func (e *Escaper) scan(text string, emit func(Segment)) {
	sc := newScanner(text)
	plainStart := 0

	for pos := 0; pos < len(text); {
		c := text[pos]
		if c >= 128 || len(e.dispatch[c]) == 0 {
			pos++
			continue
		}

		end, lang, construct := -1, "", Plain
		for _, m := range e.dispatch[c] {
			if end, lang = m.match(sc, pos); end > 0 {
				construct = m.construct
				break
			}
		}
		if end < 0 {
			pos++
			continue
		}

		if plainStart < pos {
			emit(Segment{Construct: Plain, Text: text[plainStart:pos]})
		}
		emit(Segment{Construct: construct, Text: text[pos:end], Language: lang})
		pos = end
		plainStart = end
	}

	if plainStart < len(text) {
		emit(Segment{Construct: Plain, Text: text[plainStart:]})
	}
}
