package textedit

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/bidi"
)

// Line is one display line of the laid out text. Offsets are rune offsets
// into the display text; End excludes the line break.
type Line struct {
	Start, End int
	Width      float64
	RTL        bool
}

const (
	wordStart uint8 = 1 << iota
	wordEnd
)

type layout struct {
	text  []rune
	lines []Line
	attrs []uint8 // len(text)+1 entries
}

func buildLayout(text []rune, m Metrics, wrap float64) *layout {
	l := &layout{text: text, attrs: wordAttrs(text)}
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != '\n' {
			continue
		}
		l.addParagraph(start, i, m, wrap)
		start = i + 1
	}
	return l
}

func (l *layout) addParagraph(start, end int, m Metrics, wrap float64) {
	rtl := isRTL(l.text[start:end])
	if wrap <= 0 {
		l.lines = append(l.lines, Line{Start: start, End: end, Width: width(m, l.text[start:end]), RTL: rtl})
		return
	}
	lineStart, lineWidth, pos := start, 0.0, start
	rest, state := string(l.text[start:end]), -1
	for len(rest) > 0 {
		var seg string
		seg, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		n := utf8.RuneCountInString(seg)
		w := width(m, l.text[pos:pos+n])
		if lineWidth+w > wrap && pos > lineStart {
			l.lines = append(l.lines, Line{Start: lineStart, End: pos, Width: lineWidth, RTL: rtl})
			lineStart, lineWidth = pos, 0
		}
		lineWidth += w
		pos += n
	}
	l.lines = append(l.lines, Line{Start: lineStart, End: end, Width: lineWidth, RTL: rtl})
}

func width(m Metrics, rs []rune) float64 {
	w := 0.0
	for _, r := range rs {
		w += m.Advance(r)
	}
	return w
}

// isRTL resolves a paragraph's direction from its first strong character.
func isRTL(rs []rune) bool {
	for _, r := range rs {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.L:
			return false
		case bidi.R, bidi.AL:
			return true
		}
	}
	return false
}

// wordAttrs marks word starts and ends. A word is a segment containing a
// letter or digit.
func wordAttrs(text []rune) []uint8 {
	attrs := make([]uint8, len(text)+1)
	rest, state, pos := string(text), -1, 0
	for len(rest) > 0 {
		var seg string
		seg, rest, state = uniseg.FirstWordInString(rest, state)
		n := utf8.RuneCountInString(seg)
		for _, r := range seg {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				attrs[pos] |= wordStart
				attrs[pos+n] |= wordEnd
				break
			}
		}
		pos += n
	}
	return attrs
}

func (l *layout) lineOf(pos int) int {
	i := 0
	for j, ln := range l.lines {
		if ln.Start > pos {
			break
		}
		i = j
	}
	return i
}

func (l *layout) xOf(pos int, m Metrics) float64 {
	ln := l.lines[l.lineOf(pos)]
	pos = min(max(pos, ln.Start), ln.End)
	x := width(m, l.text[ln.Start:pos])
	if ln.RTL {
		return ln.Width - x
	}
	return x
}

func (l *layout) offsetAtX(i int, x float64, m Metrics) int {
	ln := l.lines[i]
	if ln.RTL {
		x = ln.Width - x
	}
	acc := 0.0
	for p := ln.Start; p < ln.End; p++ {
		adv := m.Advance(l.text[p])
		if x < acc+adv/2 {
			return p
		}
		acc += adv
	}
	return ln.End
}
