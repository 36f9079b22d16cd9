// Package editbuf implements a grapheme-cluster-aware editable text
// buffer. Despite the word "character" below, positions are cumulative
// display-column widths over extended grapheme clusters, not grapheme
// counts or byte offsets — the buffer is purpose-built for placing a
// cursor in a terminal, where a wide (e.g. CJK) cluster occupies two
// columns. Naming is kept close to original_source/src/text.rs (which
// has the same quirk) so the two remain easy to cross-reference.
package editbuf

import (
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

type span struct {
	byteIdx int
	text    string
}

// graphemeSpans partitions s into its extended grapheme clusters, each
// tagged with its starting byte offset.
func graphemeSpans(s string) []span {
	var spans []span
	seg := graphemes.NewSegmenter(s)
	pos := 0
	for seg.Next() {
		g := seg.Value()
		spans = append(spans, span{byteIdx: pos, text: g})
		pos += len(g)
	}
	return spans
}

// byteIndex finds the byte offset in s at which cumulative display width
// reaches position, scanning grapheme cluster by grapheme cluster.
func byteIndex(s string, position int) int {
	total := 0
	for _, sp := range graphemeSpans(s) {
		if total >= position {
			return sp.byteIdx
		}
		total += runewidth.StringWidth(sp.text)
	}
	return len(s)
}

// charIndex sums the display width of every grapheme cluster lying
// entirely before bytePosition in s.
func charIndex(s string, bytePosition int) int {
	total := 0
	for _, sp := range graphemeSpans(s) {
		if bytePosition < sp.byteIdx+len(sp.text) {
			break
		}
		total += runewidth.StringWidth(sp.text)
	}
	return total
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Text is a string paired with a selection position, expressed in
// cumulative display-column width. The zero value is a valid empty text
// selecting position 0.
type Text struct {
	text      string
	selection int
}

// FromString creates a Text from s, selecting its very first position.
func FromString(s string) Text {
	return Text{text: s}
}

// SelectStart moves the selection to the first position.
func (t Text) SelectStart() Text {
	t.selection = 0
	return t
}

// SelectEnd moves the selection past the last grapheme cluster.
func (t Text) SelectEnd() Text {
	t.selection = t.Len()
	return t
}

// SelectNext moves the selection one position (display column) forward,
// clamped to Len.
func (t Text) SelectNext() Text {
	t.selection = minInt(t.selection+1, t.Len())
	return t
}

// SelectPrev moves the selection one position (display column) backward,
// clamped to 0.
func (t Text) SelectPrev() Text {
	sel := t.selection - 1
	if sel < 0 {
		sel = 0
	}
	t.selection = minInt(sel, t.Len())
	return t
}

// SelectByteIndex selects the position corresponding to the given byte
// offset into the text.
func (t Text) SelectByteIndex(byteIdx int) Text {
	t.selection = charIndex(t.text, byteIdx)
	return t
}

// InsertChar inserts a single rune at the current selection, then
// advances the selection past it.
func (t *Text) InsertChar(c rune) {
	bi := byteIndex(t.text, t.selection)
	t.text = t.text[:bi] + string(c) + t.text[bi:]
	t.selection = minInt(t.selection+1, t.Len())
}

// RemoveChar removes the single rune at the current selection, if the
// selection is not past the end of the text. Note this removes one
// Unicode scalar value, not necessarily the whole grapheme cluster under
// the selection — matching the buffer this was ported from.
func (t *Text) RemoveChar() {
	if t.selection >= t.Len() {
		return
	}
	bi := byteIndex(t.text, t.selection)
	_, size := utf8.DecodeRuneInString(t.text[bi:])
	t.text = t.text[:bi] + t.text[bi+size:]
	t.selection = minInt(t.selection, t.Len())
}

// Substr returns the suffix of the text starting at the given position.
func (t Text) Substr(start int) string {
	return t.text[byteIndex(t.text, start):]
}

// Len returns the text's total display width.
func (t Text) Len() int {
	return charIndex(t.text, len(t.text))
}

// String returns the text's underlying string, discarding selection
// information.
func (t Text) String() string {
	return t.text
}

// Selection returns the current selection position.
func (t Text) Selection() int {
	return t.selection
}

// SelectionByteIndex returns the current selection expressed as a byte
// offset into the text.
func (t Text) SelectionByteIndex() int {
	return byteIndex(t.text, t.selection)
}
