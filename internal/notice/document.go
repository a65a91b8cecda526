package notice

import (
	"sort"
	"strings"
)

// Style is a set of text emphasis flags.
type Style uint8

const (
	Bold Style = 1 << iota
	Underline
)

// Span applies a Style to the byte range [Start, End) of a Document's text.
type Span struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Style Style `json:"style"`
}

// Document is notice text plus style annotations. Paragraphs are separated
// by "\n". Edits made through Document keep spans attached to the text they
// were applied to.
type Document struct {
	Text  string `json:"text"`
	Spans []Span `json:"spans,omitempty"`
}

// NewDocument returns an unstyled document holding text.
func NewDocument(text string) *Document {
	return &Document{Text: text}
}

// splice replaces Text[start:end] with s and moves spans accordingly.
// Spans covering removed text shrink; empty spans are dropped.
func (d *Document) splice(start, end int, s string) {
	d.Text = d.Text[:start] + s + d.Text[end:]
	delta := len(s) - (end - start)

	kept := d.Spans[:0]
	for _, sp := range d.Spans {
		sp.Start = shiftStart(sp.Start, start, end, delta)
		sp.End = shiftEnd(sp.End, start, end, delta)
		if sp.End > sp.Start {
			kept = append(kept, sp)
		}
	}
	d.Spans = kept
}

// shiftStart maps a span start across a splice of [start, end) that changed
// the text length by delta. Text inserted at a span's start is not styled.
func shiftStart(off, start, end, delta int) int {
	switch {
	case off < start:
		return off
	case off >= end:
		return off + delta
	default:
		return start
	}
}

// shiftEnd maps a span end the same way. Text inserted at a span's end is
// not styled; a span ending inside the replaced range is cut at its start.
func shiftEnd(off, start, end, delta int) int {
	switch {
	case off <= start:
		return off
	case off >= end:
		return off + delta
	default:
		return start
	}
}

// Apply styles the byte range [start, end).
func (d *Document) Apply(start, end int, style Style) {
	if start < 0 || end > len(d.Text) || end <= start {
		return
	}
	d.Spans = append(d.Spans, Span{Start: start, End: end, Style: style})
}

// StyleFirst styles the first occurrence of phrase. It reports whether
// phrase was found.
func (d *Document) StyleFirst(phrase string, style Style) bool {
	if phrase == "" {
		return false
	}
	i := strings.Index(d.Text, phrase)
	if i < 0 {
		return false
	}
	d.Apply(i, i+len(phrase), style)
	return true
}

// StyleInParagraphs styles the first occurrence of phrase within every
// paragraph that contains it.
func (d *Document) StyleInParagraphs(phrase string, style Style) int {
	if phrase == "" {
		return 0
	}
	n := 0
	off := 0
	for _, para := range strings.Split(d.Text, "\n") {
		if i := strings.Index(para, phrase); i >= 0 {
			d.Apply(off+i, off+i+len(phrase), style)
			n++
		}
		off += len(para) + 1
	}
	return n
}

// ReplaceAll substitutes every occurrence of old with s.
func (d *Document) ReplaceAll(old, s string) {
	if old == "" {
		return
	}
	from := 0
	for {
		i := strings.Index(d.Text[from:], old)
		if i < 0 {
			return
		}
		i += from
		d.splice(i, i+len(old), s)
		from = i + len(s)
	}
}

// ReplaceRange substitutes Text[start:end] with s.
func (d *Document) ReplaceRange(start, end int, s string) {
	if start < 0 || end > len(d.Text) || end < start {
		return
	}
	d.splice(start, end, s)
}

// paragraphBounds returns the [start, end) range of the paragraph holding
// the first occurrence of substr, excluding its line break.
func (d *Document) paragraphBounds(substr string) (start, end int, ok bool) {
	i := strings.Index(d.Text, substr)
	if i < 0 {
		return 0, 0, false
	}
	start = strings.LastIndexByte(d.Text[:i], '\n') + 1
	end = strings.IndexByte(d.Text[i:], '\n')
	if end < 0 {
		end = len(d.Text)
	} else {
		end += i
	}
	return start, end, true
}

// RemoveParagraph deletes the whole paragraph containing substr, including
// its line break. It reports whether a paragraph was removed.
func (d *Document) RemoveParagraph(substr string) bool {
	start, end, ok := d.paragraphBounds(substr)
	if !ok {
		return false
	}
	switch {
	case end < len(d.Text):
		end++
	case start > 0:
		start--
	}
	d.splice(start, end, "")
	return true
}

// InsertBlankBefore inserts an empty paragraph before the paragraph
// containing substr.
func (d *Document) InsertBlankBefore(substr string) bool {
	start, _, ok := d.paragraphBounds(substr)
	if !ok {
		return false
	}
	d.splice(start, start, "\n")
	return true
}

// Segment is a maximal run of text sharing one style.
type Segment struct {
	Text  string
	Style Style
}

// Segments splits the document into styled runs in text order.
func (d *Document) Segments() []Segment {
	if d.Text == "" {
		return nil
	}
	cuts := map[int]bool{0: true, len(d.Text): true}
	for _, sp := range d.Spans {
		cuts[clamp(sp.Start, len(d.Text))] = true
		cuts[clamp(sp.End, len(d.Text))] = true
	}
	points := make([]int, 0, len(cuts))
	for p := range cuts {
		points = append(points, p)
	}
	sort.Ints(points)

	var segs []Segment
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		if a == b {
			continue
		}
		var st Style
		for _, sp := range d.Spans {
			if sp.Start <= a && sp.End >= b {
				st |= sp.Style
			}
		}
		if n := len(segs); n > 0 && segs[n-1].Style == st {
			segs[n-1].Text += d.Text[a:b]
			continue
		}
		segs = append(segs, Segment{Text: d.Text[a:b], Style: st})
	}
	return segs
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
