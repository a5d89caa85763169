package printer

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Alignment values for SetAlign.
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character sizes for SetFontSize.
const (
	FontNormal = 0x00
	FontDouble = 0x11 // double width and height
)

// Document accumulates an ESC/POS byte stream for a thermal receipt.
// Methods chain; nothing is sent until Bytes() is handed to a Printer.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for a printer of the given character width:
// 32 for 58mm paper, 48 for 80mm.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{esc, '@'}) // initialize
	return d
}

// LineFeed advances one line.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(lf)
	return d
}

// FeedLines advances n lines.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(lf)
	}
	return d
}

// SetAlign switches text alignment for subsequent lines.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{esc, 'a', byte(align)})
	return d
}

// SetBold toggles emphasis.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
	return d
}

// SetFontSize switches character size.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{gs, '!', size})
	return d
}

// Text prints one line.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(lf)
	return d
}

// Separator prints a full-width rule of the given character.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(lf)
	return d
}

// KeyValue prints a key flush left and a value flush right on one line.
func (d *Document) KeyValue(key, value string) *Document {
	d.justified(key, value)
	return d
}

// ItemLine prints a receipt line: "2x Widget" left, the line total right.
// Long product names are truncated rather than wrapped.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	prefix := fmt.Sprintf("%dx %s", qty, name)
	if max := d.width - len(total) - 1; len(prefix) > max && max > 3 {
		prefix = prefix[:max-1] + "."
	}
	d.justified(prefix, total)
	return d
}

// Cut triggers a full paper cut.
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{gs, 'V', 0x00})
	return d
}

// Bytes returns the accumulated ESC/POS stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func (d *Document) justified(left, right string) {
	pad := d.width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", pad))
	d.buf.WriteString(right)
	d.buf.WriteByte(lf)
}
