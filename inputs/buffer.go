package inputs

import (
	"sync"
	"unicode/utf8"

	"github.com/reusee/esoide/decoders"
)

// Buffer is an append-only input text that interpreters consume token by token.
// Text already consumed is locked against editing until Restart.
// Offsets are in bytes. It is safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	text    string
	decoder decoders.Decoder
	// offsets[len-1] is where the next token starts; the stack allows exact undo
	offsets []int
}

func NewBuffer(decoder decoders.Decoder) *Buffer {
	if decoder == nil {
		decoder = decoders.Plain{}
	}
	return &Buffer{
		decoder: decoder,
		offsets: []int{0, 0},
	}
}

// Next decodes and consumes the next token.
func (b *Buffer) Next() (rune, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	last := b.offsets[len(b.offsets)-1]
	token, n, ok := b.decoder.DecodeNext(b.text[last:])
	if !ok {
		return 0, false
	}
	b.offsets = append(b.offsets, last+n)
	return token, true
}

// Prev un-consumes the last token.
func (b *Buffer) Prev() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.offsets) > 2 {
		b.offsets = b.offsets[:len(b.offsets)-1]
	}
}

// Restart unlocks all consumed text.
func (b *Buffer) Restart() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offsets = []int{0, 0}
}

func (b *Buffer) SetDecoder(decoder decoders.Decoder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if decoder == nil {
		decoder = decoders.Plain{}
	}
	b.decoder = decoder
}

func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Consumed returns the length of the locked prefix.
func (b *Buffer) Consumed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.offsets[len(b.offsets)-1]
}

// CanEdit reports whether text may be inserted or deleted at pos.
func (b *Buffer) CanEdit(pos int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return pos >= b.offsets[len(b.offsets)-1] && pos <= len(b.text)
}

func (b *Buffer) Append(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text += text
}

// Insert inserts text at pos, refusing positions inside the consumed prefix.
func (b *Buffer) Insert(pos int, text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pos < b.offsets[len(b.offsets)-1] || pos > len(b.text) {
		return false
	}
	b.text = b.text[:pos] + text + b.text[pos:]
	return true
}

// Delete removes text[start:end] if it lies entirely after the consumed prefix.
func (b *Buffer) Delete(start, end int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if start < b.offsets[len(b.offsets)-1] || end > len(b.text) || start > end {
		return false
	}
	b.text = b.text[:start] + b.text[end:]
	return true
}

// Backspace deletes the last rune unless it is consumed.
func (b *Buffer) Backspace() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, size := utf8.DecodeLastRuneInString(b.text)
	if size == 0 || len(b.text)-size < b.offsets[len(b.offsets)-1] {
		return false
	}
	b.text = b.text[:len(b.text)-size]
	return true
}

// Highlight returns the raw text range of the most recently consumed token.
func (b *Buffer) Highlight() (start, end int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.offsets)
	return b.offsets[n-2], b.offsets[n-1]
}
