package decoders

import "unicode/utf8"

// Decoder turns raw input text into input tokens.
type Decoder interface {
	// DecodeNext decodes one token from the head of text and returns it with the number of
	// bytes consumed. ok is false when text holds no complete token yet.
	DecodeNext(text string) (token rune, n int, ok bool)
}

// Plain takes every character literally.
type Plain struct{}

var _ Decoder = Plain{}

func (Plain) DecodeNext(text string) (rune, int, bool) {
	if text == "" {
		return 0, 0, false
	}
	r, n := utf8.DecodeRuneInString(text)
	return r, n, true
}

// DecodeAll decodes tokens until no complete token is left, returning the tokens and the consumed length.
func DecodeAll(d Decoder, text string) (tokens []rune, consumed int) {
	for {
		token, n, ok := d.DecodeNext(text[consumed:])
		if !ok {
			return
		}
		tokens = append(tokens, token)
		consumed += n
	}
}
