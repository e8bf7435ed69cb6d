package decoders

import (
	"regexp"
	"strconv"
	"unicode/utf8"
)

// Brainfuck decodes literal characters and the escapes \\ \n \r \t and \DDD,
// where DDD is one to three decimal digits giving a character code.
type Brainfuck struct{}

var _ Decoder = Brainfuck{}

var brainfuckToken = regexp.MustCompile(`^(?s:\\(?:n|r|t|\\|[0-9]{1,3})|[^\\])`)

func (Brainfuck) DecodeNext(text string) (rune, int, bool) {
	loc := brainfuckToken.FindStringIndex(text)
	if loc == nil {
		return 0, 0, false
	}
	match := text[:loc[1]]

	if match[0] != '\\' {
		r, _ := utf8.DecodeRuneInString(match)
		return r, loc[1], true
	}

	switch match[1] {
	case 'n', 'r':
		// the input widget never shows a bare carriage return
		return '\n', loc[1], true
	case 't':
		return '\t', loc[1], true
	case '\\':
		return '\\', loc[1], true
	}
	code, err := strconv.Atoi(match[1:])
	if err != nil {
		return 0, 0, false
	}
	return rune(code), loc[1], true
}
