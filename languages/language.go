package languages

import (
	"path/filepath"
	"strings"

	"github.com/reusee/esoide/decoders"
	"github.com/reusee/esoide/interpreters"
)

// Language binds a file type to its interpreters and input decoder.
// Nil constructors mean the language cannot be executed.
type Language struct {
	Name       string
	Extensions []string
	Decoder    decoders.Decoder

	newVisual func(code string, io interpreters.IO, historyLimit int) (interpreters.Reversible, error)
	newRunner func(code string, io interpreters.IO) (interpreters.Interpreter, error)
}

var (
	None = &Language{
		Name:    "none",
		Decoder: decoders.Plain{},
	}

	Text = &Language{
		Name:       "text",
		Extensions: []string{".txt"},
		Decoder:    decoders.Plain{},
	}

	Brainfuck = &Language{
		Name:       "brainfuck",
		Extensions: []string{".b", ".bf"},
		Decoder:    decoders.Brainfuck{},
		newVisual: func(code string, io interpreters.IO, historyLimit int) (interpreters.Reversible, error) {
			return interpreters.NewBrainfuck(code, io, interpreters.WithHistoryLimit(historyLimit))
		},
		newRunner: func(code string, io interpreters.IO) (interpreters.Interpreter, error) {
			return interpreters.NewFastBrainfuck(code, io)
		},
	}
)

var All = []*Language{
	None,
	Text,
	Brainfuck,
}

func (l *Language) String() string {
	return l.Name
}

// Runnable reports whether the language has interpreters.
func (l *Language) Runnable() bool {
	return l.newRunner != nil && l.newVisual != nil
}

// NewVisual constructs the reversible interpreter used for stepwise runs.
func (l *Language) NewVisual(code string, io interpreters.IO, historyLimit int) (interpreters.Reversible, error) {
	if l.newVisual == nil {
		return nil, interpreters.ErrNoInterpreter
	}
	return l.newVisual(code, io, historyLimit)
}

// NewRunner constructs the forward-only interpreter used for batch runs.
func (l *Language) NewRunner(code string, io interpreters.IO) (interpreters.Interpreter, error) {
	if l.newRunner == nil {
		return nil, interpreters.ErrNoInterpreter
	}
	return l.newRunner(code, io)
}

func FromExtension(ext string) *Language {
	ext = strings.ToLower(ext)
	for _, lang := range All {
		for _, e := range lang.Extensions {
			if e == ext {
				return lang
			}
		}
	}
	return None
}

func FromPath(path string) *Language {
	return FromExtension(filepath.Ext(path))
}

func FromName(name string) *Language {
	for _, lang := range All {
		if strings.EqualFold(lang.Name, name) {
			return lang
		}
	}
	return None
}
