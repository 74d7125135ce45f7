// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scan turns mel source text into tokens.
package scan // import "github.com/melon-lang/mel/scan"

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token represents a token or text string returned from the scanner.
type Token struct {
	Type Type   // The type of this item.
	Line int    // The line number on which this token appears
	Text string // The text of this item. For strings, the unquoted contents.
}

// Type identifies the type of lex items.
type Type int

const (
	EOF        Type = iota // zero value so an exhausted scanner delivers EOF
	Error                  // error occurred; value is text of error
	Identifier             // alphanumeric identifier
	Keyword                // reserved word
	Int                    // integer literal
	Real                   // floating-point literal
	String                 // quoted string
	Operator               // operator or compound assignment
	LeftParen              // '('
	RightParen             // ')'
	LeftBrack              // '['
	RightBrack             // ']'
	LeftBrace              // '{'
	RightBrace             // '}'
	Semicolon              // ';'
	Comma                  // ','
	Colon                  // ':'
	Dot                    // '.'
	At                     // '@'
	Dollar                 // '$'
)

var typeNames = [...]string{
	EOF: "EOF", Error: "Error", Identifier: "Identifier", Keyword: "Keyword",
	Int: "Int", Real: "Real", String: "String", Operator: "Operator",
	LeftParen: "LeftParen", RightParen: "RightParen", LeftBrack: "LeftBrack",
	RightBrack: "RightBrack", LeftBrace: "LeftBrace", RightBrace: "RightBrace",
	Semicolon: "Semicolon", Comma: "Comma", Colon: "Colon", Dot: "Dot",
	At: "At", Dollar: "Dollar",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func (i Token) String() string {
	switch {
	case i.Type == EOF:
		return "EOF"
	case i.Type == Error:
		return "error: " + i.Text
	case len(i.Text) > 10:
		return fmt.Sprintf("%s: %.10q...", i.Type, i.Text)
	}
	return fmt.Sprintf("%s: %q", i.Type, i.Text)
}

// Keywords are the reserved words of the language.
var Keywords = map[string]bool{
	"if":       true,
	"else":     true,
	"while":    true,
	"for":      true,
	"switch":   true,
	"case":     true,
	"default":  true,
	"break":    true,
	"continue": true,
	"return":   true,
	"nil":      true,
	"true":     true,
	"false":    true,
}

// operators lists the multi-character operators longest first,
// so the scanner can match greedily.
var operators = []string{
	"<<=", ">>=",
	"==", "!=", "<=", ">=", "<<", ">>", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "|=", "&=", "^=",
	"=", "<", ">", "+", "-", "*", "/", "%", "|", "&", "^", "!", "~",
}

const eof = -1

// stateFn represents the state of the scanner as a function that returns the next state.
type stateFn func(*Scanner) stateFn

// Scanner holds the state of the scanner.
type Scanner struct {
	name      string // the name of the input; used only for error reports
	input     string // the text being scanned.
	lastWidth int    // size of the most recent rune from next()
	line      int    // line number in input
	pos       int    // current position in the input
	start     int    // start position of this item
	token     Token
}

// New creates and returns a new scanner for the input text.
func New(name, input string) *Scanner {
	return &Scanner{
		name:  name,
		input: input,
		line:  1,
	}
}

// Name returns the name of the input.
func (l *Scanner) Name() string {
	return l.name
}

// Next returns the next token.
func (l *Scanner) Next() Token {
	l.lastWidth = 0
	l.token = Token{EOF, l.line, "EOF"}
	state := lexAny
	for {
		state = state(l)
		if state == nil {
			return l.token
		}
	}
}

// next returns the next rune in the input.
func (l *Scanner) next() rune {
	if l.pos >= len(l.input) {
		l.lastWidth = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.lastWidth = w
	l.pos += w
	if r == '\n' {
		l.line++
	}
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *Scanner) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// backup steps back one rune. Should only be called once per call of next.
func (l *Scanner) backup() {
	l.pos -= l.lastWidth
	if l.lastWidth == 1 && l.input[l.pos] == '\n' {
		l.line--
	}
	l.lastWidth = 0
}

// emit passes an item back to the client.
func (l *Scanner) emit(t Type) stateFn {
	return l.emitText(t, l.input[l.start:l.pos])
}

func (l *Scanner) emitText(t Type, text string) stateFn {
	l.token = Token{t, l.line, text}
	l.start = l.pos
	return nil
}

// ignore skips over the pending input before this point.
func (l *Scanner) ignore() {
	l.start = l.pos
}

// accept consumes the next rune if it's from the valid set.
func (l *Scanner) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptRun consumes a run of runes from the valid set.
func (l *Scanner) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

// errorf returns an error token and empties the input.
func (l *Scanner) errorf(format string, args ...interface{}) stateFn {
	l.token = Token{Error, l.line, fmt.Sprintf(format, args...)}
	l.start = len(l.input)
	l.pos = len(l.input)
	return nil
}

// state functions

// lexAny scans non-space items.
func lexAny(l *Scanner) stateFn {
	switch r := l.next(); {
	case r == eof:
		return nil
	case isSpace(r):
		l.ignore()
		return lexAny
	case r == '/' && (l.peek() == '/' || l.peek() == '*'):
		return lexComment
	case r == '\'' || r == '"':
		return lexQuote(r)
	case '0' <= r && r <= '9':
		l.backup()
		return lexNumber
	case r == '.' && isDigit(l.peek()):
		l.backup()
		return lexNumber
	case isAlphaNumeric(r):
		l.backup()
		return lexIdentifier
	case r == '(':
		return l.emit(LeftParen)
	case r == ')':
		return l.emit(RightParen)
	case r == '[':
		return l.emit(LeftBrack)
	case r == ']':
		return l.emit(RightBrack)
	case r == '{':
		return l.emit(LeftBrace)
	case r == '}':
		return l.emit(RightBrace)
	case r == ';':
		return l.emit(Semicolon)
	case r == ',':
		return l.emit(Comma)
	case r == ':':
		return l.emit(Colon)
	case r == '.':
		return l.emit(Dot)
	case r == '@':
		return l.emit(At)
	case r == '$':
		return l.emit(Dollar)
	default:
		l.backup()
		return lexOperator
	}
}

// lexComment skips a // or /* */ comment. The first slash has been consumed.
func lexComment(l *Scanner) stateFn {
	if l.next() == '/' {
		for {
			r := l.next()
			if r == eof || r == '\n' {
				break
			}
		}
		l.ignore()
		return lexAny
	}
	for {
		r := l.next()
		if r == eof {
			return l.errorf("unterminated comment")
		}
		if r == '*' && l.peek() == '/' {
			l.next()
			break
		}
	}
	l.ignore()
	return lexAny
}

// lexOperator scans the longest operator at the current position.
func lexOperator(l *Scanner) stateFn {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			return l.emit(Operator)
		}
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return l.errorf("unrecognized character: %#U", r)
}

// lexIdentifier scans an alphanumeric.
func lexIdentifier(l *Scanner) stateFn {
	for isAlphaNumeric(l.peek()) {
		l.next()
	}
	if Keywords[l.input[l.start:l.pos]] {
		return l.emit(Keyword)
	}
	return l.emit(Identifier)
}

// lexNumber scans an integer or real literal. Integers may be decimal,
// hexadecimal (0x) or octal (leading 0).
func lexNumber(l *Scanner) stateFn {
	digits := "0123456789"
	if l.accept("0") && l.accept("xX") {
		digits = "0123456789abcdefABCDEF"
		l.acceptRun(digits)
		if !l.atTerminator() {
			return l.errorf("bad number syntax: %q", l.input[l.start:l.pos+1])
		}
		return l.emit(Int)
	}
	l.acceptRun(digits)
	real := false
	if l.accept(".") {
		real = true
		l.acceptRun(digits)
	}
	if l.accept("eE") {
		real = true
		l.accept("+-")
		l.acceptRun(digits)
	}
	if !l.atTerminator() {
		return l.errorf("bad number syntax: %q", l.input[l.start:l.pos+1])
	}
	if real {
		return l.emit(Real)
	}
	return l.emit(Int)
}

// lexQuote scans a quoted string. The opening quote has been consumed.
func lexQuote(quote rune) stateFn {
	return func(l *Scanner) stateFn {
		var b strings.Builder
		line := l.line
		for {
			r := l.next()
			switch r {
			case eof:
				l.line = line
				return l.errorf("unterminated string")
			case quote:
				return l.emitText(String, b.String())
			case '\\':
				e := l.next()
				switch e {
				case 'n':
					b.WriteByte('\n')
				case 't':
					b.WriteByte('\t')
				case 'r':
					b.WriteByte('\r')
				case '0':
					b.WriteByte(0)
				case '\\', '\'', '"':
					b.WriteRune(e)
				case eof:
					return l.errorf("unterminated string")
				default:
					return l.errorf("unknown escape sequence: \\%c", e)
				}
			default:
				b.WriteRune(r)
			}
		}
	}
}

// atTerminator reports whether the input is at valid termination character to
// appear after a number.
func (l *Scanner) atTerminator() bool {
	r := l.peek()
	return r == eof || isSpace(r) || unicode.IsPunct(r) && r != '_' || unicode.IsSymbol(r)
}

// isSpace reports whether r is a space character.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// isAlphaNumeric reports whether r is an alphabetic, digit, or underscore.
func isAlphaNumeric(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
