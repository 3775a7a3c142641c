package response

import (
	"encoding/json"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type tokenKind int

const (
	kindSpace tokenKind = iota
	kindPunct
	kindKey
	kindString
	kindNumber
	kindLiteral // true, false
	kindNull
)

type token struct {
	kind tokenKind
	text string
}

var kindColor = map[tokenKind]fyne.ThemeColorName{
	kindSpace:   theme.ColorNameForeground,
	kindPunct:   theme.ColorNameForeground,
	kindKey:     theme.ColorNamePrimary,
	kindString:  theme.ColorNameSuccess,
	kindNumber:  theme.ColorNameWarning,
	kindLiteral: theme.ColorNameError,
	kindNull:    theme.ColorNameDisabled,
}

// bodySegments renders a response body. Valid JSON is syntax highlighted,
// anything else (such as an "Error: ..." message) is shown as plain
// monospace text.
func bodySegments(body string) []widget.RichTextSegment {
	if body == "" {
		return nil
	}
	if !json.Valid([]byte(body)) {
		return []widget.RichTextSegment{monoSegment(body, theme.ColorNameForeground)}
	}

	tokens := lexJSON(body)
	segments := make([]widget.RichTextSegment, 0, len(tokens))
	for _, tok := range tokens {
		segments = append(segments, monoSegment(tok.text, kindColor[tok.kind]))
	}
	return segments
}

func monoSegment(text string, color fyne.ThemeColorName) *widget.TextSegment {
	return &widget.TextSegment{
		Text: text,
		Style: widget.RichTextStyle{
			ColorName: color,
			Inline:    true,
			SizeName:  theme.SizeNameText,
			TextStyle: fyne.TextStyle{Monospace: true},
		},
	}
}

// lexJSON splits already valid JSON into tokens. Strings followed by a colon
// are reported as keys.
func lexJSON(src string) []token {
	var tokens []token
	lastString := -1 // index of the most recent string token, if still pending

	for i := 0; i < len(src); {
		var tok token
		switch c := src[i]; {
		case isSpace(c):
			tok = token{kindSpace, src[i : i+spanOf(src[i:], isSpace)]}
		case c == '"':
			tok = token{kindString, src[i : i+stringLen(src[i:])]}
		case c == '-' || isDigit(c):
			tok = token{kindNumber, src[i : i+spanOf(src[i:], isNumberByte)]}
		case strings.HasPrefix(src[i:], "true"):
			tok = token{kindLiteral, "true"}
		case strings.HasPrefix(src[i:], "false"):
			tok = token{kindLiteral, "false"}
		case strings.HasPrefix(src[i:], "null"):
			tok = token{kindNull, "null"}
		default:
			tok = token{kindPunct, src[i : i+1]}
		}

		switch {
		case tok.kind == kindString:
			lastString = len(tokens)
		case tok.kind == kindPunct && tok.text == ":" && lastString >= 0:
			tokens[lastString].kind = kindKey
			lastString = -1
		case tok.kind != kindSpace:
			lastString = -1
		}

		tokens = append(tokens, tok)
		i += len(tok.text)
	}
	return tokens
}

// stringLen returns the length of the quoted string at the start of s,
// including both quotes.
func stringLen(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(s)
}

func spanOf(s string, match func(byte) bool) int {
	n := 1
	for n < len(s) && match(s[n]) {
		n++
	}
	return n
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}
