package muserr

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// advice gives one short line of kind-specific guidance, appended after the
// pointer line.
var advice = map[Kind]string{
	UnrecognizedCharacter:             "this byte does not start any valid token",
	UnexpectedEmptySource:             "an opening token here was never closed",
	ExpectedExpressionSeparatorBefore: "insert a newline or comma between expressions",
	ClosingTokenWithoutOpening:        "remove this, or add the matching opening token",
	LiteralAsIdentifier:               "only a bare name can appear here",
	UnexpectedKeyword:                 "this word is reserved and cannot be used as a name",
	UndefinedOperator:                 "this operator has no registered precedence",
	FailedNumericParsing:              "check the literal's digits",
	Arithmetic:                        "this operation is not defined for these operands",
	MissingVariable:                   "define it before referencing it",
	NotCallable:                       "only Blocks and Intrinsics can be called",
	UnsupportedTypesFor:               "see the accepted signatures below",
	WrongArityOf:                      "check the number of arguments",
	OutOfRange:                        "the index is outside the collection's bounds",
	OperationRequiresMidiConnection:   "open a MIDI output port before calling this",
}

// Pretty renders e in the style of the teacher's box-drawing terminal
// output: a heading naming the error at its file:offset, the offending
// source line with a caret pointer, and one line of advice.
func Pretty(e *Error, source string) string {
	var b strings.Builder

	loc := "<unknown location>"
	if e.HasRange() {
		loc = fmt.Sprintf("%s:%d", e.Range.Filename, e.Range.Start)
	}
	fmt.Fprintf(&b, "┌─ ERROR at %s ─\n", loc)
	fmt.Fprintf(&b, "│ %s: %s\n", e.Kind, e.Details)

	if e.HasRange() && source != "" {
		line, byteCol, text := lineAt(source, e.Range.Start)
		col := displayWidth(text[:byteCol])
		fmt.Fprintf(&b, "│\n")
		fmt.Fprintf(&b, "│ %4d | %s\n", line, text)
		fmt.Fprintf(&b, "│      | %s^\n", strings.Repeat(" ", col))
	}

	if len(e.Signatures) > 0 {
		fmt.Fprintf(&b, "│\n│ accepted forms:\n")
		for _, sig := range e.Signatures {
			fmt.Fprintf(&b, "│   %s\n", sig)
		}
	}

	if a, ok := advice[e.Kind]; ok {
		fmt.Fprintf(&b, "│\n│ %s\n", a)
	}
	b.WriteString("└─\n")
	return b.String()
}

// lineAt locates the 1-based line number, 0-based column, and full line
// text containing byte offset pos in source.
func lineAt(source string, pos int) (line, col int, text string) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(source) {
		pos = len(source)
	}
	line = 1
	lineStart := 0
	for i := 0; i < pos; i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := len(source)
	if idx := strings.IndexByte(source[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	return line, pos - lineStart, source[lineStart:lineEnd]
}

// displayWidth measures prefix's terminal column width via
// golang.org/x/text/width (fullwidth/wide East Asian forms count as 2
// columns, everything else 1) rather than a raw byte or rune count — so
// the caret still lands under the right character when the source line
// mixes musique's Unicode musical-symbol glyphs or wide identifiers with
// ASCII.
func displayWidth(prefix string) int {
	col := 0
	for _, r := range prefix {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			col += 2
		default:
			col++
		}
	}
	return col
}
