// Package blockstring formats GraphQL string and block string literals the
// same way the graphql-js printer does, so that printed descriptions are
// byte-identical to hand-written schema text.
package blockstring

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// IsPrintable reports whether value can be written as a block string
// without changing its meaning.
func IsPrintable(value string) bool {
	if value == "" {
		return true
	}
	var (
		isEmptyLine      = true
		hasIndent        = false
		hasCommonIndent  = true
		seenNonEmptyLine = false
	)
	for _, r := range value {
		switch r {
		case 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x0b, 0x0c, 0x0e, 0x0f:
			return false
		case '\r':
			return false
		case '\n':
			if isEmptyLine && !seenNonEmptyLine {
				return false
			}
			seenNonEmptyLine = true
			isEmptyLine = true
			hasIndent = false
		case '\t', ' ':
			hasIndent = hasIndent || isEmptyLine
		default:
			hasCommonIndent = hasCommonIndent && hasIndent
			isEmptyLine = false
		}
	}
	if isEmptyLine {
		return false
	}
	if hasCommonIndent && seenNonEmptyLine {
		return false
	}
	return true
}

func isWhiteSpace(b byte) bool {
	return b == '\t' || b == ' '
}

// Block returns value as a triple-quoted block string.
func Block(value string) string {
	escaped := strings.ReplaceAll(value, `"""`, `\"""`)
	lines := splitLines(escaped)
	isSingleLine := len(lines) == 1

	forceLeadingNewLine := len(lines) > 1
	if forceLeadingNewLine {
		for _, line := range lines[1:] {
			if line != "" && !isWhiteSpace(line[0]) {
				forceLeadingNewLine = false
				break
			}
		}
	}

	hasTrailingTripleQuotes := strings.HasSuffix(escaped, `\"""`)
	hasTrailingQuote := strings.HasSuffix(value, `"`) && !hasTrailingTripleQuotes
	hasTrailingSlash := strings.HasSuffix(value, `\`)
	forceTrailingNewline := hasTrailingQuote || hasTrailingSlash

	printAsMultipleLines := !isSingleLine ||
		utf16Len(value) > 70 ||
		forceTrailingNewline ||
		forceLeadingNewLine ||
		hasTrailingTripleQuotes

	var b strings.Builder
	b.WriteString(`"""`)
	skipLeadingNewLine := isSingleLine && value != "" && isWhiteSpace(value[0])
	if (printAsMultipleLines && !skipLeadingNewLine) || forceLeadingNewLine {
		b.WriteByte('\n')
	}
	b.WriteString(escaped)
	if printAsMultipleLines || forceTrailingNewline {
		b.WriteByte('\n')
	}
	b.WriteString(`"""`)
	return b.String()
}

// splitLines splits on \r\n, \n and \r.
func splitLines(s string) []string {
	var (
		lines []string
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Quote returns value as a double-quoted string literal.
func Quote(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('"')
	for _, r := range value {
		switch {
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\f':
			b.WriteString(`\f`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r < 0x20, r >= 0x7f && r <= 0x9f:
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Format returns value as a block string when that is lossless, and as a
// quoted string otherwise.
func Format(value string) string {
	if IsPrintable(value) {
		return Block(value)
	}
	return Quote(value)
}

// Description renders a description ahead of a definition. Nested items
// carry indent; every item in a block except the first is preceded by a
// blank line. An empty description renders as nothing.
func Description(value, indent string, firstInBlock bool) string {
	if value == "" {
		return ""
	}
	prefix := indent
	if indent != "" && !firstInBlock {
		prefix = "\n" + indent
	}
	return prefix + strings.ReplaceAll(Format(value), "\n", "\n"+indent) + "\n"
}
