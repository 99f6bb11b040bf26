package vcard

import "strings"

const foldWidth = 75

// fold wraps one logical line's worth of text with CRLF line folding: every
// continuation is prefixed by a single SPACE, fold points respect UTF-8
// character boundaries, and every segment makes forward progress of at
// least one byte.
func fold(line string) string {
	if len(line) <= foldWidth {
		return line
	}

	var b strings.Builder
	remaining := line
	first := true
	for len(remaining) > 0 {
		limit := foldWidth
		if !first {
			limit = foldWidth - 1 // account for the continuation's leading space
		}
		if limit < 1 {
			limit = 1
		}
		if len(remaining) <= limit {
			if !first {
				b.WriteString("\r\n ")
			}
			b.WriteString(remaining)
			break
		}

		cut := limit
		for cut > 0 && isUTF8Continuation(remaining[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit // guarantee forward progress even mid-rune
		}

		if !first {
			b.WriteString("\r\n ")
		}
		b.WriteString(remaining[:cut])
		remaining = remaining[cut:]
		first = false
	}
	return b.String()
}

func isUTF8Continuation(b byte) bool {
	return b&0xC0 == 0x80
}
