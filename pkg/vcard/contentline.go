package vcard

import "strings"

// contentLine is one parsed `NAME;PARAM=...:VALUE` line. Group is the
// dotted prefix before Name, if any (e.g. "ORG1" in "ORG1.ORG"), uppercased
// like Name.
type contentLine struct {
	Group  string
	Name   string
	Params map[string][]string
	Value  string
}

// parseContentLine parses one unfolded logical line. ok is false when the
// line has no unquoted colon — the caller skips such lines rather than
// treating them as an error.
func parseContentLine(line string) (cl contentLine, ok bool) {
	colon := indexUnquoted(line, ':')
	if colon < 0 {
		return contentLine{}, false
	}
	head, value := line[:colon], line[colon+1:]

	tokens := splitUnquoted(head, ';')
	if len(tokens) == 0 {
		return contentLine{}, false
	}

	name := strings.ToUpper(tokens[0])
	group := ""
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		group = name[:dot]
		name = name[dot+1:]
	}

	params := make(map[string][]string)
	for _, tok := range tokens[1:] {
		var pname, pvalue string
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			pname, pvalue = strings.ToUpper(tok[:eq]), tok[eq+1:]
		} else {
			pname, pvalue = "TYPE", tok
		}
		pvalue = strings.Trim(pvalue, `"`)
		params[pname] = append(params[pname], splitUnquoted(pvalue, ',')...)
	}

	if isQuotedPrintable(params) {
		value = decodeQuotedPrintable(value)
	}

	return contentLine{Group: group, Name: name, Params: params, Value: value}, true
}

// paramValues returns every value recorded under name (case-insensitive,
// already-uppercased keys), or nil.
func (cl contentLine) paramValues(name string) []string {
	return cl.Params[strings.ToUpper(name)]
}

func isQuotedPrintable(params map[string][]string) bool {
	for _, v := range params["ENCODING"] {
		if strings.EqualFold(v, "QUOTED-PRINTABLE") {
			return true
		}
	}
	return false
}

// indexUnquoted finds the first occurrence of sep outside a double-quoted
// span, or -1.
func indexUnquoted(s string, sep byte) int {
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case sep:
			if !inQuotes {
				return i
			}
		}
	}
	return -1
}

// firstComponent returns the first sep-delimited component of s outside
// double-quoted spans, or "" if s is empty — splitUnquoted returns nil for
// an empty string, so callers must not index its result directly.
func firstComponent(s string, sep byte) string {
	parts := splitUnquoted(s, sep)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// splitUnquoted splits s on sep outside double-quoted spans.
func splitUnquoted(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	var out []string
	inQuotes := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case sep:
			if !inQuotes {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}
