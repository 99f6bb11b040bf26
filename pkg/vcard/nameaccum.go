package vcard

import (
	"strings"

	"github.com/kithhq/kith/pkg/fact"
)

// nameAccum gathers FN and N lines into a single name fact, emitted once
// per card by flush.
type nameAccum struct {
	seen                                             bool
	given, family, additional, prefix, suffix, full string
}

func (a *nameAccum) setN(value string) {
	parts := unescapeComponents(value)
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	a.family = get(0)
	a.given = get(1)
	a.additional = get(2)
	a.prefix = get(3)
	a.suffix = get(4)
	if a.family != "" || a.given != "" || a.additional != "" || a.prefix != "" || a.suffix != "" {
		a.seen = true
	}
}

func (a *nameAccum) setFN(value string) {
	v := unescapeValue(value)
	if v == "" {
		return
	}
	a.seen = true
	a.full = v
}

func (a *nameAccum) flush() (fact.Value, bool) {
	if !a.seen {
		return nil, false
	}
	full := a.full
	if full == "" {
		var parts []string
		for _, p := range []string{a.prefix, a.given, a.additional, a.family, a.suffix} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		full = strings.Join(parts, " ")
	}
	return fact.NameValue{
		Given:      a.given,
		Family:     a.family,
		Additional: a.additional,
		Prefix:     a.prefix,
		Suffix:     a.suffix,
		Full:       full,
	}, true
}
