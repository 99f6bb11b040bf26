package vcard

import (
	"strconv"
	"strings"

	"github.com/kithhq/kith/pkg/fact"
)

// Parse runs the pipeline of §4.2.1 over raw vCard bytes: unfold, locate the
// envelope, parse each content line, dispatch known properties into facts,
// and flush the name/org accumulators. Every emitted fact carries
// SubjectID == uuid.Nil, Confidence == certain, and an Imported recording
// context; the caller patches SubjectID before persistence.
func Parse(raw string) (ParsedVcard, error) {
	lines := unfold(raw)

	begin, end := -1, -1
	for i, l := range lines {
		if begin == -1 && strings.EqualFold(l, "BEGIN:VCARD") {
			begin = i
		}
		if strings.EqualFold(l, "END:VCARD") {
			end = i
		}
	}
	if begin == -1 || end == -1 || end < begin {
		return ParsedVcard{}, ErrMissingEnvelope
	}

	var (
		uid       string
		name      nameAccum
		orgGroups []orgGroup
		facts     []fact.Value
	)

	for _, line := range lines[begin+1 : end] {
		cl, ok := parseContentLine(line)
		if !ok {
			continue
		}

		types := upperTypes(cl.paramValues("TYPE"))
		pref := prefFromParams(cl, types)
		label := labelFromTypes(types)

		switch cl.Name {
		case "VERSION", "PRODID", "REV", "KIND", "CATEGORIES":
			// discarded

		case "UID":
			uid = strings.TrimSpace(cl.Value)

		case "FN":
			name.setFN(cl.Value)

		case "N":
			name.setN(cl.Value)

		case "NICKNAME":
			for _, tok := range strings.Split(cl.Value, ",") {
				n := unescapeValue(strings.TrimSpace(tok))
				if n != "" {
					facts = append(facts, fact.AliasValue{Name: n})
				}
			}

		case "TEL":
			number := unescapeValue(strings.TrimSpace(cl.Value))
			if number == "" {
				continue
			}
			facts = append(facts, fact.PhoneValue{
				Number: number, Label: label, Kind: phoneKindFromTypes(types), Preference: pref,
			})

		case "EMAIL":
			addr := unescapeValue(strings.TrimSpace(cl.Value))
			if addr == "" {
				continue
			}
			facts = append(facts, fact.EmailValue{Address: addr, Label: label, Preference: pref})

		case "ADR":
			parts := unescapeComponents(cl.Value)
			get := func(i int) string {
				if i < len(parts) {
					return parts[i]
				}
				return ""
			}
			facts = append(facts, fact.AddressValue{
				Label:      label,
				Street:     get(2),
				Locality:   get(3),
				Region:     get(4),
				PostalCode: get(5),
				Country:    get(6),
			})

		case "URL":
			u := strings.TrimSpace(cl.Value)
			if u == "" {
				continue
			}
			facts = append(facts, fact.URLValue{URL: u, Context: urlContextFromTypes(types, u)})

		case "BDAY":
			if d, ok := parseCalendarDate(strings.TrimSpace(cl.Value)); ok {
				facts = append(facts, fact.BirthdayValue{Date: d})
			}

		case "ANNIVERSARY":
			if d, ok := parseCalendarDate(strings.TrimSpace(cl.Value)); ok {
				facts = append(facts, fact.AnniversaryValue{Date: d})
			}

		case "GENDER":
			g := strings.TrimSpace(firstComponent(cl.Value, ';'))
			if g != "" {
				facts = append(facts, fact.GenderValue{Text: g})
			}

		case "ORG":
			orgName := unescapeValue(strings.TrimSpace(firstComponent(cl.Value, ';')))
			orgGroups = pushOrg(orgGroups, orgName)

		case "TITLE":
			orgGroups = attachTitle(orgGroups, unescapeValue(strings.TrimSpace(cl.Value)))

		case "ROLE":
			orgGroups = attachRole(orgGroups, unescapeValue(strings.TrimSpace(cl.Value)))

		case "NOTE":
			n := unescapeValue(cl.Value)
			if n != "" {
				facts = append(facts, fact.NoteValue{Text: n})
			}

		case "PHOTO":
			if isBase64Encoded(cl) {
				continue // base64 photos are dropped, never reach the ledger
			}
			uri := strings.TrimSpace(cl.Value)
			if strings.HasPrefix(uri, "http") || strings.HasPrefix(uri, "file://") || strings.HasPrefix(uri, "cid:") {
				facts = append(facts, fact.CustomValue{Key: "photo_uri", Value: uri})
			}

		case "IMPP":
			if colon := strings.IndexByte(cl.Value, ':'); colon >= 0 {
				scheme, handle := cl.Value[:colon], cl.Value[colon+1:]
				facts = append(facts, fact.IMValue{Handle: handle, Service: schemeToService(scheme)})
			}

		case "X-AIM":
			facts = append(facts, fact.IMValue{Handle: strings.TrimSpace(cl.Value), Service: "AIM"})
		case "X-JABBER":
			facts = append(facts, fact.IMValue{Handle: strings.TrimSpace(cl.Value), Service: "XMPP"})
		case "X-SKYPE", "X-SKYPE-USERNAME":
			facts = append(facts, fact.IMValue{Handle: strings.TrimSpace(cl.Value), Service: "Skype"})
		case "X-ICQ":
			facts = append(facts, fact.IMValue{Handle: strings.TrimSpace(cl.Value), Service: "ICQ"})
		case "X-MSN":
			facts = append(facts, fact.IMValue{Handle: strings.TrimSpace(cl.Value), Service: "MSN"})
		case "X-YAHOO":
			facts = append(facts, fact.IMValue{Handle: strings.TrimSpace(cl.Value), Service: "Yahoo"})
		case "X-GOOGLE-TALK":
			facts = append(facts, fact.IMValue{Handle: strings.TrimSpace(cl.Value), Service: "Google Talk"})

		case "X-KITH-SOCIAL":
			platform := firstParam(cl, "PLATFORM")
			handle := unescapeValue(strings.TrimSpace(cl.Value))
			if platform != "" && handle != "" {
				facts = append(facts, fact.SocialValue{Handle: handle, Platform: platform})
			}

		case "X-KITH-GROUP":
			groupID := ptrIfSet(firstParam(cl, "GROUP-ID"))
			facts = append(facts, fact.GroupMembershipValue{
				GroupName: unescapeValue(strings.TrimSpace(cl.Value)),
				GroupID:   groupID,
			})

		case "X-KITH-RELATION":
			facts = append(facts, fact.RelationshipValue{
				Relation:  firstParam(cl, "RELATION"),
				OtherID:   ptrIfSet(firstParam(cl, "OTHER-ID")),
				OtherName: ptrIfSet(strings.TrimSpace(cl.Value)),
			})

		case "X-KITH-MEETING":
			facts = append(facts, fact.MeetingValue{
				Summary:  unescapeValue(strings.TrimSpace(cl.Value)),
				Location: ptrIfSet(firstParam(cl, "LOCATION")),
			})

		case "X-KITH-INTRODUCTION":
			intro := unescapeValue(strings.TrimSpace(cl.Value))
			if intro != "" {
				facts = append(facts, fact.IntroductionValue{Text: intro})
			}

		default:
			if strings.HasPrefix(cl.Name, "X-") {
				facts = append(facts, fact.CustomValue{Key: cl.Name, Value: unescapeValue(cl.Value)})
			}
			// other unknown IANA properties are silently discarded
		}
	}

	var final []fact.Value
	if nv, ok := name.flush(); ok {
		final = append(final, nv)
	}
	final = append(final, flushOrgGroups(orgGroups)...)
	final = append(final, facts...)

	var uidPtr *string
	if uid != "" {
		uidPtr = &uid
	}

	out := make([]fact.NewFact, 0, len(final))
	for _, v := range final {
		out = append(out, fact.NewFact{
			Value:            v,
			Confidence:       fact.ConfidenceCertain,
			RecordingContext: fact.Imported{SourceName: "carddav", OriginalUID: uidPtr},
		})
	}

	return ParsedVcard{UID: uid, Facts: out}, nil
}

func upperTypes(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// prefFromParams returns the first integer PREF=N value as given (vCard
// 4.0), 1 for a vCard 3.0 TYPE=PREF, and 255 when neither is present.
func prefFromParams(cl contentLine, types []string) int {
	for _, v := range cl.paramValues("PREF") {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if hasType(types, "PREF") {
		return 1
	}
	return 255
}

func labelFromTypes(types []string) fact.Label {
	for _, t := range types {
		switch t {
		case "WORK":
			return fact.LabelWork
		case "HOME":
			return fact.LabelHome
		}
	}
	return fact.LabelOther
}

func phoneKindFromTypes(types []string) fact.PhoneKind {
	switch {
	case hasType(types, "CELL") || hasType(types, "MOBILE"):
		return fact.PhoneCell
	case hasType(types, "FAX"):
		return fact.PhoneFax
	case hasType(types, "PAGER"):
		return fact.PhonePager
	case hasType(types, "TEXT"):
		return fact.PhoneText
	case hasType(types, "VIDEO"):
		return fact.PhoneVideo
	default:
		return fact.PhoneVoice
	}
}

func urlContextFromTypes(types []string, url string) fact.URLContext {
	switch {
	case hasType(types, "LINKEDIN") || strings.Contains(url, "linkedin.com"):
		return fact.URLLinkedIn
	case hasType(types, "GITHUB") || strings.Contains(url, "github.com"):
		return fact.URLGitHub
	case hasType(types, "MASTODON") || strings.Contains(url, "mastodon"):
		return fact.URLMastodon
	}
	for _, t := range types {
		switch t {
		case "WORK", "HOME", "PREF", "OTHER":
			continue
		default:
			return fact.URLContext(t)
		}
	}
	return fact.URLHomepage
}

func isBase64Encoded(cl contentLine) bool {
	for _, v := range cl.paramValues("ENCODING") {
		if strings.EqualFold(v, "BASE64") || strings.EqualFold(v, "b") {
			return true
		}
	}
	return false
}

func schemeToService(scheme string) string {
	switch strings.ToLower(scheme) {
	case "xmpp", "jabber":
		return "XMPP"
	case "sip":
		return "SIP"
	case "aim":
		return "AIM"
	case "ymsgr":
		return "Yahoo"
	case "msnim":
		return "MSN"
	case "gtalk":
		return "Google Talk"
	case "skype":
		return "Skype"
	case "irc":
		return "IRC"
	case "matrix":
		return "Matrix"
	default:
		return scheme
	}
}

func firstParam(cl contentLine, name string) string {
	v := cl.paramValues(name)
	if len(v) == 0 {
		return ""
	}
	return v[0]
}
