package vcard

import (
	"fmt"
	"strings"

	"github.com/kithhq/kith/pkg/fact"
)

// Serialize renders view as a vCard 4.0 string with CRLF line endings.
func Serialize(view fact.ContactView) string {
	return serialize(view, true)
}

// SerializeV3 renders view as a vCard 3.0 string: ANNIVERSARY becomes
// X-ANNIVERSARY, GENDER and KIND are suppressed, and PREF folds into the
// TYPE list rather than its own parameter.
func SerializeV3(view fact.ContactView) string {
	return serialize(view, false)
}

func serialize(view fact.ContactView, v4 bool) string {
	var out strings.Builder
	out.WriteString("BEGIN:VCARD\r\n")
	if v4 {
		out.WriteString("VERSION:4.0\r\n")
	} else {
		out.WriteString("VERSION:3.0\r\n")
	}
	out.WriteString(fold(fmt.Sprintf("UID:%s", view.Subject.ID)) + "\r\n")
	out.WriteString("PRODID:-//Kith//Kith vCard//EN\r\n")
	out.WriteString(fold(fmt.Sprintf("REV:%s", view.AsOf.UTC().Format("20060102T150405Z"))) + "\r\n")
	if v4 {
		out.WriteString(fold(fmt.Sprintf("KIND:%s", kindString(view.Subject.Kind))) + "\r\n")
	}
	out.WriteString(serializeBody(view, v4))
	out.WriteString("END:VCARD\r\n")
	return out.String()
}

func kindString(k fact.Kind) string {
	switch k {
	case fact.KindOrganization:
		return "org"
	case fact.KindGroup:
		return "group"
	default:
		return "individual"
	}
}

func serializeBody(view fact.ContactView, v4 bool) string {
	var orgs []fact.OrgMembershipValue
	var hasName bool
	for _, f := range view.ActiveFacts {
		switch v := f.Value.(type) {
		case fact.OrgMembershipValue:
			orgs = append(orgs, v)
		case fact.NameValue:
			hasName = true
		}
	}
	multiOrg := len(orgs) > 1

	var lines []string
	emit := func(s string) { lines = append(lines, fold(s)+"\r\n") }

	if !v4 && !hasName {
		emit("FN:")
		emit("N:;;;;")
	}

	for _, f := range view.ActiveFacts {
		switch v := f.Value.(type) {
		case fact.NameValue:
			emit(fmt.Sprintf("FN:%s", escapeValue(v.Full)))
			emit(fmt.Sprintf("N:%s;%s;%s;%s;%s",
				escapeComponent(v.Family), escapeComponent(v.Given), escapeComponent(v.Additional),
				escapeComponent(v.Prefix), escapeComponent(v.Suffix)))

		case fact.AliasValue:
			emit(fmt.Sprintf("NICKNAME:%s", escapeValue(v.Name)))

		case fact.PhotoValue:
			emit(fmt.Sprintf("PHOTO;VALUE=URI:%s", v.Path))

		case fact.BirthdayValue:
			emit(fmt.Sprintf("BDAY:%s", formatVcardDate(v.Date)))

		case fact.AnniversaryValue:
			prop := "ANNIVERSARY"
			if !v4 {
				prop = "X-ANNIVERSARY"
			}
			emit(fmt.Sprintf("%s:%s", prop, formatVcardDate(v.Date)))

		case fact.GenderValue:
			if v4 {
				emit(fmt.Sprintf("GENDER:%s", escapeValue(v.Text)))
			}

		case fact.EmailValue:
			typeStr := labelTypeString(v.Label)
			if v4 {
				if v.Preference < 255 {
					emit(fmt.Sprintf("EMAIL;TYPE=%s;PREF=%d:%s", typeStr, v.Preference, v.Address))
				} else {
					emit(fmt.Sprintf("EMAIL;TYPE=%s:%s", typeStr, v.Address))
				}
			} else {
				if v.Preference < 255 {
					emit(fmt.Sprintf("EMAIL;TYPE=%s,PREF:%s", typeStr, v.Address))
				} else {
					emit(fmt.Sprintf("EMAIL;TYPE=%s:%s", typeStr, v.Address))
				}
			}

		case fact.PhoneValue:
			typeStr := labelTypeString(v.Label)
			kindStr := phoneKindString(v.Kind)
			if v4 {
				if v.Preference < 255 {
					emit(fmt.Sprintf("TEL;TYPE=%s,%s;PREF=%d:%s", typeStr, kindStr, v.Preference, v.Number))
				} else {
					emit(fmt.Sprintf("TEL;TYPE=%s,%s:%s", typeStr, kindStr, v.Number))
				}
			} else {
				if v.Preference < 255 {
					emit(fmt.Sprintf("TEL;TYPE=%s,%s,PREF:%s", typeStr, kindStr, v.Number))
				} else {
					emit(fmt.Sprintf("TEL;TYPE=%s,%s:%s", typeStr, kindStr, v.Number))
				}
			}

		case fact.AddressValue:
			typeStr := labelTypeString(v.Label)
			emit(fmt.Sprintf("ADR;TYPE=%s:;;%s;%s;%s;%s;%s", typeStr,
				escapeComponent(v.Street), escapeComponent(v.Locality), escapeComponent(v.Region),
				escapeComponent(v.PostalCode), escapeComponent(v.Country)))

		case fact.URLValue:
			emit(fmt.Sprintf("URL;TYPE=%s:%s", urlContextTypeString(v.Context), v.URL))

		case fact.IMValue:
			if v4 {
				emit(fmt.Sprintf("IMPP:%s:%s", serviceToScheme(v.Service), v.Handle))
			} else {
				emit(fmt.Sprintf("%s:%s", serviceToXProp(v.Service), escapeValue(v.Handle)))
			}

		case fact.SocialValue:
			emit(fmt.Sprintf("X-KITH-SOCIAL;PLATFORM=%s:%s", v.Platform, escapeValue(v.Handle)))

		case fact.RelationshipValue:
			prop := fmt.Sprintf("X-KITH-RELATION;RELATION=%s", v.Relation)
			if v.OtherID != nil {
				prop += fmt.Sprintf(";OTHER-ID=%s", *v.OtherID)
			}
			otherName := ""
			if v.OtherName != nil {
				otherName = escapeValue(*v.OtherName)
			}
			emit(fmt.Sprintf("%s:%s", prop, otherName))

		case fact.GroupMembershipValue:
			prop := "X-KITH-GROUP"
			if v.GroupID != nil {
				prop += fmt.Sprintf(";GROUP-ID=%s", *v.GroupID)
			}
			emit(fmt.Sprintf("%s:%s", prop, escapeValue(v.GroupName)))

		case fact.NoteValue:
			emit(fmt.Sprintf("NOTE:%s", escapeValue(v.Text)))

		case fact.MeetingValue:
			prop := "X-KITH-MEETING"
			if v.Location != nil {
				prop += fmt.Sprintf(";LOCATION=%s", *v.Location)
			}
			emit(fmt.Sprintf("%s:%s", prop, escapeValue(v.Summary)))

		case fact.IntroductionValue:
			emit(fmt.Sprintf("X-KITH-INTRODUCTION:%s", escapeValue(v.Text)))

		case fact.CustomValue:
			name := strings.ToUpper(v.Key)
			if !strings.HasPrefix(name, "X-") {
				name = "X-" + name
			}
			emit(fmt.Sprintf("%s:%s", name, escapeValue(v.Value)))

		case fact.OrgMembershipValue:
			// handled below with group-prefix logic

		default:
			// unreachable for a closed Value set
		}
	}

	for i, org := range orgs {
		prefix := ""
		if multiOrg {
			prefix = fmt.Sprintf("ORG%d.", i+1)
		}
		emit(fmt.Sprintf("%sORG:%s", prefix, escapeValue(org.OrgName)))
		if org.Title != nil {
			emit(fmt.Sprintf("%sTITLE:%s", prefix, escapeValue(*org.Title)))
		}
		if org.Role != nil {
			emit(fmt.Sprintf("%sROLE:%s", prefix, escapeValue(*org.Role)))
		}
	}

	return strings.Join(lines, "")
}

func labelTypeString(l fact.Label) string {
	switch l {
	case fact.LabelWork:
		return "WORK"
	case fact.LabelHome:
		return "HOME"
	default:
		return "OTHER"
	}
}

func phoneKindString(k fact.PhoneKind) string {
	switch k {
	case fact.PhoneFax:
		return "FAX"
	case fact.PhoneCell:
		return "CELL"
	case fact.PhonePager:
		return "PAGER"
	case fact.PhoneText:
		return "TEXT"
	case fact.PhoneVideo:
		return "VIDEO"
	case fact.PhoneOther:
		return "OTHER"
	default:
		return "VOICE"
	}
}

func urlContextTypeString(ctx fact.URLContext) string {
	switch ctx {
	case fact.URLHomepage:
		return "HOME"
	case fact.URLLinkedIn:
		return "LINKEDIN"
	case fact.URLGitHub:
		return "GITHUB"
	case fact.URLMastodon:
		return "MASTODON"
	default:
		return string(ctx)
	}
}

func serviceToScheme(service string) string {
	switch strings.ToLower(service) {
	case "xmpp", "jabber":
		return "xmpp"
	case "sip":
		return "sip"
	case "aim":
		return "aim"
	case "yahoo":
		return "ymsgr"
	case "msn":
		return "msnim"
	case "google talk":
		return "gtalk"
	case "skype":
		return "skype"
	case "irc":
		return "irc"
	case "matrix":
		return "matrix"
	default:
		return "x-unknown"
	}
}

func serviceToXProp(service string) string {
	switch strings.ToLower(service) {
	case "xmpp", "jabber":
		return "X-JABBER"
	case "aim":
		return "X-AIM"
	case "yahoo":
		return "X-YAHOO"
	case "msn":
		return "X-MSN"
	case "skype":
		return "X-SKYPE"
	case "icq":
		return "X-ICQ"
	case "google talk":
		return "X-GOOGLE-TALK"
	default:
		return "X-IM"
	}
}

func formatVcardDate(d fact.CalendarDate) string {
	return pad4(d.Year) + pad2(d.Month) + pad2(d.Day)
}
