package vcard

import (
	"strings"
	"testing"

	"github.com/kithhq/kith/pkg/fact"
)

func valuesOf(t *testing.T, parsed ParsedVcard) []fact.Value {
	t.Helper()
	out := make([]fact.Value, len(parsed.Facts))
	for i, f := range parsed.Facts {
		out[i] = f.Value
	}
	return out
}

func findValue[T fact.Value](t *testing.T, values []fact.Value) (T, bool) {
	t.Helper()
	for _, v := range values {
		if tv, ok := v.(T); ok {
			return tv, true
		}
	}
	var zero T
	return zero, false
}

func TestParseMissingEnvelope(t *testing.T) {
	_, err := Parse("FN:Alice\r\n")
	if err != ErrMissingEnvelope {
		t.Fatalf("expected ErrMissingEnvelope, got %v", err)
	}
}

func TestParseNameAccumulator(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Alice Smith\r\nN:Smith;Alice;;;\r\nEND:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nv, ok := findValue[fact.NameValue](t, valuesOf(t, parsed))
	if !ok {
		t.Fatalf("expected a name fact")
	}
	if nv.Full != "Alice Smith" || nv.Given != "Alice" || nv.Family != "Smith" {
		t.Fatalf("unexpected name value: %+v", nv)
	}
}

func TestParseEmailAndPhone(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\n" +
		"EMAIL;TYPE=WORK;PREF=1:alice@example.com\r\n" +
		"TEL;TYPE=CELL:+1 555-1234\r\n" +
		"END:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	values := valuesOf(t, parsed)
	email, ok := findValue[fact.EmailValue](t, values)
	if !ok || email.Address != "alice@example.com" || email.Label != fact.LabelWork || email.Preference != 1 {
		t.Fatalf("unexpected email: %+v ok=%v", email, ok)
	}
	phone, ok := findValue[fact.PhoneValue](t, values)
	if !ok || phone.Number != "+1 555-1234" || phone.Kind != fact.PhoneCell {
		t.Fatalf("unexpected phone: %+v ok=%v", phone, ok)
	}
}

func TestParseBirthdayYearOmittedSkipped(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nBDAY:--0405\r\nEND:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := findValue[fact.BirthdayValue](t, valuesOf(t, parsed)); ok {
		t.Fatalf("expected year-omitted birthday to be skipped")
	}
}

func TestParseBirthdayBothFormats(t *testing.T) {
	for _, v := range []string{"1990-04-05", "19900405"} {
		input := "BEGIN:VCARD\r\nVERSION:4.0\r\nBDAY:" + v + "\r\nEND:VCARD\r\n"
		parsed, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", v, err)
		}
		bd, ok := findValue[fact.BirthdayValue](t, valuesOf(t, parsed))
		if !ok || bd.Date.Year != 1990 || bd.Date.Month != 4 || bd.Date.Day != 5 {
			t.Fatalf("unexpected birthday for %q: %+v ok=%v", v, bd, ok)
		}
	}
}

func TestParseOrgTitleRoleGrouping(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\n" +
		"ORG:Acme\r\nTITLE:Engineer\r\nORG:OSF\r\nTITLE:Board Member\r\n" +
		"END:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var orgs []fact.OrgMembershipValue
	for _, v := range valuesOf(t, parsed) {
		if o, ok := v.(fact.OrgMembershipValue); ok {
			orgs = append(orgs, o)
		}
	}
	if len(orgs) != 2 {
		t.Fatalf("expected 2 org memberships, got %d: %+v", len(orgs), orgs)
	}
	if orgs[0].OrgName != "Acme" || orgs[0].Title == nil || *orgs[0].Title != "Engineer" {
		t.Fatalf("unexpected first org: %+v", orgs[0])
	}
	if orgs[1].OrgName != "OSF" || orgs[1].Title == nil || *orgs[1].Title != "Board Member" {
		t.Fatalf("unexpected second org: %+v", orgs[1])
	}
}

func TestParseTitleWithNoPrecedingOrg(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nTITLE:Freelancer\r\nEND:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	org, ok := findValue[fact.OrgMembershipValue](t, valuesOf(t, parsed))
	if !ok || org.OrgName != "(unknown)" || org.Title == nil || *org.Title != "Freelancer" {
		t.Fatalf("unexpected org: %+v ok=%v", org, ok)
	}
}

func TestParseUnknownXPropBecomesCustom(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nX-FOO:bar\r\nEND:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cv, ok := findValue[fact.CustomValue](t, valuesOf(t, parsed))
	if !ok || cv.Key != "X-FOO" || cv.Value != "bar" {
		t.Fatalf("unexpected custom value: %+v ok=%v", cv, ok)
	}
}

func TestParseBase64PhotoDropped(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:3.0\r\nPHOTO;ENCODING=BASE64;TYPE=JPEG:AAAA\r\nEND:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Facts) != 0 {
		t.Fatalf("expected base64 photo to be dropped, got %+v", parsed.Facts)
	}
}

func TestParsePhotoURIBecomesCustom(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nPHOTO;VALUE=URI:https://example.com/p.jpg\r\nEND:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cv, ok := findValue[fact.CustomValue](t, valuesOf(t, parsed))
	if !ok || cv.Key != "photo_uri" {
		t.Fatalf("unexpected custom photo value: %+v ok=%v", cv, ok)
	}
}

func TestParseIMPPSchemeMapping(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nIMPP:xmpp:alice@jabber.org\r\nEND:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	im, ok := findValue[fact.IMValue](t, valuesOf(t, parsed))
	if !ok || im.Service != "XMPP" || im.Handle != "alice@jabber.org" {
		t.Fatalf("unexpected im value: %+v ok=%v", im, ok)
	}
}

func TestParseQuotedPrintableDecoding(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:3.0\r\nNOTE;ENCODING=QUOTED-PRINTABLE:Caf=C3=A9\r\nEND:VCARD\r\n"
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	note, ok := findValue[fact.NoteValue](t, valuesOf(t, parsed))
	if !ok || !strings.Contains(note.Text, "Caf") {
		t.Fatalf("unexpected note: %+v ok=%v", note, ok)
	}
}

func TestUnfoldContinuation(t *testing.T) {
	lines := unfold("BEGIN:VCARD\r\nNOTE:hello\r\n world\r\nEND:VCARD\r\n")
	found := false
	for _, l := range lines {
		if l == "NOTE:helloworld" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected folded continuation to join, got %+v", lines)
	}
}
