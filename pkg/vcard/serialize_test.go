package vcard

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kithhq/kith/pkg/fact"
)

func makeView(values ...fact.Value) fact.ContactView {
	subj := fact.Subject{ID: uuid.New(), Kind: fact.KindPerson}
	asOf := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	facts := make([]fact.Fact, len(values))
	for i, v := range values {
		facts[i] = fact.Fact{ID: uuid.New(), SubjectID: subj.ID, Value: v, RecordedAt: asOf}
	}
	return fact.ContactView{Subject: subj, AsOf: asOf, ActiveFacts: facts}
}

func TestSerializeEnvelope(t *testing.T) {
	out := Serialize(makeView())
	if !strings.Contains(out, "BEGIN:VCARD\r\n") || !strings.Contains(out, "VERSION:4.0\r\n") ||
		!strings.Contains(out, "UID:") || !strings.Contains(out, "END:VCARD\r\n") {
		t.Fatalf("missing envelope lines:\n%s", out)
	}
}

func TestSerializeNameEmitsFNAndN(t *testing.T) {
	out := Serialize(makeView(fact.NameValue{Given: "Alice", Family: "Smith", Full: "Alice Smith"}))
	if !strings.Contains(out, "FN:Alice Smith\r\n") {
		t.Fatalf("missing FN:\n%s", out)
	}
	if !strings.Contains(out, "N:Smith;Alice;;;\r\n") {
		t.Fatalf("missing N:\n%s", out)
	}
}

func TestSerializeEmailPrefOmittedAt255(t *testing.T) {
	out := Serialize(makeView(fact.EmailValue{Address: "a@b.com", Label: fact.LabelWork, Preference: 255}))
	if strings.Contains(out, "PREF") {
		t.Fatalf("unexpected PREF:\n%s", out)
	}
	if !strings.Contains(out, "EMAIL;TYPE=WORK:a@b.com\r\n") {
		t.Fatalf("got:\n%s", out)
	}
}

func TestSerializeEmailWithPref(t *testing.T) {
	out := Serialize(makeView(fact.EmailValue{Address: "a@b.com", Label: fact.LabelWork, Preference: 1}))
	if !strings.Contains(out, "EMAIL;TYPE=WORK;PREF=1:a@b.com\r\n") {
		t.Fatalf("got:\n%s", out)
	}
}

func TestSerializeLongNoteIsFolded(t *testing.T) {
	out := Serialize(makeView(fact.NoteValue{Text: strings.Repeat("A", 200)}))
	for _, physical := range strings.Split(out, "\r\n") {
		if len(physical) > 75 {
			t.Fatalf("physical line too long (%d bytes): %q", len(physical), physical)
		}
	}
}

func TestSerializeAddressEscapesSemicolons(t *testing.T) {
	out := Serialize(makeView(fact.AddressValue{Label: fact.LabelWork, Street: "123 Main; Suite 4"}))
	if !strings.Contains(out, `123 Main\; Suite 4`) {
		t.Fatalf("missing escape:\n%s", out)
	}
}

func TestSerializeTwoOrgMembershipsGetPrefixes(t *testing.T) {
	title1, title2 := "Engineer", "Board Member"
	out := Serialize(makeView(
		fact.OrgMembershipValue{OrgName: "Acme Corp", Title: &title1},
		fact.OrgMembershipValue{OrgName: "OSF", Title: &title2},
	))
	if !strings.Contains(out, "ORG1.ORG:Acme Corp\r\n") || !strings.Contains(out, "ORG1.TITLE:Engineer\r\n") {
		t.Fatalf("missing ORG1 group:\n%s", out)
	}
	if !strings.Contains(out, "ORG2.ORG:OSF\r\n") || !strings.Contains(out, "ORG2.TITLE:Board Member\r\n") {
		t.Fatalf("missing ORG2 group:\n%s", out)
	}
}

func TestSerializeSingleOrgHasNoPrefix(t *testing.T) {
	out := Serialize(makeView(fact.OrgMembershipValue{OrgName: "Acme"}))
	if !strings.Contains(out, "ORG:Acme\r\n") {
		t.Fatalf("got:\n%s", out)
	}
	if strings.Contains(out, "ORG1.") {
		t.Fatalf("unexpected prefix:\n%s", out)
	}
}

func TestSerializeV3AnniversaryBecomesXAnniversary(t *testing.T) {
	out := SerializeV3(makeView(fact.AnniversaryValue{Date: fact.CalendarDate{Year: 2020, Month: 6, Day: 15}}))
	if !strings.Contains(out, "X-ANNIVERSARY:20200615\r\n") {
		t.Fatalf("got:\n%s", out)
	}
	if strings.Contains(out, "\r\nANNIVERSARY:") {
		t.Fatalf("bare ANNIVERSARY present in v3:\n%s", out)
	}
}

func TestSerializeV3KindOmitted(t *testing.T) {
	out := SerializeV3(makeView())
	if strings.Contains(out, "KIND:") {
		t.Fatalf("unexpected KIND in v3:\n%s", out)
	}
}

func TestSerializeV3GenderOmitted(t *testing.T) {
	out := SerializeV3(makeView(fact.GenderValue{Text: "M"}))
	if strings.Contains(out, "GENDER:") {
		t.Fatalf("unexpected GENDER in v3:\n%s", out)
	}
}

func TestSerializeV3PrefInTypeList(t *testing.T) {
	out := SerializeV3(makeView(fact.EmailValue{Address: "a@b.com", Label: fact.LabelWork, Preference: 1}))
	if !strings.Contains(out, "EMAIL;TYPE=WORK,PREF:a@b.com\r\n") {
		t.Fatalf("got:\n%s", out)
	}
}

func TestSerializeV3RequiresFNAndNWhenNoName(t *testing.T) {
	out := SerializeV3(makeView())
	if !strings.Contains(out, "FN:\r\n") || !strings.Contains(out, "N:;;;;\r\n") {
		t.Fatalf("missing blank FN/N in v3:\n%s", out)
	}
}
