package fact

import "testing"

func TestValuesEqualSameFields(t *testing.T) {
	a := EmailValue{Address: "alice@example.com", Label: LabelWork, Preference: 1}
	b := EmailValue{Address: "alice@example.com", Label: LabelWork, Preference: 1}
	if !ValuesEqual(a, b) {
		t.Fatalf("expected equal values")
	}
}

func TestValuesEqualDifferentLabel(t *testing.T) {
	a := EmailValue{Address: "alice@example.com", Label: LabelWork}
	b := EmailValue{Address: "alice@example.com", Label: LabelHome}
	if ValuesEqual(a, b) {
		t.Fatalf("expected values to differ on label")
	}
}

func TestValuesEqualDifferentDiscriminant(t *testing.T) {
	a := NoteValue{Text: "hi"}
	b := IntroductionValue{Text: "hi"}
	if ValuesEqual(a, b) {
		t.Fatalf("expected different discriminants to never be equal")
	}
}

func TestValuesEqualNilPointers(t *testing.T) {
	a := OrgMembershipValue{OrgName: "Acme"}
	b := OrgMembershipValue{OrgName: "Acme"}
	if !ValuesEqual(a, b) {
		t.Fatalf("expected equal values with nil optional pointers")
	}
}
