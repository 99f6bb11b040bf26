package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/kithhq/kith/pkg/fact"
)

// encodeValue splits a fact.Value into its storage discriminant and the
// variant's payload JSON (no tag) — discriminants live in an indexable
// column, per spec §4.1 "Storage encoding".
func encodeValue(v fact.Value) (discriminant string, valueJSON string, err error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", "", fmt.Errorf("encode value: %w", err)
	}
	return v.Discriminant(), string(b), nil
}

// decodeValue rebuilds a fact.Value from its stored discriminant and
// payload JSON.
func decodeValue(discriminant, valueJSON string) (fact.Value, error) {
	raw := []byte(valueJSON)
	switch discriminant {
	case "name":
		var v fact.NameValue
		return v, json.Unmarshal(raw, &v)
	case "alias":
		var v fact.AliasValue
		return v, json.Unmarshal(raw, &v)
	case "photo":
		var v fact.PhotoValue
		return v, json.Unmarshal(raw, &v)
	case "birthday":
		var v fact.BirthdayValue
		return v, json.Unmarshal(raw, &v)
	case "anniversary":
		var v fact.AnniversaryValue
		return v, json.Unmarshal(raw, &v)
	case "gender":
		var v fact.GenderValue
		return v, json.Unmarshal(raw, &v)
	case "email":
		var v fact.EmailValue
		return v, json.Unmarshal(raw, &v)
	case "phone":
		var v fact.PhoneValue
		return v, json.Unmarshal(raw, &v)
	case "address":
		var v fact.AddressValue
		return v, json.Unmarshal(raw, &v)
	case "url":
		var v fact.URLValue
		return v, json.Unmarshal(raw, &v)
	case "im":
		var v fact.IMValue
		return v, json.Unmarshal(raw, &v)
	case "social":
		var v fact.SocialValue
		return v, json.Unmarshal(raw, &v)
	case "relationship":
		var v fact.RelationshipValue
		return v, json.Unmarshal(raw, &v)
	case "org_membership":
		var v fact.OrgMembershipValue
		return v, json.Unmarshal(raw, &v)
	case "group_membership":
		var v fact.GroupMembershipValue
		return v, json.Unmarshal(raw, &v)
	case "note":
		var v fact.NoteValue
		return v, json.Unmarshal(raw, &v)
	case "meeting":
		var v fact.MeetingValue
		return v, json.Unmarshal(raw, &v)
	case "introduction":
		var v fact.IntroductionValue
		return v, json.Unmarshal(raw, &v)
	case "custom":
		var v fact.CustomValue
		return v, json.Unmarshal(raw, &v)
	default:
		return nil, fmt.Errorf("unknown fact discriminant %q", discriminant)
	}
}

// temporalWire is the compact JSON shape for a fact.TemporalBound.
type temporalWire struct {
	Kind    string           `json:"kind"`
	Instant *string          `json:"instant,omitempty"`
	Date    *fact.CalendarDate `json:"date,omitempty"`
}

func encodeTemporal(t fact.TemporalBound) (string, error) {
	w := temporalWire{}
	switch t.Kind {
	case fact.TemporalInstant:
		w.Kind = "instant"
		s := formatTime(t.Instant)
		w.Instant = &s
	case fact.TemporalDate:
		w.Kind = "date"
		d := t.Date
		w.Date = &d
	default:
		w.Kind = "unknown"
	}
	b, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTemporal(s string) (fact.TemporalBound, error) {
	if s == "" {
		return fact.Unknown(), nil
	}
	var w temporalWire
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return fact.TemporalBound{}, err
	}
	switch w.Kind {
	case "instant":
		if w.Instant == nil {
			return fact.Unknown(), nil
		}
		t, err := parseRFC3339Micro(*w.Instant)
		if err != nil {
			return fact.TemporalBound{}, err
		}
		return fact.AtInstant(t), nil
	case "date":
		if w.Date == nil {
			return fact.Unknown(), nil
		}
		return fact.AtDate(*w.Date), nil
	default:
		return fact.Unknown(), nil
	}
}

// recordingContextWire is the compact JSON shape for a
// fact.RecordingContext.
type recordingContextWire struct {
	Kind        string  `json:"kind"`
	SourceName  string  `json:"source_name,omitempty"`
	OriginalUID *string `json:"original_uid,omitempty"`
}

func encodeRecordingContext(rc fact.RecordingContext) (string, error) {
	var w recordingContextWire
	switch v := rc.(type) {
	case fact.Manual, nil:
		w.Kind = "manual"
	case fact.Imported:
		w.Kind = "imported"
		w.SourceName = v.SourceName
		w.OriginalUID = v.OriginalUID
	default:
		return "", fmt.Errorf("unknown recording context type %T", rc)
	}
	b, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeRecordingContext(s string) (fact.RecordingContext, error) {
	var w recordingContextWire
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return nil, err
	}
	switch w.Kind {
	case "imported":
		return fact.Imported{SourceName: w.SourceName, OriginalUID: w.OriginalUID}, nil
	default:
		return fact.Manual{}, nil
	}
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTags(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
