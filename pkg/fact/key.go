package fact

import "strings"

// Key computes the reconciler's identity key for a fact value, per the
// "keyed by" column of the fact-value table and §4.4's matching rules.
// Two values with the same Key are the same logical fact for reconciliation
// purposes, even if other fields differ. Singleton variants (name, birthday,
// anniversary, gender) key on the discriminant alone — any co-presence is a
// match. Comparisons are case-insensitive for addresses, emails, and
// organisation names, and ignore whitespace/hyphens for phone numbers.
func Key(v Value) string {
	d := v.Discriminant()
	switch val := v.(type) {
	case NameValue, BirthdayValue, AnniversaryValue, GenderValue:
		return d
	case EmailValue:
		return d + "\x00" + strings.ToLower(val.Address)
	case PhoneValue:
		return d + "\x00" + normalizePhone(val.Number)
	case AddressValue:
		return d + "\x00" + strings.ToLower(val.Street) + "\x00" +
			strings.ToLower(val.Locality) + "\x00" + strings.ToLower(val.PostalCode)
	case URLValue:
		return d + "\x00" + val.URL
	case IMValue:
		return d + "\x00" + strings.ToLower(val.Service) + "\x00" + val.Handle
	case SocialValue:
		return d + "\x00" + strings.ToLower(val.Platform) + "\x00" + val.Handle
	case RelationshipValue:
		other := ""
		if val.OtherID != nil {
			other = *val.OtherID
		}
		return d + "\x00" + val.Relation + "\x00" + other
	case OrgMembershipValue:
		return d + "\x00" + strings.ToLower(val.OrgName)
	case GroupMembershipValue:
		if val.GroupID != nil {
			return d + "\x00" + *val.GroupID
		}
		return d + "\x00" + val.GroupName
	case NoteValue:
		return d + "\x00" + val.Text
	case MeetingValue:
		return d + "\x00" + val.Summary
	case IntroductionValue:
		return d + "\x00" + val.Text
	case CustomValue:
		return d + "\x00" + val.Key
	case AliasValue:
		// Not given an explicit "keyed by" column in the spec; the natural
		// identity of an alias is its name text.
		return d + "\x00" + val.Name
	case PhotoValue:
		// §4.4: "Photo facts match by path."
		return d + "\x00" + val.Path
	default:
		return d
	}
}

// normalizePhone strips whitespace and hyphens so "+1 555-1234" and
// "+15551234" key equal, per §8's boundary behaviour.
func normalizePhone(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r == ' ' || r == '-' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
