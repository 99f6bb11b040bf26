package fact

// Value is the closed tagged union of fact payloads. Each variant carries a
// short snake_case Discriminant() string — this string is load-bearing: it
// is the storage column (pkg/ledger) and the vCard discrimination key
// (pkg/vcard), and it must round-trip exactly.
//
// Go has no sum type, so the union is modelled the idiomatic way: a sealed
// interface with one struct per variant. Callers type-switch on Value to
// interpret it; pkg/ledger and pkg/vcard both do.
type Value interface {
	Discriminant() string
	// isFactValue is unexported so Value cannot be implemented outside this
	// package — the union is closed, matching the spec's "closed set".
	isFactValue()
}

// CalendarDate is a year/month/day value with no time-of-day component, used
// by Birthday and Anniversary.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// NameValue is the singleton "name" fact.
type NameValue struct {
	Given      string
	Family     string
	Additional string
	Prefix     string
	Suffix     string
	Full       string
}

func (NameValue) Discriminant() string { return "name" }
func (NameValue) isFactValue()         {}

// AliasValue is a multi "alias" fact.
type AliasValue struct {
	Name    string
	Context string
}

func (AliasValue) Discriminant() string { return "alias" }
func (AliasValue) isFactValue()         {}

// PhotoValue is a multi "photo" fact. Photo bytes themselves are never
// stored; only a reference to where they live.
type PhotoValue struct {
	Path        string
	ContentHash string
	MediaType   string
}

func (PhotoValue) Discriminant() string { return "photo" }
func (PhotoValue) isFactValue()         {}

// BirthdayValue is the singleton "birthday" fact.
type BirthdayValue struct {
	Date CalendarDate
}

func (BirthdayValue) Discriminant() string { return "birthday" }
func (BirthdayValue) isFactValue()         {}

// AnniversaryValue is the singleton "anniversary" fact.
type AnniversaryValue struct {
	Date CalendarDate
}

func (AnniversaryValue) Discriminant() string { return "anniversary" }
func (AnniversaryValue) isFactValue()         {}

// GenderValue is the singleton "gender" fact, free text.
type GenderValue struct {
	Text string
}

func (GenderValue) Discriminant() string { return "gender" }
func (GenderValue) isFactValue()         {}

// EmailValue is a multi "email" fact, keyed by lowercase address.
type EmailValue struct {
	Address    string
	Label      Label
	Preference int
}

func (EmailValue) Discriminant() string { return "email" }
func (EmailValue) isFactValue()         {}

// PhoneValue is a multi "phone" fact, keyed by normalised number.
type PhoneValue struct {
	Number     string
	Label      Label
	Kind       PhoneKind
	Preference int
}

func (PhoneValue) Discriminant() string { return "phone" }
func (PhoneValue) isFactValue()         {}

// AddressValue is a multi "address" fact, keyed by (street, locality,
// postal_code).
type AddressValue struct {
	Label      Label
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string
}

func (AddressValue) Discriminant() string { return "address" }
func (AddressValue) isFactValue()         {}

// URLValue is a multi "url" fact, keyed by url.
type URLValue struct {
	URL     string
	Context URLContext
}

func (URLValue) Discriminant() string { return "url" }
func (URLValue) isFactValue()         {}

// IMValue is a multi "im" fact, keyed by (service, handle).
type IMValue struct {
	Handle  string
	Service string
}

func (IMValue) Discriminant() string { return "im" }
func (IMValue) isFactValue()         {}

// SocialValue is a multi "social" fact, keyed by (platform, handle).
type SocialValue struct {
	Handle   string
	Platform string
}

func (SocialValue) Discriminant() string { return "social" }
func (SocialValue) isFactValue()         {}

// RelationshipValue is a multi "relationship" fact, keyed by (relation,
// other_id).
type RelationshipValue struct {
	Relation  string
	OtherID   *string
	OtherName *string
}

func (RelationshipValue) Discriminant() string { return "relationship" }
func (RelationshipValue) isFactValue()         {}

// OrgMembershipValue is a multi "org_membership" fact, keyed by lowercase
// org_name.
type OrgMembershipValue struct {
	OrgName string
	OrgID   *string
	Title   *string
	Role    *string
}

func (OrgMembershipValue) Discriminant() string { return "org_membership" }
func (OrgMembershipValue) isFactValue()         {}

// GroupMembershipValue is a multi "group_membership" fact, keyed by
// group_id when present, else group_name.
type GroupMembershipValue struct {
	GroupName string
	GroupID   *string
}

func (GroupMembershipValue) Discriminant() string { return "group_membership" }
func (GroupMembershipValue) isFactValue()         {}

// NoteValue is a multi "note" fact, keyed by exact content.
type NoteValue struct {
	Text string
}

func (NoteValue) Discriminant() string { return "note" }
func (NoteValue) isFactValue()         {}

// MeetingValue is a multi "meeting" fact, keyed by summary.
type MeetingValue struct {
	Summary  string
	Location *string
}

func (MeetingValue) Discriminant() string { return "meeting" }
func (MeetingValue) isFactValue()         {}

// IntroductionValue is a multi "introduction" fact, keyed by exact content.
type IntroductionValue struct {
	Text string
}

func (IntroductionValue) Discriminant() string { return "introduction" }
func (IntroductionValue) isFactValue()         {}

// CustomValue is a multi "custom" fact, keyed by Key. Value holds a JSON
// payload verbatim (no further interpretation by the core).
type CustomValue struct {
	Key   string
	Value string
}

func (CustomValue) Discriminant() string { return "custom" }
func (CustomValue) isFactValue()         {}
