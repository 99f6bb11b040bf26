package fact

// Label is the {work, home, other, custom(s)} enum shared by several fact
// values. Any string other than the three named constants is a custom label
// named by itself — there is no separate "custom" wrapper, since the string
// itself already carries the discriminant.
type Label string

const (
	LabelWork  Label = "work"
	LabelHome  Label = "home"
	LabelOther Label = "other"
)

// IsCustom reports whether l is outside the work/home/other closed set.
func (l Label) IsCustom() bool {
	return l != LabelWork && l != LabelHome && l != LabelOther
}

// PhoneKind is the {voice, fax, cell, pager, text, video, other} enum.
type PhoneKind string

const (
	PhoneVoice PhoneKind = "voice"
	PhoneFax   PhoneKind = "fax"
	PhoneCell  PhoneKind = "cell"
	PhonePager PhoneKind = "pager"
	PhoneText  PhoneKind = "text"
	PhoneVideo PhoneKind = "video"
	PhoneOther PhoneKind = "other"
)

// URLContext is the {homepage, linkedin, github, mastodon, custom(s)} enum.
type URLContext string

const (
	URLHomepage URLContext = "homepage"
	URLLinkedIn URLContext = "linkedin"
	URLGitHub   URLContext = "github"
	URLMastodon URLContext = "mastodon"
)

// Confidence is the {certain, probable, rumored} enum.
type Confidence string

const (
	ConfidenceCertain  Confidence = "certain"
	ConfidenceProbable Confidence = "probable"
	ConfidenceRumored  Confidence = "rumored"
)
