package vcard

import "github.com/kithhq/kith/pkg/fact"

// ParsedVcard is the output of Parse: the card's UID (if any) plus every
// fact the card produced. Every fact's SubjectID is the zero UUID — the
// caller (typically the diff engine) patches it in before persistence.
type ParsedVcard struct {
	UID   string
	Facts []fact.NewFact
}
