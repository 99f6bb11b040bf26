package vcard

import "errors"

// ErrMissingEnvelope is returned by Parse when BEGIN:VCARD/END:VCARD cannot
// be located, or END precedes BEGIN.
var ErrMissingEnvelope = errors.New("vcard: missing BEGIN:VCARD/END:VCARD envelope")
