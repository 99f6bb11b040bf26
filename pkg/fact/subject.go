package fact

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates what a Subject represents. It is a closed set.
type Kind string

const (
	KindPerson       Kind = "person"
	KindOrganization Kind = "organization"
	KindGroup        Kind = "group"
)

// Subject is the thin, permanent envelope a fact is recorded about. It never
// carries contact information itself — all observable attributes live in
// its facts.
type Subject struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Kind      Kind
}
