package fact

import (
	"time"

	"github.com/google/uuid"
)

// TemporalKind discriminates a TemporalBound.
type TemporalKind int

const (
	TemporalUnknown TemporalKind = iota
	TemporalInstant
	TemporalDate
)

// TemporalBound is the {instant(t) | date(d) | unknown} tagged value used
// for effective_at / effective_until.
type TemporalBound struct {
	Kind    TemporalKind
	Instant time.Time
	Date    CalendarDate
}

// Unknown is the zero-information TemporalBound.
func Unknown() TemporalBound { return TemporalBound{Kind: TemporalUnknown} }

// AtInstant builds an instant-valued TemporalBound.
func AtInstant(t time.Time) TemporalBound {
	return TemporalBound{Kind: TemporalInstant, Instant: t}
}

// AtDate builds a date-valued TemporalBound.
func AtDate(d CalendarDate) TemporalBound {
	return TemporalBound{Kind: TemporalDate, Date: d}
}

// RecordingContext is the {manual | imported{source_name, original_uid?}}
// tagged union describing how a fact entered the ledger.
type RecordingContext interface {
	isRecordingContext()
}

// Manual marks a fact as hand-entered.
type Manual struct{}

func (Manual) isRecordingContext() {}

// Imported marks a fact as having come from an external source, such as a
// vCard PUT.
type Imported struct {
	SourceName  string
	OriginalUID *string
}

func (Imported) isRecordingContext() {}

// NewFact is what a caller submits to record_fact or as the replacement in
// supersede. subject_id, confidence, and recording_context are filled in by
// the caller (the vCard parser or the diff engine); fact_id and recorded_at
// are assigned by the store and never by the caller.
type NewFact struct {
	SubjectID        uuid.UUID
	Value            Value
	EffectiveAt      TemporalBound
	EffectiveUntil   TemporalBound
	Source           *string
	Confidence       Confidence
	RecordingContext RecordingContext
	Tags             []string
}

// Fact is an immutable typed claim about a subject, once persisted by the
// store. No attribute of a Fact is ever modified after it is returned from
// record_fact or supersede.
type Fact struct {
	ID               uuid.UUID
	SubjectID        uuid.UUID
	Value            Value
	RecordedAt       time.Time
	EffectiveAt      TemporalBound
	EffectiveUntil   TemporalBound
	Source           *string
	Confidence       Confidence
	RecordingContext RecordingContext
	Tags             []string
}

// Supersession is an append-only event replacing OldFactID with NewFactID.
type Supersession struct {
	ID         uuid.UUID
	OldFactID  uuid.UUID
	NewFactID  uuid.UUID
	RecordedAt time.Time
}

// Retraction is an append-only event removing FactID from active views.
type Retraction struct {
	ID         uuid.UUID
	FactID     uuid.UUID
	Reason     *string
	RecordedAt time.Time
}

// Status is a fact's derived state, computed — never stored.
type Status int

const (
	StatusActive Status = iota
	StatusSuperseded
	StatusRetracted
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusSuperseded:
		return "superseded"
	case StatusRetracted:
		return "retracted"
	default:
		return "unknown"
	}
}

// ResolvedFact is a Fact with its derived status attached, as returned by
// get_facts.
type ResolvedFact struct {
	Fact Fact
	// Status is the fact's derived state.
	Status Status
	// SupersededBy is set iff Status == StatusSuperseded.
	SupersededBy *uuid.UUID
	// RetractionReason is set iff Status == StatusRetracted and a reason was
	// given.
	RetractionReason *string
	// StatusAt is the recorded_at of whichever event (supersession or
	// retraction) produced this status, zero for StatusActive.
	StatusAt time.Time
}
