package diff

import (
	"github.com/google/uuid"
	"github.com/kithhq/kith/pkg/fact"
	"github.com/kithhq/kith/pkg/vcard"
)

// supersedeReason is the fixed reason recorded against every retraction
// this package produces.
const supersedeReason = "Superseded by CardDAV PUT"

// Supersession pairs an existing fact's id with its replacement.
type Supersession struct {
	OldFactID   uuid.UUID
	Replacement fact.NewFact
}

// Result is the minimal set of store operations that reconciles an
// incoming vCard against the current view: apply New, then Supersede,
// then Retract (per §5's ordering guarantee), to reproduce the incoming
// vCard in the ledger.
type Result struct {
	New           []fact.NewFact
	Supersede     []Supersession
	Retract       []uuid.UUID
	RetractReason string
}

// Diff parses rawVcard and reconciles it against currentView. subjectID and
// sourceName stamp every produced fact's SubjectID and recording context.
// currentView == nil means "no existing contact" — every parsed fact
// becomes new, with no supersessions or retractions.
func Diff(rawVcard string, subjectID uuid.UUID, sourceName string, currentView *fact.ContactView) (Result, error) {
	parsed, err := vcard.Parse(rawVcard)
	if err != nil {
		return Result{}, err
	}

	var uid *string
	if parsed.UID != "" {
		uid = &parsed.UID
	}

	incoming := make([]fact.NewFact, len(parsed.Facts))
	for i, nf := range parsed.Facts {
		nf.SubjectID = subjectID
		nf.Confidence = fact.ConfidenceCertain
		nf.RecordingContext = fact.Imported{SourceName: sourceName, OriginalUID: uid}
		incoming[i] = nf
	}

	if currentView == nil {
		return Result{New: incoming, RetractReason: supersedeReason}, nil
	}

	activeByKey := make(map[string]fact.Fact, len(currentView.ActiveFacts))
	for _, f := range currentView.ActiveFacts {
		activeByKey[fact.Key(f.Value)] = f
	}
	matched := make(map[uuid.UUID]bool, len(currentView.ActiveFacts))

	result := Result{RetractReason: supersedeReason}
	for _, nf := range incoming {
		existing, ok := activeByKey[fact.Key(nf.Value)]
		if !ok {
			result.New = append(result.New, nf)
			continue
		}
		matched[existing.ID] = true
		if !fact.ValuesEqual(nf.Value, existing.Value) {
			result.Supersede = append(result.Supersede, Supersession{OldFactID: existing.ID, Replacement: nf})
		}
	}

	for _, f := range currentView.ActiveFacts {
		if !matched[f.ID] {
			result.Retract = append(result.Retract, f.ID)
		}
	}

	return result, nil
}
