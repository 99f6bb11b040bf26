package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kithhq/kith/pkg/fact"
)

// Materialize computes a ContactView for subjectID as of asOf (or "now" if
// nil). It returns nil, nil iff the subject does not exist; otherwise it
// returns the view even when it has no active facts — per spec §4.1.
func (s *SQLiteStore) Materialize(ctx context.Context, subjectID uuid.UUID, asOf *time.Time) (*fact.ContactView, error) {
	subj, err := s.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, wrapError("materialize", err)
	}
	if subj == nil {
		return nil, nil
	}

	resolved, err := s.GetFacts(ctx, subjectID, asOf, false)
	if err != nil {
		return nil, wrapError("materialize", err)
	}

	view := fact.ContactView{Subject: *subj, AsOf: s.clock.Now()}
	if asOf != nil {
		view.AsOf = *asOf
	}
	view.ActiveFacts = make([]fact.Fact, 0, len(resolved))
	for _, rf := range resolved {
		view.ActiveFacts = append(view.ActiveFacts, rf.Fact)
	}
	return &view, nil
}
