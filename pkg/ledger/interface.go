package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kithhq/kith/pkg/fact"
)

// Store is the capability set the core consumes — per spec §6.3, a
// substitutable interface rather than a concrete backend. SQLiteStore is
// the only implementation in this repository, but nothing outside this
// package depends on that concretely.
type Store interface {
	AddSubject(ctx context.Context, kind fact.Kind) (fact.Subject, error)
	AddSubjectWithID(ctx context.Context, id uuid.UUID, kind fact.Kind) (fact.Subject, error)
	GetSubject(ctx context.Context, id uuid.UUID) (*fact.Subject, error)
	ListSubjects(ctx context.Context, kind *fact.Kind) ([]fact.Subject, error)
	RecordFact(ctx context.Context, nf fact.NewFact) (fact.Fact, error)
	Supersede(ctx context.Context, oldID uuid.UUID, replacement fact.NewFact) (fact.Supersession, fact.Fact, error)
	Retract(ctx context.Context, factID uuid.UUID, reason *string) (fact.Retraction, error)
	GetFacts(ctx context.Context, subjectID uuid.UUID, asOf *time.Time, includeInactive bool) ([]fact.ResolvedFact, error)
	Materialize(ctx context.Context, subjectID uuid.UUID, asOf *time.Time) (*fact.ContactView, error)
	Search(ctx context.Context, q FactQuery) ([]fact.Subject, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
