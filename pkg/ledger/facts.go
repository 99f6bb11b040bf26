package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/kithhq/kith/pkg/fact"
)

// RecordFact assigns a fresh fact_id, sets recorded_at to the store's
// clock, persists the fact, and returns the full Fact.
func (s *SQLiteStore) RecordFact(ctx context.Context, nf fact.NewFact) (fact.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return fact.Fact{}, wrapError("record_fact", err)
	}

	f, err := insertFact(ctx, s.db, s.clock, nf)
	if err != nil {
		return fact.Fact{}, wrapError("record_fact", err)
	}
	return f, nil
}

// insertFact does the actual row insert, shared by RecordFact and the
// replacement half of Supersede.
func insertFact(ctx context.Context, exec execer, clock Clock, nf fact.NewFact) (fact.Fact, error) {
	id := uuid.New()
	recordedAt := clock.Now()

	discriminant, valueJSON, err := encodeValue(nf.Value)
	if err != nil {
		return fact.Fact{}, err
	}
	effectiveAt, err := encodeTemporal(nf.EffectiveAt)
	if err != nil {
		return fact.Fact{}, err
	}
	effectiveUntil, err := encodeTemporal(nf.EffectiveUntil)
	if err != nil {
		return fact.Fact{}, err
	}
	recCtx, err := encodeRecordingContext(nf.RecordingContext)
	if err != nil {
		return fact.Fact{}, err
	}
	tags, err := encodeTags(nf.Tags)
	if err != nil {
		return fact.Fact{}, err
	}

	_, err = exec.ExecContext(ctx, `
		INSERT INTO facts (id, subject_id, fact_type, value_json, recorded_at,
			effective_at, effective_until, source, confidence, recording_context, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), nf.SubjectID.String(), discriminant, valueJSON, formatTime(recordedAt),
		effectiveAt, effectiveUntil, nf.Source, string(nf.Confidence), recCtx, tags)
	if err != nil {
		return fact.Fact{}, err
	}

	return fact.Fact{
		ID:               id,
		SubjectID:        nf.SubjectID,
		Value:            nf.Value,
		RecordedAt:       recordedAt,
		EffectiveAt:      nf.EffectiveAt,
		EffectiveUntil:   nf.EffectiveUntil,
		Source:           nf.Source,
		Confidence:       nf.Confidence,
		RecordingContext: nf.RecordingContext,
		Tags:             nf.Tags,
	}, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Supersede performs the guarded replacement algorithm of spec §4.1 inside a
// single transaction: check old_id exists, check it has no supersession or
// retraction yet, insert the replacement fact, guard against
// self-supersession, then append the supersession event.
func (s *SQLiteStore) Supersede(ctx context.Context, oldID uuid.UUID, replacement fact.NewFact) (fact.Supersession, fact.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return fact.Supersession{}, fact.Fact{}, wrapError("supersede", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fact.Supersession{}, fact.Fact{}, wrapError("supersede", err)
	}
	defer tx.Rollback()

	if err := factGuardExists(ctx, tx, oldID); err != nil {
		return fact.Supersession{}, fact.Fact{}, wrapError("supersede", err)
	}
	if err := factGuardUnsuperseded(ctx, tx, oldID); err != nil {
		return fact.Supersession{}, fact.Fact{}, wrapError("supersede", err)
	}
	if err := factGuardUnretracted(ctx, tx, oldID); err != nil {
		return fact.Supersession{}, fact.Fact{}, wrapError("supersede", err)
	}

	newFact, err := insertFact(ctx, tx, s.clock, replacement)
	if err != nil {
		return fact.Supersession{}, fact.Fact{}, wrapError("supersede", err)
	}

	if newFact.ID == oldID {
		return fact.Supersession{}, fact.Fact{}, wrapError("supersede", ErrSelfSupersession)
	}

	supersessionID := uuid.New()
	recordedAt := s.clock.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO supersessions (id, old_fact_id, new_fact_id, recorded_at) VALUES (?, ?, ?, ?)`,
		supersessionID.String(), oldID.String(), newFact.ID.String(), formatTime(recordedAt))
	if err != nil {
		return fact.Supersession{}, fact.Fact{}, wrapError("supersede", err)
	}

	if err := tx.Commit(); err != nil {
		return fact.Supersession{}, fact.Fact{}, wrapError("supersede", err)
	}

	return fact.Supersession{
		ID:         supersessionID,
		OldFactID:  oldID,
		NewFactID:  newFact.ID,
		RecordedAt: recordedAt,
	}, newFact, nil
}

// Retract appends a retraction event for fact_id, guarded the same way as
// Supersede minus the replacement-insert step.
func (s *SQLiteStore) Retract(ctx context.Context, factID uuid.UUID, reason *string) (fact.Retraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return fact.Retraction{}, wrapError("retract", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fact.Retraction{}, wrapError("retract", err)
	}
	defer tx.Rollback()

	if err := factGuardExists(ctx, tx, factID); err != nil {
		return fact.Retraction{}, wrapError("retract", err)
	}
	if err := factGuardUnsuperseded(ctx, tx, factID); err != nil {
		return fact.Retraction{}, wrapError("retract", err)
	}
	if err := factGuardUnretracted(ctx, tx, factID); err != nil {
		return fact.Retraction{}, wrapError("retract", err)
	}

	retractionID := uuid.New()
	recordedAt := s.clock.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO retractions (id, fact_id, reason, recorded_at) VALUES (?, ?, ?, ?)`,
		retractionID.String(), factID.String(), reason, formatTime(recordedAt))
	if err != nil {
		return fact.Retraction{}, wrapError("retract", err)
	}

	if err := tx.Commit(); err != nil {
		return fact.Retraction{}, wrapError("retract", err)
	}

	return fact.Retraction{ID: retractionID, FactID: factID, Reason: reason, RecordedAt: recordedAt}, nil
}

func factGuardExists(ctx context.Context, tx *sql.Tx, factID uuid.UUID) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM facts WHERE id = ?`, factID.String()).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

func factGuardUnsuperseded(ctx context.Context, tx *sql.Tx, factID uuid.UUID) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM supersessions WHERE old_fact_id = ?`, factID.String()).Scan(&id)
	if err == nil {
		return ErrAlreadySuperseded
	}
	if err != sql.ErrNoRows {
		return err
	}
	return nil
}

func factGuardUnretracted(ctx context.Context, tx *sql.Tx, factID uuid.UUID) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM retractions WHERE fact_id = ?`, factID.String()).Scan(&id)
	if err == nil {
		return ErrAlreadyRetracted
	}
	if err != sql.ErrNoRows {
		return err
	}
	return nil
}

// GetFacts left-outer-joins facts against supersessions and retractions,
// filters by subject_id and recorded_at <= as_of, and projects each row
// into a ResolvedFact whose status reflects which join (if either)
// produced a match. If as_of is nil, "now" is used.
func (s *SQLiteStore) GetFacts(ctx context.Context, subjectID uuid.UUID, asOf *time.Time, includeInactive bool) ([]fact.ResolvedFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("get_facts", err)
	}

	cutoff := s.clock.Now()
	if asOf != nil {
		cutoff = *asOf
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.subject_id, f.fact_type, f.value_json, f.recorded_at,
			f.effective_at, f.effective_until, f.source, f.confidence, f.recording_context, f.tags,
			sup.new_fact_id, sup.recorded_at,
			ret.reason, ret.recorded_at
		FROM facts f
		LEFT JOIN supersessions sup ON sup.old_fact_id = f.id
		LEFT JOIN retractions ret ON ret.fact_id = f.id
		WHERE f.subject_id = ? AND f.recorded_at <= ?
		ORDER BY f.recorded_at`,
		subjectID.String(), formatTime(cutoff))
	if err != nil {
		return nil, wrapError("get_facts", err)
	}
	defer rows.Close()

	var out []fact.ResolvedFact
	for rows.Next() {
		var (
			id, subjID, factType, valueJSON, recordedAt                    string
			effectiveAt, effectiveUntil, confidence, recCtx, tags          string
			source                                                        sql.NullString
			supersededBy, supersededAt, retractionReason, retractedAt      sql.NullString
		)
		if err := rows.Scan(&id, &subjID, &factType, &valueJSON, &recordedAt,
			&effectiveAt, &effectiveUntil, &source, &confidence, &recCtx, &tags,
			&supersededBy, &supersededAt, &retractionReason, &retractedAt); err != nil {
			return nil, wrapError("get_facts", err)
		}

		rf, err := assembleResolvedFact(id, subjID, factType, valueJSON, recordedAt,
			effectiveAt, effectiveUntil, source, confidence, recCtx, tags,
			supersededBy, supersededAt, retractionReason, retractedAt)
		if err != nil {
			return nil, wrapError("get_facts", err)
		}

		if !includeInactive && rf.Status != fact.StatusActive {
			continue
		}
		out = append(out, rf)
	}
	return out, wrapError("get_facts", rows.Err())
}

func assembleResolvedFact(
	id, subjID, factType, valueJSON, recordedAt string,
	effectiveAt, effectiveUntil string,
	source sql.NullString,
	confidence, recCtx, tags string,
	supersededBy, supersededAt, retractionReason, retractedAt sql.NullString,
) (fact.ResolvedFact, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return fact.ResolvedFact{}, err
	}
	parsedSubjID, err := uuid.Parse(subjID)
	if err != nil {
		return fact.ResolvedFact{}, err
	}
	value, err := decodeValue(factType, valueJSON)
	if err != nil {
		return fact.ResolvedFact{}, err
	}
	recAt, err := parseRFC3339Micro(recordedAt)
	if err != nil {
		return fact.ResolvedFact{}, err
	}
	effAt, err := decodeTemporal(effectiveAt)
	if err != nil {
		return fact.ResolvedFact{}, err
	}
	effUntil, err := decodeTemporal(effectiveUntil)
	if err != nil {
		return fact.ResolvedFact{}, err
	}
	rc, err := decodeRecordingContext(recCtx)
	if err != nil {
		return fact.ResolvedFact{}, err
	}
	tagList, err := decodeTags(tags)
	if err != nil {
		return fact.ResolvedFact{}, err
	}

	var srcPtr *string
	if source.Valid {
		s := source.String
		srcPtr = &s
	}

	f := fact.Fact{
		ID:               parsedID,
		SubjectID:        parsedSubjID,
		Value:            value,
		RecordedAt:       recAt,
		EffectiveAt:      effAt,
		EffectiveUntil:   effUntil,
		Source:           srcPtr,
		Confidence:       fact.Confidence(confidence),
		RecordingContext: rc,
		Tags:             tagList,
	}

	rf := fact.ResolvedFact{Fact: f, Status: fact.StatusActive}
	switch {
	case supersededBy.Valid:
		newID, err := uuid.Parse(supersededBy.String)
		if err != nil {
			return fact.ResolvedFact{}, err
		}
		rf.Status = fact.StatusSuperseded
		rf.SupersededBy = &newID
		if supersededAt.Valid {
			at, err := parseRFC3339Micro(supersededAt.String)
			if err != nil {
				return fact.ResolvedFact{}, err
			}
			rf.StatusAt = at
		}
	case retractedAt.Valid:
		rf.Status = fact.StatusRetracted
		if retractionReason.Valid {
			reason := retractionReason.String
			rf.RetractionReason = &reason
		}
		at, err := parseRFC3339Micro(retractedAt.String)
		if err != nil {
			return fact.ResolvedFact{}, err
		}
		rf.StatusAt = at
	}
	return rf, nil
}
