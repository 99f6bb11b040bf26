package ledger

import (
	"context"
	"time"

	"github.com/kithhq/kith/pkg/fact"
)

// FactQuery describes a search request. Phase 1 applies only Text and Kind
// (substring filter over value_json, plus subject-kind filter) with
// pagination; Tags, Confidence, FactTypes, RecordedAfter, and
// RecordedBefore are accepted and recorded on the request but not yet
// applied — per spec §9's "Open Questions", this is the documented subset
// rather than a silent no-op. The returned list is always a subset of
// subjects matching the filters that are applied.
type FactQuery struct {
	Text            string
	Kind            *fact.Kind
	Tags            []string
	Confidence      *fact.Confidence
	FactTypes       []string
	RecordedAfter   *time.Time
	RecordedBefore  *time.Time
	Limit           int
	Offset          int
}

const defaultSearchLimit = 100

// Search returns subjects whose facts' value_json contains Query.Text (if
// set) and whose kind matches Query.Kind (if set), paginated.
func (s *SQLiteStore) Search(ctx context.Context, q FactQuery) ([]fact.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("search", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	query := `SELECT DISTINCT s.id, s.created_at, s.kind FROM subjects s`
	args := []any{}
	var conditions []string

	if q.Text != "" {
		query += ` JOIN facts f ON f.subject_id = s.id`
		conditions = append(conditions, `f.value_json LIKE ?`)
		args = append(args, "%"+q.Text+"%")
	}
	if q.Kind != nil {
		conditions = append(conditions, `s.kind = ?`)
		args = append(args, string(*q.Kind))
	}
	if len(conditions) > 0 {
		query += " WHERE "
		for i, c := range conditions {
			if i > 0 {
				query += " AND "
			}
			query += c
		}
	}
	query += ` ORDER BY s.created_at LIMIT ? OFFSET ?`
	args = append(args, limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError("search", err)
	}
	defer rows.Close()

	var out []fact.Subject
	for rows.Next() {
		subj, err := scanSubject(rows)
		if err != nil {
			return nil, wrapError("search", err)
		}
		out = append(out, subj)
	}
	return out, wrapError("search", rows.Err())
}
