package ledger

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/kithhq/kith/pkg/fact"
)

// AddSubject allocates a new UUID and timestamp for a subject of the given
// kind.
func (s *SQLiteStore) AddSubject(ctx context.Context, kind fact.Kind) (fact.Subject, error) {
	return s.AddSubjectWithID(ctx, uuid.New(), kind)
}

// AddSubjectWithID creates a subject with a caller-supplied UUID, failing
// with ErrConflict if the UUID is already taken.
func (s *SQLiteStore) AddSubjectWithID(ctx context.Context, id uuid.UUID, kind fact.Kind) (fact.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return fact.Subject{}, wrapError("add_subject_with_id", err)
	}

	createdAt := s.clock.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subjects (id, created_at, kind) VALUES (?, ?, ?)`,
		id.String(), formatTime(createdAt), string(kind))
	if err != nil {
		if isUniqueConstraintErr(err) {
			return fact.Subject{}, wrapError("add_subject_with_id", ErrConflict)
		}
		return fact.Subject{}, wrapError("add_subject_with_id", err)
	}

	return fact.Subject{ID: id, CreatedAt: createdAt, Kind: kind}, nil
}

// GetSubject returns the subject with the given id, or nil if none exists.
func (s *SQLiteStore) GetSubject(ctx context.Context, id uuid.UUID) (*fact.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("get_subject", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, kind FROM subjects WHERE id = ?`, id.String())
	subj, err := scanSubject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError("get_subject", err)
	}
	return &subj, nil
}

// ListSubjects returns every subject, optionally filtered by kind.
func (s *SQLiteStore) ListSubjects(ctx context.Context, kind *fact.Kind) ([]fact.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, wrapError("list_subjects", err)
	}

	var rows *sql.Rows
	var err error
	if kind != nil {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, created_at, kind FROM subjects WHERE kind = ? ORDER BY created_at`, string(*kind))
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, created_at, kind FROM subjects ORDER BY created_at`)
	}
	if err != nil {
		return nil, wrapError("list_subjects", err)
	}
	defer rows.Close()

	var out []fact.Subject
	for rows.Next() {
		subj, err := scanSubject(rows)
		if err != nil {
			return nil, wrapError("list_subjects", err)
		}
		out = append(out, subj)
	}
	return out, wrapError("list_subjects", rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (fact.Subject, error) {
	var id, createdAt, kind string
	if err := row.Scan(&id, &createdAt, &kind); err != nil {
		return fact.Subject{}, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return fact.Subject{}, err
	}
	parsedCreatedAt, err := parseRFC3339Micro(createdAt)
	if err != nil {
		return fact.Subject{}, err
	}
	return fact.Subject{ID: parsedID, CreatedAt: parsedCreatedAt, Kind: fact.Kind(kind)}, nil
}

func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToUpper(err.Error()), "UNIQUE CONSTRAINT")
}
