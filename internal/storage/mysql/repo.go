package mysql

import (
	"context"
	"database/sql"
	"errors"
)

// ApprovalStore persists the approval flags in MySQL for deployments that
// want the state to outlive the process. The single-row upsert gives the
// same last-write-wins behavior as the in-memory map.
type ApprovalStore struct{ db *sql.DB }

func New(db *sql.DB) *ApprovalStore { return &ApprovalStore{db: db} }

// EnsureSchema creates the approvals table when it does not exist yet.
func (s *ApprovalStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createApprovalsSQL)
	return err
}

func (s *ApprovalStore) Set(ctx context.Context, id string, approved bool) error {
	_, err := s.db.ExecContext(ctx, upsertApprovalSQL, id, approved)
	return err
}

func (s *ApprovalStore) Get(ctx context.Context, id string) (bool, error) {
	var approved bool
	err := s.db.QueryRowContext(ctx, getApprovalSQL, id).Scan(&approved)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return approved, nil
}

func (s *ApprovalStore) Snapshot(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, snapshotApprovalsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		var approved bool
		if err := rows.Scan(&id, &approved); err != nil {
			return nil, err
		}
		out[id] = approved
	}
	return out, rows.Err()
}
