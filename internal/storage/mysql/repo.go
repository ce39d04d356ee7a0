package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gmb_agent/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveRun(ctx context.Context, run domain.Run) error {
	raw, err := json.Marshal(run.Raw)
	if err != nil {
		return fmt.Errorf("encode raw: %w", err)
	}
	rep, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = r.db.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.Raw.Keyword,
		run.Raw.LocationText,
		run.Raw.FormattedLocation,
		len(run.Raw.Places),
		string(raw),
		string(rep),
		run.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) GetRun(ctx context.Context, id string) (domain.Run, error) {
	var run domain.Run
	var raw, rep []byte
	err := r.db.QueryRowContext(ctx, getRunSQL, id).Scan(&run.ID, &raw, &rep, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Run{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Run{}, err
	}
	if err := json.Unmarshal(raw, &run.Raw); err != nil {
		return domain.Run{}, fmt.Errorf("decode raw %s: %w", id, err)
	}
	if err := json.Unmarshal(rep, &run.Report); err != nil {
		return domain.Run{}, fmt.Errorf("decode report %s: %w", id, err)
	}
	return run, nil
}

func (r *Repo) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	rows, err := r.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RunSummary{}
	for rows.Next() {
		var s domain.RunSummary
		if err := rows.Scan(&s.ID, &s.Keyword, &s.LocationText, &s.FormattedLocation, &s.Places, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
