// internal/history/history.go
//
// Best-effort run/turn history persisted to SQLite.
// Responsibilities:
//   - Record run lifecycle (start, finish with reason and final score).
//   - Append one row per resolved turn.
//   - Serve the leaderboard of finished runs.
//
// The engine never reads from here: history is observability, and a failed
// write must not affect a live run. Callers log and continue on error.

package history

import (
	"context"
	"database/sql"
	"time"
)

// Store wraps the shared DB handle.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Turn is one resolved turn row.
type Turn struct {
	RunID         int64  `json:"runId"`
	Turn          int    `json:"turn"`
	InputText     string `json:"inputText"`
	CanonicalName string `json:"canonicalName"`
	WeightG       int    `json:"weightG"`
	Ruling        string `json:"ruling"`
	Reason        string `json:"reason"`
	ScoreAfter    int    `json:"scoreAfter"`
	LivesAfter    int    `json:"livesAfter"`
	MinGAfter     int    `json:"minGAfter"`
	MaxGAfter     int    `json:"maxGAfter"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	RunID      int64  `json:"runId"`
	FinalScore int    `json:"finalScore"`
	FinalTurn  int    `json:"finalTurn"`
	EndReason  string `json:"endReason"`
	StartedAt  string `json:"startedAt"`
}

// StartRun inserts a run row and returns its id.
func (s *Store) StartRun(ctx context.Context, demo bool) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(started_at, demo) VALUES(?, ?)`,
		time.Now().UTC().Format(time.RFC3339), boolToInt(demo),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordTurn appends one turn row.
func (s *Store) RecordTurn(ctx context.Context, t Turn) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO turns
            (run_id, turn, input_text, canonical_name, weight_g, ruling,
             reason, score_after, lives_after, min_g_after, max_g_after)
        VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.RunID, t.Turn, t.InputText, t.CanonicalName, t.WeightG, t.Ruling,
		t.Reason, t.ScoreAfter, t.LivesAfter, t.MinGAfter, t.MaxGAfter,
	)
	return err
}

// FinishRun stamps the run's end. Safe to call more than once; the first
// write wins.
func (s *Store) FinishRun(ctx context.Context, runID int64, reason string, finalScore, finalTurn int) error {
	_, err := s.db.ExecContext(ctx, `
        UPDATE runs
        SET ended_at=?, end_reason=?, final_score=?, final_turn=?
        WHERE id=? AND ended_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), reason, finalScore, finalTurn, runID,
	)
	return err
}

// Leaderboard returns the best finished runs, highest score first, earlier
// runs breaking ties.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, final_score, final_turn, end_reason, started_at
        FROM runs
        WHERE ended_at IS NOT NULL
        ORDER BY final_score DESC, final_turn ASC, started_at ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.RunID, &r.FinalScore, &r.FinalTurn, &r.EndReason, &r.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
