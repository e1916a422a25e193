package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// Result is one finished daily herd.
type Result struct {
	OwnerID   string `json:"ownerId"`
	Date      string `json:"date"`
	GameID    string `json:"gameId"`
	Scored    int    `json:"cowsScored"`
	Lost      int    `json:"cowsLost"`
	Rounds    int    `json:"rounds"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LBRow is one leaderboard line.
type LBRow struct {
	OwnerID   string `json:"ownerId"`
	Scored    int    `json:"cowsScored"`
	Lost      int    `json:"cowsLost"`
	Rounds    int    `json:"rounds"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether owner has a recorded result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE owner_id=? AND date=?`,
		ownerID, date,
	).Scan(&cnt)
	if err != nil {
		return false, fmt.Errorf("daily: already played: %w", err)
	}
	return cnt > 0, nil
}

// InsertResult stores r; a second result for the same owner and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, date, game_id, scored, lost, rounds, elapsed_ms)
		 VALUES(?,?,?,?,?,?,?)`,
		r.OwnerID, r.Date, r.GameID, r.Scored, r.Lost, r.Rounds, r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("daily: insert result: %w", err)
	}
	return nil
}

// Leaderboard returns the best results for date: most cows penned, then
// fewest rounds, then fastest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner_id, scored, lost, rounds, elapsed_ms
		 FROM daily_results
		 WHERE date=?
		 ORDER BY scored DESC, rounds ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("daily: leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.OwnerID, &r.Scored, &r.Lost, &r.Rounds, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
