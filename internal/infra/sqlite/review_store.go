package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"pdf-quiz-service/internal/domain"
)

// ReviewStore persists review sets and an answer log in a SQLite file,
// so the questions to review survive restarts of the terminal quiz.
type ReviewStore struct {
	conn *sql.DB
	now  func() time.Time
}

// Open creates the database file if needed and initializes tables.
func Open(dbPath string) (*ReviewStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// one writer keeps "database is locked" errors away
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if err = createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &ReviewStore{conn: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *ReviewStore) Close() error {
	return s.conn.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS review_questions (
			player_id TEXT NOT NULL,
			bank_id TEXT NOT NULL,
			question_id INTEGER NOT NULL,
			added_at INTEGER NOT NULL,
			PRIMARY KEY (player_id, bank_id, question_id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS answer_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			bank_id TEXT NOT NULL,
			question_id INTEGER NOT NULL,
			correct BOOLEAN NOT NULL,
			timestamp INTEGER NOT NULL
		)
	`)
	return err
}

// Add records a wrong answer and puts the question in the review set.
func (s *ReviewStore) Add(ctx context.Context, playerID, bankID string, questionID int) (bool, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := s.logAnswer(ctx, tx, playerID, bankID, questionID, false); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO review_questions (player_id, bank_id, question_id, added_at) VALUES (?, ?, ?, ?)",
		playerID, bankID, questionID, s.now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("add review question %d: %w", questionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, tx.Commit()
}

// Remove records a correct answer and drops the question from the review set.
func (s *ReviewStore) Remove(ctx context.Context, playerID, bankID string, questionID int) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.logAnswer(ctx, tx, playerID, bankID, questionID, true); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM review_questions WHERE player_id = ? AND bank_id = ? AND question_id = ?",
		playerID, bankID, questionID,
	); err != nil {
		return fmt.Errorf("remove review question %d: %w", questionID, err)
	}
	return tx.Commit()
}

// List returns the review set of one bank in ascending id order.
func (s *ReviewStore) List(ctx context.Context, playerID, bankID string) ([]int, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT question_id FROM review_questions WHERE player_id = ? AND bank_id = ? ORDER BY question_id",
		playerID, bankID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Stats counts the logged answers of a player over every bank.
func (s *ReviewStore) Stats(ctx context.Context, playerID string) (domain.PlayerStats, error) {
	var stats domain.PlayerStats
	err := s.conn.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN correct = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN correct = 0 THEN 1 ELSE 0 END), 0)
		FROM answer_history
		WHERE player_id = ?
	`, playerID).Scan(&stats.Correct, &stats.Incorrect)
	if err != nil {
		return domain.PlayerStats{}, err
	}
	return stats, nil
}

// MostMissed lists the questions answered wrongly most often, most missed first.
func (s *ReviewStore) MostMissed(ctx context.Context, playerID string, limit int) ([]domain.MissCount, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT bank_id, question_id, COUNT(*) as count
		FROM answer_history
		WHERE player_id = ? AND correct = 0
		GROUP BY bank_id, question_id
		ORDER BY count DESC, bank_id ASC, question_id ASC
		LIMIT ?
	`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MissCount
	for rows.Next() {
		var m domain.MissCount
		if err := rows.Scan(&m.BankID, &m.QuestionID, &m.Count); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *ReviewStore) logAnswer(ctx context.Context, tx *sql.Tx, playerID, bankID string, questionID int, correct bool) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO answer_history (player_id, bank_id, question_id, correct, timestamp) VALUES (?, ?, ?, ?, ?)",
		playerID, bankID, questionID, correct, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("log answer to question %d: %w", questionID, err)
	}
	return nil
}
