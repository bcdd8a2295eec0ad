package store

import (
	"database/sql"
	"fmt"
)

func (s *SQLiteStore) CreateSession(sess *Session) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO sessions (game_id, date, summary) VALUES (?, ?, ?)",
		sess.GameID, sess.Date, sess.Summary,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetSession(sessionID int64) (*Session, error) {
	sess := &Session{}
	err := s.db.QueryRow(
		"SELECT id, game_id, date, summary, created_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&sess.ID, &sess.GameID, &sess.Date, &sess.Summary, &sess.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

func (s *SQLiteStore) ListSessionsByGame(gameID int64) ([]*Session, error) {
	rows, err := s.db.Query(
		"SELECT id, game_id, date, summary, created_at FROM sessions WHERE game_id = ? ORDER BY date, id",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		if err := rows.Scan(&sess.ID, &sess.GameID, &sess.Date, &sess.Summary, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) UpdateSession(sess *Session) error {
	_, err := s.db.Exec(
		"UPDATE sessions SET date = ?, summary = ? WHERE id = ?",
		sess.Date, sess.Summary, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteSession(sessionID int64) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
