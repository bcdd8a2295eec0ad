package store

import (
	"database/sql"
	"fmt"
)

func (s *SQLiteStore) CreateGame(g *Game) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO games (user_id, title, system, status, description, start_date, setting) VALUES (?, ?, ?, ?, ?, ?, ?)",
		g.UserID, g.Title, g.System, g.Status, g.Description, g.StartDate, g.Setting,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetGame(gameID int64) (*Game, error) {
	game := &Game{}
	err := s.db.QueryRow(
		"SELECT id, user_id, title, system, status, description, start_date, setting, created_at FROM games WHERE id = ?",
		gameID,
	).Scan(&game.ID, &game.UserID, &game.Title, &game.System, &game.Status,
		&game.Description, &game.StartDate, &game.Setting, &game.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

func (s *SQLiteStore) ListGamesByUser(userID int64) ([]*Game, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, title, system, status, description, start_date, setting, created_at FROM games WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		game := &Game{}
		if err := rows.Scan(&game.ID, &game.UserID, &game.Title, &game.System, &game.Status,
			&game.Description, &game.StartDate, &game.Setting, &game.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (s *SQLiteStore) UpdateGame(g *Game) error {
	_, err := s.db.Exec(
		"UPDATE games SET title = ?, system = ?, status = ?, description = ?, start_date = ?, setting = ? WHERE id = ?",
		g.Title, g.System, g.Status, g.Description, g.StartDate, g.Setting, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

// DeleteGame removes the game and everything owned by it in one
// transaction: characters first, then players and sessions.
func (s *SQLiteStore) DeleteGame(gameID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM characters WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete game characters: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM players WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete game players: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete game sessions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM games WHERE id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
