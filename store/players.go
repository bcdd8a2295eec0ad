package store

import (
	"database/sql"
	"fmt"
)

func (s *SQLiteStore) CreatePlayer(p *Player) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO players (user_id, game_id, name, summary) VALUES (?, ?, ?, ?)",
		p.UserID, p.GameID, p.Name, p.Summary,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create player: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetPlayer(playerID int64) (*Player, error) {
	player := &Player{}
	err := s.db.QueryRow(
		"SELECT id, user_id, game_id, name, summary, created_at FROM players WHERE id = ?",
		playerID,
	).Scan(&player.ID, &player.UserID, &player.GameID, &player.Name, &player.Summary, &player.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (s *SQLiteStore) ListPlayersByGame(gameID int64) ([]*Player, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, game_id, name, summary, created_at FROM players WHERE game_id = ? ORDER BY id",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		player := &Player{}
		if err := rows.Scan(&player.ID, &player.UserID, &player.GameID, &player.Name, &player.Summary, &player.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) UpdatePlayer(p *Player) error {
	_, err := s.db.Exec(
		"UPDATE players SET name = ?, summary = ? WHERE id = ?",
		p.Name, p.Summary, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	return nil
}

// DeletePlayer removes the player and its characters in one transaction.
func (s *SQLiteStore) DeletePlayer(playerID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM characters WHERE player_id = ?", playerID); err != nil {
		return fmt.Errorf("failed to delete player characters: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM players WHERE id = ?", playerID); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
