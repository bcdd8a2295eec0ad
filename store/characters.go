package store

import (
	"database/sql"
	"fmt"
)

func (s *SQLiteStore) CreateCharacter(c *Character) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO characters (player_id, game_id, name, character_class, level, icon, is_active) VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.PlayerID, c.GameID, c.Name, c.CharacterClass, c.Level, c.Icon, boolToInt(c.IsActive),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create character: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetCharacter(characterID int64) (*Character, error) {
	c := &Character{}
	var isActive int
	err := s.db.QueryRow(
		"SELECT id, player_id, game_id, name, character_class, level, icon, is_active, created_at FROM characters WHERE id = ?",
		characterID,
	).Scan(&c.ID, &c.PlayerID, &c.GameID, &c.Name, &c.CharacterClass, &c.Level, &c.Icon, &isActive, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	c.IsActive = isActive == 1
	return c, nil
}

func (s *SQLiteStore) ListCharactersByPlayer(playerID int64) ([]*Character, error) {
	return s.listCharacters("player_id", playerID)
}

func (s *SQLiteStore) ListCharactersByGame(gameID int64) ([]*Character, error) {
	return s.listCharacters("game_id", gameID)
}

func (s *SQLiteStore) listCharacters(column string, id int64) ([]*Character, error) {
	rows, err := s.db.Query(
		"SELECT id, player_id, game_id, name, character_class, level, icon, is_active, created_at FROM characters WHERE "+column+" = ? ORDER BY id",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	var characters []*Character
	for rows.Next() {
		c := &Character{}
		var isActive int
		if err := rows.Scan(&c.ID, &c.PlayerID, &c.GameID, &c.Name, &c.CharacterClass, &c.Level, &c.Icon, &isActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		c.IsActive = isActive == 1
		characters = append(characters, c)
	}
	return characters, rows.Err()
}

func (s *SQLiteStore) UpdateCharacter(c *Character) error {
	_, err := s.db.Exec(
		"UPDATE characters SET name = ?, character_class = ?, level = ?, icon = ?, is_active = ?, player_id = ?, game_id = ? WHERE id = ?",
		c.Name, c.CharacterClass, c.Level, c.Icon, boolToInt(c.IsActive), c.PlayerID, c.GameID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteCharacter(characterID int64) error {
	_, err := s.db.Exec("DELETE FROM characters WHERE id = ?", characterID)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
