package campaign

import (
	"questlog/auth"
	"questlog/graph"
	"questlog/store"
)

// CreateCharacter files a new character under the player within the game.
// Both route forms land here: the nested one carries gameID in the path,
// the flat one carries it in the body. The player must belong to the game.
func (s *Service) CreateCharacter(userID, gameID, playerID int64, params CharacterParams) (graph.Character, error) {
	player, err := s.ownedPlayer(userID, playerID)
	if err != nil {
		return graph.Character{}, err
	}
	if _, err := s.ownedGame(userID, gameID); err != nil {
		return graph.Character{}, err
	}
	if player.GameID != gameID {
		return graph.Character{}, invalid("player does not belong to this game")
	}
	if err := params.validate(); err != nil {
		return graph.Character{}, err
	}

	character, err := s.createCharacterRow(gameID, playerID, params)
	if err != nil {
		return graph.Character{}, err
	}
	s.log.Info("character created", "character_id", character.ID, "player_id", playerID, "game_id", gameID)
	return character, nil
}

func (s *Service) createCharacterRow(gameID, playerID int64, params CharacterParams) (graph.Character, error) {
	isActive := true
	if params.IsActive != nil {
		isActive = *params.IsActive
	}
	row := &store.Character{
		PlayerID:       playerID,
		GameID:         gameID,
		Name:           params.Name,
		CharacterClass: params.CharacterClass,
		Level:          params.Level,
		Icon:           params.Icon,
		IsActive:       isActive,
	}
	id, err := s.store.CreateCharacter(row)
	if err != nil {
		return graph.Character{}, err
	}
	row.ID = id
	return characterView(row), nil
}

// UpdateCharacter applies a partial patch. A patched player_id re-homes the
// character, as long as the new player is in the same game.
func (s *Service) UpdateCharacter(userID, characterID int64, patch CharacterPatch) (graph.Character, error) {
	character, err := s.ownedCharacter(userID, characterID)
	if err != nil {
		return graph.Character{}, err
	}

	if patch.Name != nil {
		character.Name = auth.SanitizeText(*patch.Name)
	}
	if patch.CharacterClass != nil {
		character.CharacterClass = auth.SanitizeText(*patch.CharacterClass)
	}
	if patch.Level != nil {
		character.Level = *patch.Level
	}
	if patch.Icon != nil {
		character.Icon = *patch.Icon
	}
	if patch.IsActive != nil {
		character.IsActive = *patch.IsActive
	}
	if patch.PlayerID != nil && *patch.PlayerID != character.PlayerID {
		newPlayer, err := s.ownedPlayer(userID, *patch.PlayerID)
		if err != nil {
			return graph.Character{}, err
		}
		if newPlayer.GameID != character.GameID {
			return graph.Character{}, invalid("player does not belong to this game")
		}
		character.PlayerID = newPlayer.ID
	}

	if character.Name == "" {
		return graph.Character{}, invalid("name is required")
	}
	if character.CharacterClass == "" {
		return graph.Character{}, invalid("character_class is required")
	}
	if character.Level < 1 {
		return graph.Character{}, invalid("level must be at least 1")
	}

	if err := s.store.UpdateCharacter(character); err != nil {
		return graph.Character{}, err
	}
	return characterView(character), nil
}

func (s *Service) DeleteCharacter(userID, characterID int64) error {
	if _, err := s.ownedCharacter(userID, characterID); err != nil {
		return err
	}
	return s.store.DeleteCharacter(characterID)
}

// ownedCharacter resolves the character through its player to the owning
// user.
func (s *Service) ownedCharacter(userID, characterID int64) (*store.Character, error) {
	character, err := s.store.GetCharacter(characterID)
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, ErrCharacterNotFound
	}
	if _, err := s.ownedPlayer(userID, character.PlayerID); err != nil {
		return nil, err
	}
	return character, nil
}
